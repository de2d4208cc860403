// Package cost estimates the property damage of destroyed buildings.
package cost

import (
	"math"

	"github.com/IrdiZ/kaiju/pkg/building"
)

// Breakdown itemizes the damage of one building or a whole rampage.
type Breakdown struct {
	Structure float64 `json:"structure"`
	Contents  float64 `json:"contents"`
	Cleanup   float64 `json:"cleanup"`
	Total     float64 `json:"total"`
}

// Add returns the sum of two breakdowns.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return makeBreakdown(b.Structure+o.Structure, b.Contents+o.Contents, b.Cleanup+o.Cleanup)
}

// Item is the damage attributed to one building.
type Item struct {
	Building  int       `json:"building"`
	Name      string    `json:"name,omitempty"`
	Style     string    `json:"style"`
	Landmark  bool      `json:"landmark"`
	FloorArea float64   `json:"floor_area_m2"`
	Damage    Breakdown `json:"damage"`
}

// Report is the complete damage output.
type Report struct {
	Items []Item    `json:"items"`
	Total Breakdown `json:"total"`

	Summary struct {
		Destroyed            int     `json:"destroyed"`
		Landmarks            int     `json:"landmarks"`
		FloorArea            float64 `json:"floor_area_m2"`
		AnnualRebuildPayment float64 `json:"annual_rebuild_payment"`
	} `json:"summary"`
}

// CostPerM2 returns the replacement cost per square meter of floor area.
func CostPerM2(s building.Style) float64 {
	switch s {
	case building.Commercial:
		return CommercialCostPerM2
	case building.Modern:
		return ModernCostPerM2
	case building.Industrial:
		return IndustrialCostPerM2
	case building.Civic:
		return CivicCostPerM2
	case building.Theatre, building.Museum:
		return CulturalCostPerM2
	case building.Church, building.Basilica:
		return ChurchCostPerM2
	default:
		return ResidentialCostPerM2
	}
}

// Floors returns the storey count used for floor area, at least 1.
func Floors(height float64) int {
	return max(1, int(math.Floor(height/FloorHeightM)))
}

// Damage estimates the loss from destroying rec.
func Damage(rec *building.Record) Item {
	floorArea := rec.FootprintArea * float64(Floors(rec.Height))
	structure := floorArea * CostPerM2(rec.Style)
	if rec.Landmark {
		structure *= LandmarkMultiplier
	}
	contents := structure * ContentsFraction
	cleanup := rec.FootprintArea * rec.Height * DebrisCostPerM3
	return Item{
		Building:  rec.Index,
		Name:      rec.Name,
		Style:     string(rec.Style),
		Landmark:  rec.Landmark,
		FloorArea: floorArea,
		Damage:    makeBreakdown(structure, contents, cleanup),
	}
}

// Ledger accumulates damage as buildings fall.
type Ledger struct {
	items []Item
	total Breakdown
	area  float64
	marks int
}

// Record adds the damage of rec and returns its item.
func (l *Ledger) Record(rec *building.Record) Item {
	it := Damage(rec)
	l.items = append(l.items, it)
	l.total = l.total.Add(it.Damage)
	l.area += it.FloorArea
	if it.Landmark {
		l.marks++
	}
	return it
}

// Total returns the running damage total.
func (l *Ledger) Total() Breakdown { return l.total }

// Report summarizes everything recorded so far.
func (l *Ledger) Report() *Report {
	r := &Report{
		Items: append([]Item(nil), l.items...),
		Total: l.total,
	}
	r.Summary.Destroyed = len(l.items)
	r.Summary.Landmarks = l.marks
	r.Summary.FloorArea = l.area
	r.Summary.AnnualRebuildPayment = computeAnnualDebtService(l.total.Structure, RebuildRate, RebuildTermYears)
	return r
}

// computeAnnualDebtService uses the standard annuity formula.
// P * r(1+r)^n / ((1+r)^n - 1)
// At 0% interest, returns principal / term.
func computeAnnualDebtService(principal, rate float64, termYears int) float64 {
	if termYears <= 0 {
		return 0
	}
	if rate <= 0 {
		return principal / float64(termYears)
	}
	n := float64(termYears)
	factor := math.Pow(1+rate, n)
	return principal * rate * factor / (factor - 1)
}

func makeBreakdown(structure, contents, cleanup float64) Breakdown {
	return Breakdown{
		Structure: structure,
		Contents:  contents,
		Cleanup:   cleanup,
		Total:     structure + contents + cleanup,
	}
}

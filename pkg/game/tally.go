package game

import (
	"time"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/cost"
)

// Tally is the reference game-state collaborator: it keeps score as
// buildings fall.
type Tally struct {
	lookup    func(int) (*building.Record, error)
	ledger    cost.Ledger
	destroyed int
	landmarks []string
	lastShake float64
	flashes   int
	flashTime time.Duration
}

// NewTally creates a tally resolving building indices through lookup.
func NewTally(lookup func(int) (*building.Record, error)) *Tally {
	return &Tally{lookup: lookup}
}

// OnBuildingDestroyed records the building and its damage.
func (t *Tally) OnBuildingDestroyed(index int, name string) {
	t.destroyed++
	if rec, err := t.lookup(index); err == nil {
		t.ledger.Record(rec)
		if rec.Landmark && name != "" {
			t.landmarks = append(t.landmarks, name)
		}
	}
}

// OnShakeRequested remembers the latest shake.
func (t *Tally) OnShakeRequested(intensity float64) { t.lastShake = intensity }

// OnFlash counts flashes.
func (t *Tally) OnFlash(d time.Duration) {
	t.flashes++
	t.flashTime += d
}

// Destroyed returns the number of buildings destroyed.
func (t *Tally) Destroyed() int { return t.destroyed }

// Landmarks returns the names of destroyed landmarks in order.
func (t *Tally) Landmarks() []string { return t.landmarks }

// LastShake returns the most recent shake intensity.
func (t *Tally) LastShake() float64 { return t.lastShake }

// Flashes returns the number of flashes and their total duration.
func (t *Tally) Flashes() (int, time.Duration) { return t.flashes, t.flashTime }

// Score returns the damage total in whole dollars.
func (t *Tally) Score() int64 { return int64(t.ledger.Total().Total) }

// Damage returns the itemized damage report.
func (t *Tally) Damage() *cost.Report { return t.ledger.Report() }

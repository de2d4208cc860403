package building

import "strings"

// Style is the architectural style of a building. It selects materials and
// ornament.
type Style string

const (
	Residential Style = "residential"
	Church      Style = "church"
	Basilica    Style = "basilica"
	Commercial  Style = "commercial"
	Modern      Style = "modern"
	Industrial  Style = "industrial"
	Civic       Style = "civic"
	Theatre     Style = "theatre"
	Museum      Style = "museum"
)

// Styles lists every known style.
var Styles = []Style{
	Residential, Church, Basilica, Commercial, Modern,
	Industrial, Civic, Theatre, Museum,
}

// ParseStyle maps a raw style name to a Style. Unknown or empty names map
// to Residential and report false.
func ParseStyle(s string) (Style, bool) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Styles {
		if st == known {
			return st, true
		}
	}
	return Residential, false
}

// Ecclesiastical reports whether the style gets a spire roof.
func (s Style) Ecclesiastical() bool {
	return s == Church || s == Basilica
}

// WallMaterial names the material used for walls and debris.
func (s Style) WallMaterial() string { return "wall_" + string(s) }

// RoofMaterial names the material used for roof surfaces.
func (s Style) RoofMaterial() string { return "roof_" + string(s) }

// TrimMaterial names the material used for cornices and ornaments.
func (s Style) TrimMaterial() string { return "trim_" + string(s) }

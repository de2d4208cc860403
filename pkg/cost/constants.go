package cost

// Unit cost constants for damage estimation.
const (
	ResidentialCostPerM2 = 2000.0 // $/m² floor area
	CommercialCostPerM2  = 2500.0 // $/m² floor area
	ModernCostPerM2      = 3200.0 // $/m² floor area
	IndustrialCostPerM2  = 1200.0 // $/m² floor area
	CivicCostPerM2       = 3000.0 // $/m² floor area
	CulturalCostPerM2    = 3500.0 // $/m² floor area, theatres and museums
	ChurchCostPerM2      = 4000.0 // $/m² floor area, churches and basilicas

	ContentsFraction   = 0.35 // contents value relative to structure
	DebrisCostPerM3    = 28.0 // $/m³ of gross volume hauled away
	LandmarkMultiplier = 2.5  // heritage premium on landmark structures

	FloorHeightM     = 3.2
	RebuildRate      = 0.05 // annual interest on rebuild financing
	RebuildTermYears = 30
)

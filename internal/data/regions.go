package data

// NEM region identifiers accepted by the price API.
const (
	RegionNSW = "NSW1"
	RegionQLD = "QLD1"
	RegionSA  = "SA1"
	RegionTAS = "TAS1"
	RegionVIC = "VIC1"
)

// Regions lists the five NEM regions.
var Regions = []string{RegionNSW, RegionQLD, RegionSA, RegionTAS, RegionVIC}

// ValidRegion reports whether id names a NEM region.
func ValidRegion(id string) bool {
	for _, r := range Regions {
		if r == id {
			return true
		}
	}
	return false
}

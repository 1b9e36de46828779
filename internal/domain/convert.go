package domain

// Weight units accepted by the store and the charts.
const (
	UnitKg = "kg"
	UnitLb = "lb"
)

const lbPerKg = 2.2046226218

// ValidWeightUnit reports whether u is kg or lb.
func ValidWeightUnit(u string) bool { return u == UnitKg || u == UnitLb }

// ConvertWeight converts v from one weight unit to another. Unknown units
// leave v as is.
func ConvertWeight(v float64, from, to string) float64 {
	switch {
	case from == to:
		return v
	case from == UnitKg && to == UnitLb:
		return v * lbPerKg
	case from == UnitLb && to == UnitKg:
		return v / lbPerKg
	}
	return v
}

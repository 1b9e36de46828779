package pk

// ReferenceWeightKg is the population weight reference Cmax values refer to.
const ReferenceWeightKg = 70.0

// ScaleCmax scales a population reference peak concentration to an
// individual's weight. Volume of distribution is taken as proportional to
// body weight, so Cmax scales with refWeightKg/weightKg. A non-positive
// weight returns cmaxRef unchanged.
func ScaleCmax(cmaxRef, weightKg, refWeightKg float64) float64 {
	if weightKg <= 0 {
		return cmaxRef
	}
	if refWeightKg <= 0 {
		refWeightKg = ReferenceWeightKg
	}
	return cmaxRef * refWeightKg / weightKg
}

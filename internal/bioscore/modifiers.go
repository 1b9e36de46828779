package bioscore

// SleepModifier maps last night's sleep to -20..+10 points. Confidence in
// (0, 100] discounts the bucket toward 0; nil or 0 confidence leaves it.
func SleepModifier(durationMin, confidence *float64) float64 {
	if durationMin == nil {
		return 0
	}
	hours := *durationMin / 60.0
	var v float64
	switch {
	case hours < 5:
		v = -20
	case hours < 6:
		v = -10
	case hours < 7:
		v = -5
	case hours < 8:
		v = 0
	case hours < 9:
		v = 5
	default:
		v = 10
	}
	if confidence != nil && *confidence > 0 {
		v *= *confidence / 100.0
	}
	return v
}

// HRVPenalty returns 0..-15 points for autonomic strain under stimulants.
// It is 0 whenever HRV is missing.
func HRVPenalty(hrvMs, restingHR *float64, stimLevel float64) float64 {
	if hrvMs == nil {
		return 0
	}
	hrv := *hrvMs
	penalty := 0.0
	switch {
	case hrv < 20 && stimLevel > 0.5:
		penalty = -15
	case hrv < 30 && stimLevel > 0.5:
		penalty = -10
	case hrv < 40 && stimLevel > 0.3:
		penalty = -5
	case hrv < 50 && stimLevel > 0.5:
		penalty = -3
	}
	if restingHR != nil {
		switch {
		case *restingHR > 100:
			penalty -= 8
		case *restingHR > 90 && stimLevel > 0.3:
			penalty -= 5
		}
	}
	return max(-15, penalty)
}

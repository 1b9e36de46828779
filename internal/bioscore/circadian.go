package bioscore

import "math"

// Circadian returns the baseline alertness (0-60) for a fractional hour.
func Circadian(h float64) float64 {
	switch {
	case h < 6:
		return 15
	case h < 7:
		return 15 + 20*(h-6)
	case h < 9:
		return 35 + 12.5*(h-7)
	case h < 12:
		return 60
	case h < 13:
		return 60 - 10*(h-12)
	case h < 14.5:
		return 50 - 10*(h-13)
	case h < 15:
		return 35 + 30*(h-14.5)
	case h < 17:
		return 50
	case h < 20:
		return 50 - 8*(h-17)
	case h < 22:
		return 26 - 5*(h-20)
	default:
		return math.Max(15, 16-0.5*(h-22))
	}
}

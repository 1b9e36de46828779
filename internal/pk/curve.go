package pk

import "math"

// Curve is a normalized concentration-time shape. The set of
// implementations is closed: Bateman and Cascade.
type Curve interface {
	isCurve()
}

// Bateman is the two-compartment first-order absorption/elimination model.
type Bateman struct {
	Ka float64 `yaml:"ka" json:"ka"` // absorption rate, 1/h
	Ke float64 `yaml:"ke" json:"ke"` // elimination rate, 1/h
}

func (Bateman) isCurve() {}

// Raw evaluates the un-normalized Bateman function. It is 0 for t <= 0 and
// for the degenerate ka == ke case.
func (b Bateman) Raw(t float64) float64 {
	if t <= 0 || b.Ka == b.Ke {
		return 0
	}
	return b.Ka / (b.Ka - b.Ke) * (math.Exp(-b.Ke*t) - math.Exp(-b.Ka*t))
}

// Tmax returns the time of peak concentration, or 1.0 when the rates do
// not admit a peak (ka <= ke or a non-positive rate).
func (b Bateman) Tmax() float64 {
	if b.Ka <= b.Ke || b.Ka <= 0 || b.Ke <= 0 {
		return 1.0
	}
	return math.Log(b.Ka/b.Ke) / (b.Ka - b.Ke)
}

// Normalized returns Raw(t)/Raw(Tmax), clamped at 0.
func (b Bateman) Normalized(t float64) float64 {
	if t <= 0 {
		return 0
	}
	peak := b.Raw(b.Tmax())
	if peak <= 0 {
		return 0
	}
	return math.Max(0, b.Raw(t)/peak)
}

// Cascade is a three-step chain of first-order processes: absorption,
// enzymatic conversion of the prodrug, and elimination of the active
// metabolite.
type Cascade struct {
	KAbs float64 `yaml:"k_abs" json:"k_abs"`
	KHyd float64 `yaml:"k_hyd" json:"k_hyd"`
	KE   float64 `yaml:"k_e" json:"k_e"`
}

func (Cascade) isCurve() {}

// Raw evaluates the partial-fraction solution for the active metabolite
// amount. Terms with a near-zero denominator are skipped.
func (c Cascade) Raw(t float64) float64 {
	if t <= 0 {
		return 0
	}
	rates := [3]float64{c.KAbs, c.KHyd, c.KE}
	sum := 0.0
	for i, ri := range rates {
		denom := 1.0
		for j, rj := range rates {
			if j != i {
				denom *= rj - ri
			}
		}
		if math.Abs(denom) < 1e-12 {
			continue
		}
		sum += math.Exp(-ri*t) / denom
	}
	return c.KAbs * c.KHyd * sum
}

const (
	peakStepHours = 0.01
	peakSteps     = 3000
)

// searchPeak locates the maximum of Raw by dense sampling over (0, 30h].
func (c Cascade) searchPeak() float64 {
	peak := 0.0
	for i := 1; i <= peakSteps; i++ {
		if v := c.Raw(float64(i) * peakStepHours); v > peak {
			peak = v
		}
	}
	return peak
}

// tmax returns the sampled time of the peak in hours.
func (c Cascade) tmax() float64 {
	best, at := 0.0, 0.0
	for i := 1; i <= peakSteps; i++ {
		t := float64(i) * peakStepHours
		if v := c.Raw(t); v > best {
			best, at = v, t
		}
	}
	return at
}

// normalizedWith divides Raw(t) by a previously located peak.
func (c Cascade) normalizedWith(t, peak float64) float64 {
	if t <= 0 || peak <= 0 {
		return 0
	}
	return math.Max(0, c.Raw(t)/peak)
}

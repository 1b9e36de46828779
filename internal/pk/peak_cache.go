package pk

import (
	"math"
	"sync"
)

type peakKey [3]float64

func keyFor(c Cascade) peakKey {
	r := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }
	return peakKey{r(c.KAbs), r(c.KHyd), r(c.KE)}
}

// PeakCache memoizes numerically located cascade peaks per rounded rate
// triple. It is safe for concurrent use.
type PeakCache struct {
	mu    sync.RWMutex
	peaks map[peakKey]float64
}

// NewPeakCache returns an empty cache.
func NewPeakCache() *PeakCache {
	return &PeakCache{peaks: make(map[peakKey]float64)}
}

// Peak returns the peak of c, computing it on first use.
func (pc *PeakCache) Peak(c Cascade) float64 {
	k := keyFor(c)
	pc.mu.RLock()
	v, ok := pc.peaks[k]
	pc.mu.RUnlock()
	if ok {
		return v
	}

	v = c.searchPeak()
	pc.mu.Lock()
	if existing, ok := pc.peaks[k]; ok {
		v = existing
	} else {
		pc.peaks[k] = v
	}
	pc.mu.Unlock()
	return v
}

// Len reports the number of cached rate triples.
func (pc *PeakCache) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.peaks)
}

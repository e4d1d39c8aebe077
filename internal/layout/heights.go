package layout

// HeightCache remembers the last measured height of each chunk, keyed by
// chunk index. Entries survive across frames and are dropped with Reset
// when the chunk list changes.
type HeightCache struct {
	heights  []float64
	measured []bool
}

func NewHeightCache(n int) *HeightCache {
	hc := &HeightCache{}
	hc.Reset(n)
	return hc
}

// Reset forgets every measurement and resizes the cache for n chunks.
func (hc *HeightCache) Reset(n int) {
	hc.heights = make([]float64, n)
	hc.measured = make([]bool, n)
}

func (hc *HeightCache) Len() int { return len(hc.heights) }

// Get returns the cached height for chunk i.
func (hc *HeightCache) Get(i int) (float64, bool) {
	if i < 0 || i >= len(hc.heights) || !hc.measured[i] {
		return 0, false
	}
	return hc.heights[i], true
}

// Set stores a measurement. The last measurement wins.
func (hc *HeightCache) Set(i int, h float64) {
	if i < 0 || i >= len(hc.heights) {
		return
	}
	hc.heights[i] = h
	hc.measured[i] = true
}

// Height returns the cached height, or estimate if chunk i was never
// measured.
func (hc *HeightCache) Height(i int, estimate float64) float64 {
	if h, ok := hc.Get(i); ok {
		return h
	}
	return estimate
}

// Measured counts the chunks with a cached height.
func (hc *HeightCache) Measured() int {
	n := 0
	for _, m := range hc.measured {
		if m {
			n++
		}
	}
	return n
}

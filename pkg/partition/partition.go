// Package partition splits the edges of a frame into emphasized (solid) and
// dotted styles. The split is drawn fresh on every render pass.
package partition

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand/v2"
	"time"
)

// bonusThreshold gives the extra emphasized edge a 0.6 probability.
const bonusThreshold = 0.4

// Source is the random source the partitioner draws from.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n). n > 0.
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropySource returns a source seeded from the operating system.
func NewEntropySource() *mrand.Rand {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return mrand.New(mrand.NewPCG(now, now>>1))
	}
	return mrand.New(mrand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Selection is the set of emphasized edge indices out of Total edges.
type Selection struct {
	total int
	mask  []bool
	count int
}

// Total is the number of edges the selection was drawn over
func (s Selection) Total() int { return s.total }

// Len is the number of emphasized edges
func (s Selection) Len() int { return s.count }

// Has reports whether edge i is emphasized. Out of range indices are dotted.
func (s Selection) Has(i int) bool {
	return i >= 0 && i < len(s.mask) && s.mask[i]
}

// Indices returns the emphasized indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, s.count)
	for i, on := range s.mask {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// SampleSize is the number of edges to emphasize for edgeCount edges. It draws
// the Bernoulli bonus from src and clamps the result to [0, edgeCount].
func SampleSize(edgeCount int, chanceDotted float64, src Source) int {
	if edgeCount <= 0 {
		// the bonus is still drawn when there is nothing to pick
		src.Float64()
		return 0
	}

	bonus := 0
	if src.Float64() > bonusThreshold {
		bonus = 1
	}

	base := math.Floor(float64(edgeCount) * chanceDotted)
	if math.IsNaN(base) {
		base = 0
	}
	size := bonus + int(math.Max(-1, math.Min(base, float64(edgeCount))))

	if size < 0 {
		size = 0
	}
	if size > edgeCount {
		size = edgeCount
	}
	return size
}

// SelectEmphasized draws a uniform sample without replacement of
// SampleSize(edgeCount, chanceDotted, src) indices from [0, edgeCount).
func SelectEmphasized(edgeCount int, chanceDotted float64, src Source) Selection {
	if edgeCount < 0 {
		edgeCount = 0
	}
	size := SampleSize(edgeCount, chanceDotted, src)

	sel := Selection{total: edgeCount, mask: make([]bool, edgeCount)}
	if size == 0 {
		return sel
	}

	// partial Fisher-Yates over the index range
	pool := make([]int, edgeCount)
	for i := range pool {
		pool[i] = i
	}
	for k := 0; k < size; k++ {
		j := k + src.IntN(edgeCount-k)
		pool[k], pool[j] = pool[j], pool[k]
	}

	for _, i := range pool[:size] {
		sel.mask[i] = true
	}
	sel.count = size
	return sel
}

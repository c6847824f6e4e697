// Package wave holds the process-wide table of precomputed oscillator
// waveforms. Tables are built once, on first use, and shared immutably by
// every oscillator instance: reads are lock-free, construction is one-time.
package wave

import (
	"math"
	"sync"
)

// Shape selects a standard oscillator waveform.
type Shape int

const (
	Sine Shape = iota
	Square
	Sawtooth
	Triangle
)

var shapeNames = []string{"sine", "square", "sawtooth", "triangle"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[int(s)]
}

// ShapeNames returns the enum value names in declaration order.
func ShapeNames() []string { return shapeNames }

// TableSize is the number of frames in one waveform cycle. Tables carry one
// extra guard frame so interpolation never wraps.
const TableSize = 2048

// maxHarmonics bounds the additive series used for the non-sine shapes.
const maxHarmonics = 256

// A Table is one immutable cycle of a waveform.
type Table struct {
	data [TableSize + 1]float32
}

// Sample returns the waveform value at normalized phase [0, 1) with linear
// interpolation.
func (t *Table) Sample(phase float64) float32 {
	x := phase * TableSize
	i := int(x)
	if i < 0 {
		i = 0
	} else if i >= TableSize {
		i = TableSize - 1
	}
	frac := float32(x - float64(i))
	return t.data[i]*(1-frac) + t.data[i+1]*frac
}

var (
	buildOnce sync.Once
	tables    [4]*Table
)

// ForShape returns the shared table for a shape, building all tables on the
// first call.
func ForShape(s Shape) *Table {
	buildOnce.Do(buildTables)
	if s < 0 || int(s) >= len(tables) {
		s = Sine
	}
	return tables[s]
}

func buildTables() {
	tables[Sine] = additive(func(k int) float64 {
		if k == 1 {
			return 1
		}
		return 0
	})
	tables[Square] = additive(func(k int) float64 {
		if k%2 == 0 {
			return 0
		}
		return 4 / (math.Pi * float64(k))
	})
	tables[Sawtooth] = additive(func(k int) float64 {
		a := 2 / (math.Pi * float64(k))
		if k%2 == 0 {
			return -a
		}
		return a
	})
	tables[Triangle] = additive(func(k int) float64 {
		if k%2 == 0 {
			return 0
		}
		a := 8 / (math.Pi * math.Pi * float64(k) * float64(k))
		if k%4 == 3 {
			return -a
		}
		return a
	})
}

// additive renders one cycle from a harmonic amplitude series and
// normalizes it to unit peak.
func additive(amp func(k int) float64) *Table {
	var cycle [TableSize]float64
	for k := 1; k <= maxHarmonics; k++ {
		a := amp(k)
		if a == 0 {
			continue
		}
		w := 2 * math.Pi * float64(k) / TableSize
		for i := range cycle {
			cycle[i] += a * math.Sin(w*float64(i))
		}
	}
	peak := 0.0
	for _, v := range cycle {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}
	t := &Table{}
	for i, v := range cycle {
		t.data[i] = float32(v / peak)
	}
	t.data[TableSize] = t.data[0]
	return t
}

package trace

import (
	"fmt"

	"github.com/bodgit/mandelbrot/bus"
)

// Mismatch is a single difference between two traces.
type Mismatch struct {
	Frame int
	Index int // Transaction index within the frame, -1 for a length mismatch
	Want  bus.Transaction
	Got   bus.Transaction

	// Set for a length mismatch
	WantLen, GotLen int
}

func (m Mismatch) String() string {
	if m.Index < 0 {
		return fmt.Sprintf("frame %d: %d transactions, want %d", m.Frame, m.GotLen, m.WantLen)
	}
	return fmt.Sprintf("frame %d, transaction %d: got %s, want %s", m.Frame, m.Index, m.Got, m.Want)
}

// Diff compares the transactions of got against want, frame by frame, and
// returns at most limit mismatches. A limit of zero or less means no limit.
// Headers are not compared as simulation traces usually lack them.
func Diff(want, got []Frame, limit int) []Mismatch {
	var mismatches []Mismatch
	full := func() bool {
		return limit > 0 && len(mismatches) >= limit
	}

	n := len(want)
	if len(got) > n {
		n = len(got)
	}

	for i := 0; i < n && !full(); i++ {
		var w, g []bus.Transaction
		if i < len(want) {
			w = want[i].Transactions
		}
		if i < len(got) {
			g = got[i].Transactions
		}

		for j := 0; j < len(w) && j < len(g) && !full(); j++ {
			if w[j] != g[j] {
				mismatches = append(mismatches, Mismatch{Frame: i, Index: j, Want: w[j], Got: g[j]})
			}
		}

		if len(w) != len(g) && !full() {
			mismatches = append(mismatches, Mismatch{Frame: i, Index: -1, WantLen: len(w), GotLen: len(g)})
		}
	}

	return mismatches
}

package orchestrator

// fade is a linear timer shared by transition actions. Progress runs from
// 0 to 1 and never overshoots.
type fade struct {
	leftMs  int
	totalMs int
	done    bool
}

func newFade(totalMs int) fade {
	if totalMs < 0 {
		totalMs = 0
	}
	return fade{leftMs: totalMs, totalMs: totalMs}
}

// tick consumes dtMs and returns the new progress. The fade is done once
// the remaining time drops below zero.
func (f *fade) tick(dtMs int) float64 {
	if f.done {
		return 1
	}
	f.leftMs -= dtMs
	if f.leftMs < 0 {
		f.done = true
	}
	return f.progress()
}

func (f *fade) progress() float64 {
	if f.done || f.totalMs == 0 {
		return 1
	}
	p := float64(f.totalMs-f.leftMs) / float64(f.totalMs)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func (f *fade) finish() {
	f.leftMs = -1
	f.done = true
}

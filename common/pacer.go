package common

import "time"

// Pacer turns wall-clock time into fixed simulation ticks. It runs at most
// one tick per call and drops any backlog beyond a single frame, so a slow
// consumer sees skipped frames instead of a catch-up burst.
type Pacer struct {
	Frame   time.Duration
	elapsed time.Duration
	skipped uint64
}

func NewPacer(tps int) *Pacer {
	if tps <= 0 {
		tps = 60
	}
	return &Pacer{Frame: time.Second / time.Duration(tps)}
}

// Advance accumulates elapsed time and reports whether a tick is due.
func (p *Pacer) Advance(elapsed time.Duration) bool {
	if elapsed > 0 {
		p.elapsed += elapsed
	}
	if p.elapsed < p.Frame {
		return false
	}
	p.elapsed -= p.Frame
	if p.elapsed >= p.Frame {
		p.skipped += uint64(p.elapsed / p.Frame)
		p.elapsed = 0
	}
	return true
}

// Skipped is the number of frames dropped so far.
func (p *Pacer) Skipped() uint64 {
	return p.skipped
}

// Seconds is the fixed tick length as a float.
func (p *Pacer) Seconds() float64 {
	return p.Frame.Seconds()
}

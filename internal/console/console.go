// Package console prints throttled, string-tagged diagnostics the way the
// estimator's original firmware prints to its UART console: no structured
// logging framework, just a rate-limited Fprintf per warning kind.
package console

import (
	"fmt"
	"io"
	"os"
)

// Printer emits warnings to an injectable writer, holding back repeats of
// the same kind for holdBackMsec.
type Printer struct {
	Writer       io.Writer
	HoldBackMsec uint32

	nextAllowedMsec map[string]uint32
}

// NewPrinter returns a Printer writing to os.Stderr with the given
// holdback, matching the estimator's 2000 ms per-kind throttle.
func NewPrinter(holdBackMsec uint32) *Printer {
	return &Printer{Writer: os.Stderr, HoldBackMsec: holdBackMsec, nextAllowedMsec: map[string]uint32{}}
}

// Warn prints msg tagged with kind if the holdback window for kind has
// elapsed as of nowMsec, and reports whether it printed.
func (p *Printer) Warn(nowMsec uint32, kind, msg string) bool {
	if p.nextAllowedMsec == nil {
		p.nextAllowedMsec = map[string]uint32{}
	}
	if nowMsec < p.nextAllowedMsec[kind] {
		return false
	}
	p.nextAllowedMsec[kind] = nowMsec + p.HoldBackMsec
	w := p.Writer
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s: %s\n", kind, msg)
	return true
}

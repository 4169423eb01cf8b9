// This file is part of GopherPsych.
//
// GopherPsych is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPsych is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPsych.  If not, see <https://www.gnu.org/licenses/>.

// Package clock provides the time base for the experiment runtime. All times
// are in seconds and are derived from the monotonic reading of the Go
// runtime clock, meaning they are unaffected by adjustments to the system
// clock.
//
// A Clock measures time elapsed since its last reset. Many independent
// clocks can exist at once: one global clock for the session, one per
// routine, one per response. Response latency is measured by resetting a
// clock at stimulus onset and reading it when the response arrives.
package clock

import (
	"time"
)

// Clock measures elapsed time since its last reset.
type Clock struct {
	origin time.Time
}

// NewClock is the preferred method of initialisation for the Clock type. The
// new clock reads zero at the moment of creation.
func NewClock() *Clock {
	return &Clock{origin: time.Now()}
}

// Elapsed returns the number of seconds since the last reset. The value is
// never negative relative to the last reset.
func (clk *Clock) Elapsed() float64 {
	return time.Since(clk.origin).Seconds()
}

// Reset sets the elapsed time back to zero. Resetting is idempotent and
// instantaneous.
func (clk *Clock) Reset() {
	clk.origin = time.Now()
}

// ResetTo sets the elapsed time to the given number of seconds rather than
// zero. A positive offset makes the clock read as if it had been running for
// that long already.
func (clk *Clock) ResetTo(offset float64) {
	clk.origin = time.Now().Add(-time.Duration(offset * float64(time.Second)))
}

// At returns the moment of the last reset. Used to rebase timestamps taken
// against one clock onto another.
func (clk *Clock) At() time.Time {
	return clk.origin
}

// Rebase converts a timestamp taken against this clock into the equivalent
// reading on another clock.
func (clk *Clock) Rebase(t float64, other *Clock) float64 {
	return t + clk.origin.Sub(other.origin).Seconds()
}

// CountdownTimer counts down from an amount of time added to it. Unlike a
// Clock the reading decreases and continues past zero into negative values
// once the timer has expired.
type CountdownTimer struct {
	Clock
	countdown float64
}

// NewCountdownTimer is the preferred method of initialisation for the
// CountdownTimer type.
func NewCountdownTimer(seconds float64) *CountdownTimer {
	c := &CountdownTimer{countdown: seconds}
	c.Clock.Reset()
	return c
}

// Remaining returns the number of seconds left on the timer. Negative once
// the timer has expired.
func (tmr *CountdownTimer) Remaining() float64 {
	return tmr.countdown - tmr.Elapsed()
}

// Add extends the countdown by the given number of seconds.
func (tmr *CountdownTimer) Add(seconds float64) {
	tmr.countdown += seconds
}

// Monotonic is the time base underlying default log timestamps. It is reset
// once, at process start, and should not be reset again.
var Monotonic = NewClock()

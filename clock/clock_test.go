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

package clock_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/test"
)

func TestReset(t *testing.T) {
	clk := clock.NewClock()
	clk.Reset()

	// immediately after a reset the reading is non-negative and very small
	e := clk.Elapsed()
	test.Equate(t, e >= 0, true)
	test.Equate(t, e < 0.05, true)
}

func TestElapsed(t *testing.T) {
	clk := clock.NewClock()
	time.Sleep(10 * time.Millisecond)
	test.Equate(t, clk.Elapsed() >= 0.01, true)

	clk.Reset()
	test.Equate(t, clk.Elapsed() < 0.01, true)
}

func TestResetTo(t *testing.T) {
	clk := clock.NewClock()
	clk.ResetTo(10.0)
	test.EquateNear(t, clk.Elapsed(), 10.0, 0.05)
}

func TestRebase(t *testing.T) {
	a := clock.NewClock()
	time.Sleep(10 * time.Millisecond)
	b := clock.NewClock()

	// a timestamp taken against clock a reads as a larger value than the
	// same moment measured against the younger clock b
	ts := a.Elapsed()
	test.Equate(t, a.Rebase(ts, b) < ts, true)
}

func TestCountdown(t *testing.T) {
	tmr := clock.NewCountdownTimer(0.005)
	test.Equate(t, tmr.Remaining() > 0, true)

	time.Sleep(10 * time.Millisecond)
	test.Equate(t, tmr.Remaining() < 0, true)

	tmr.Add(10.0)
	test.Equate(t, tmr.Remaining() > 0, true)
}

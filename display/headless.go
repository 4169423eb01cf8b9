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

package display

import (
	"sync/atomic"
	"time"
)

// Headless is a Window with no display attached. Swap() paces the frame
// loop with a ticker standing in for the display refresh; a rate of zero
// runs uncapped, which is what performance measurement wants.
type Headless struct {
	width  int
	height int

	limiter *time.Ticker

	renderers []Renderer

	// set asynchronously with ScheduleQuit()
	quit atomic.Bool
}

// NewHeadless is the preferred method of initialisation for the Headless
// type. refreshRate is in frames per second; zero means unlimited.
func NewHeadless(width int, height int, refreshRate float64) *Headless {
	scr := &Headless{
		width:  width,
		height: height,
	}
	if refreshRate > 0 {
		scr.limiter = time.NewTicker(time.Duration(float64(time.Second) / refreshRate))
	}
	return scr
}

// PumpEvents implements the Window interface. There is no host input; the
// only event source is ScheduleQuit().
func (scr *Headless) PumpEvents() bool {
	return scr.quit.Load()
}

// Render implements the Window interface.
func (scr *Headless) Render() error {
	for _, r := range scr.renderers {
		if err := r.Render(); err != nil {
			return err
		}
	}
	return nil
}

// Swap implements the Window interface.
func (scr *Headless) Swap() error {
	if scr.limiter != nil {
		<-scr.limiter.C
	}
	return nil
}

// Size implements the Window interface.
func (scr *Headless) Size() (int, int) {
	return scr.width, scr.height
}

// AddRenderer implements the Window interface.
func (scr *Headless) AddRenderer(r Renderer) {
	scr.renderers = append(scr.renderers, r)
}

// End implements the Window interface.
func (scr *Headless) End() error {
	if scr.limiter != nil {
		scr.limiter.Stop()
	}
	return nil
}

// ScheduleQuit requests that the next PumpEvents() reports a quit. Safe to
// call from any goroutine.
func (scr *Headless) ScheduleQuit() {
	scr.quit.Store(true)
}

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

package event

import (
	"math"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/curated"
)

// NumMouseButtons is the number of mouse buttons tracked: left, middle,
// right.
const NumMouseButtons = 3

// mouse button indices.
const (
	MouseLeft = iota
	MouseMiddle
	MouseRight
)

// mouseState is the continuously updated mouse record inside a Buffer.
type mouseState struct {
	// position in window coordinates (origin top-left, y down)
	x, y float64

	// movement accumulated since the last RelativePos() read
	relX, relY float64

	// position at the last Moved() reset
	movedX, movedY float64

	pressed [NumMouseButtons]bool

	// one clock per button, reset by ClickReset(). the elapsed reading at
	// the moment of a press is recorded in clickTimes
	clickClocks [NumMouseButtons]*clock.Clock
	clickTimes  [NumMouseButtons]float64

	// wheel delta accumulator, reset on each read
	wheel [2]float64
}

// PushMouseMotion updates the tracked mouse position. Called by the display
// layer.
func (buf *Buffer) PushMouseMotion(x float64, y float64) {
	buf.crit.Lock()
	defer buf.crit.Unlock()

	buf.mouse.relX += x - buf.mouse.x
	buf.mouse.relY += y - buf.mouse.y
	buf.mouse.x = x
	buf.mouse.y = y
}

// PushMouseButton records a button press or release. Called by the display
// layer. A press captures the elapsed time on that button's click clock,
// which is how response latency is measured: ClickReset() at stimulus
// onset, read PressTimes() at the press.
func (buf *Buffer) PushMouseButton(button int, down bool) {
	if button < 0 || button >= NumMouseButtons {
		return
	}

	buf.crit.Lock()
	defer buf.crit.Unlock()

	buf.mouse.pressed[button] = down
	if down {
		buf.mouse.clickTimes[button] = buf.mouse.clickClocks[button].Elapsed()
	}
}

// PushMouseWheel accumulates wheel movement. Called by the display layer.
func (buf *Buffer) PushMouseWheel(dx float64, dy float64) {
	buf.crit.Lock()
	defer buf.crit.Unlock()

	buf.mouse.wheel[0] += dx
	buf.mouse.wheel[1] += dy
}

// Surface provides the window dimensions needed for unit conversion of
// mouse positions.
type Surface interface {
	Size() (width int, height int)
}

// sentinel error for the Mouse type.
const UnsupportedUnits = "mouse: unsupported units (%s)"

// List of valid units for mouse position queries.
//
// UnitsPix is raw pixels with the origin at the window centre and y
// increasing upwards. UnitsNorm maps the window to -1.0 to 1.0 in both
// dimensions. UnitsHeight expresses both dimensions as a fraction of the
// window height.
const (
	UnitsPix    = "pix"
	UnitsNorm   = "norm"
	UnitsHeight = "height"
)

// Mouse exposes unit-converted queries over the mouse state in a Buffer.
type Mouse struct {
	buf     *Buffer
	surface Surface
	units   string
}

// NewMouse is the preferred method of initialisation for the Mouse type.
// Fails with the UnsupportedUnits pattern if units is not one of UnitsPix,
// UnitsNorm or UnitsHeight.
func NewMouse(buf *Buffer, surface Surface, units string) (*Mouse, error) {
	switch units {
	case UnitsPix, UnitsNorm, UnitsHeight:
	default:
		return nil, curated.Errorf(UnsupportedUnits, units)
	}

	return &Mouse{
		buf:     buf,
		surface: surface,
		units:   units,
	}, nil
}

// convert window coordinates to the mouse's units. origin moves to the
// window centre with y up.
func (m *Mouse) convert(x float64, y float64) (float64, float64) {
	w, h := m.surface.Size()
	px := x - float64(w)/2
	py := float64(h)/2 - y

	switch m.units {
	case UnitsNorm:
		return px / (float64(w) / 2), py / (float64(h) / 2)
	case UnitsHeight:
		return px / float64(h), py / float64(h)
	}
	return px, py
}

// Pos returns the current mouse position in the mouse's units.
func (m *Mouse) Pos() (float64, float64) {
	m.buf.crit.Lock()
	x, y := m.buf.mouse.x, m.buf.mouse.y
	m.buf.crit.Unlock()
	return m.convert(x, y)
}

// RelativePos returns the movement, in the mouse's units, since the last
// call to RelativePos.
func (m *Mouse) RelativePos() (float64, float64) {
	m.buf.crit.Lock()
	dx, dy := m.buf.mouse.relX, m.buf.mouse.relY
	m.buf.mouse.relX = 0
	m.buf.mouse.relY = 0
	w, h := m.buf.mouse.x, m.buf.mouse.y
	m.buf.crit.Unlock()

	// convert the deltas through the difference of two converted points so
	// that axis flips and scaling apply
	cx1, cy1 := m.convert(w, h)
	cx0, cy0 := m.convert(w-dx, h-dy)
	return cx1 - cx0, cy1 - cy0
}

// Moved returns true if the mouse has moved further than distance (in the
// mouse's units) from its position when Moved last returned true (or from
// the start of tracking). A distance of zero detects any movement at all.
func (m *Mouse) Moved(distance float64) bool {
	m.buf.crit.Lock()
	defer m.buf.crit.Unlock()

	dx := m.buf.mouse.x - m.buf.mouse.movedX
	dy := m.buf.mouse.y - m.buf.mouse.movedY

	cx1, cy1 := m.convert(m.buf.mouse.x, m.buf.mouse.y)
	cx0, cy0 := m.convert(m.buf.mouse.x-dx, m.buf.mouse.y-dy)

	if math.Hypot(cx1-cx0, cy1-cy0) > distance {
		m.buf.mouse.movedX = m.buf.mouse.x
		m.buf.mouse.movedY = m.buf.mouse.y
		return true
	}
	return false
}

// Pressed returns the current down/up state of each button.
func (m *Mouse) Pressed() [NumMouseButtons]bool {
	m.buf.crit.Lock()
	defer m.buf.crit.Unlock()
	return m.buf.mouse.pressed
}

// PressTimes returns, for each button, the reading of that button's click
// clock at its most recent press. Times are relative to the last
// ClickReset().
func (m *Mouse) PressTimes() [NumMouseButtons]float64 {
	m.buf.crit.Lock()
	defer m.buf.crit.Unlock()
	return m.buf.mouse.clickTimes
}

// ClickReset restarts the click clocks for the given buttons (all buttons
// if none specified). Call at stimulus onset; the next press records its
// latency relative to this point.
func (m *Mouse) ClickReset(buttons ...int) {
	m.buf.crit.Lock()
	defer m.buf.crit.Unlock()

	if len(buttons) == 0 {
		buttons = []int{MouseLeft, MouseMiddle, MouseRight}
	}
	for _, b := range buttons {
		if b >= 0 && b < NumMouseButtons {
			m.buf.mouse.clickClocks[b].Reset()
			m.buf.mouse.clickTimes[b] = 0
		}
	}
}

// WheelRel returns the wheel movement accumulated since the last call,
// resetting the accumulator.
func (m *Mouse) WheelRel() (float64, float64) {
	m.buf.crit.Lock()
	defer m.buf.crit.Unlock()

	dx, dy := m.buf.mouse.wheel[0], m.buf.mouse.wheel[1]
	m.buf.mouse.wheel = [2]float64{}
	return dx, dy
}

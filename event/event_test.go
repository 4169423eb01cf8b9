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

package event_test

import (
	"testing"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/test"
)

func TestGetKeysUnfiltered(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())

	buf.PushKey("a", "KeyA", 97)
	buf.PushKey("b", "KeyB", 98)

	keys := buf.GetKeys(event.GetKeysOptions{})
	test.Equate(t, len(keys), 2)
	test.Equate(t, keys[0].Name, "a")
	test.Equate(t, keys[1].Name, "b")

	// the unfiltered call drained the buffer
	keys = buf.GetKeys(event.GetKeysOptions{})
	test.Equate(t, len(keys), 0)
}

func TestGetKeysFilter(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())

	buf.PushKey("a", "KeyA", 97)
	buf.PushKey("b", "KeyB", 98)
	buf.PushKey("a", "KeyA", 97)

	// the filter only ever returns keys from the list
	keys := buf.GetKeys(event.GetKeysOptions{KeyList: []string{"a"}})
	test.Equate(t, len(keys), 2)
	for _, k := range keys {
		test.Equate(t, k.Name, "a")
	}

	// the unmatched key is retained for a later caller
	keys = buf.GetKeys(event.GetKeysOptions{KeyList: []string{"b"}})
	test.Equate(t, len(keys), 1)
	test.Equate(t, keys[0].Name, "b")
}

func TestGetKeysFirstMatchWins(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	buf.PushKey("a", "KeyA", 97)

	// two disjoint filters over one keydown: the event goes to at most one
	first := buf.GetKeys(event.GetKeysOptions{KeyList: []string{"a", "b"}})
	second := buf.GetKeys(event.GetKeysOptions{KeyList: []string{"a", "c"}})
	test.Equate(t, len(first), 1)
	test.Equate(t, len(second), 0)
}

func TestGetKeysMatchPriority(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())

	// numeric symbol match
	buf.PushKey("a", "KeyA", 97)
	keys := buf.GetKeys(event.GetKeysOptions{KeyList: []string{"97"}})
	test.Equate(t, len(keys), 1)

	// alias table: "enter" matches canonical "return"
	buf.PushKey("Return", "Enter", 13)
	keys = buf.GetKeys(event.GetKeysOptions{KeyList: []string{"enter"}})
	test.Equate(t, len(keys), 1)
	test.Equate(t, keys[0].Name, "return")

	// platform code string
	buf.PushKey("a", "KeyA", 97)
	keys = buf.GetKeys(event.GetKeysOptions{KeyList: []string{"KeyA"}})
	test.Equate(t, len(keys), 1)
}

func TestClearKeys(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())

	buf.PushKey("a", "KeyA", 97)
	buf.PushKey("b", "KeyB", 98)
	buf.ClearKeys()

	keys := buf.GetKeys(event.GetKeysOptions{})
	test.Equate(t, len(keys), 0)
}

func TestKeyTimestampRebase(t *testing.T) {
	bufClk := clock.NewClock()
	buf := event.NewBuffer(bufClk)

	buf.PushKey("a", "KeyA", 97)

	// a response clock reset after the buffer clock reads smaller values,
	// so the rebased timestamp must be smaller than the raw one
	respClk := clock.NewClock()
	raw := buf.GetKeys(event.GetKeysOptions{})
	test.Equate(t, len(raw), 1)

	buf.PushKey("a", "KeyA", 97)
	rebased := buf.GetKeys(event.GetKeysOptions{Clock: respClk})
	test.Equate(t, len(rebased), 1)
	test.Equate(t, rebased[0].Time <= raw[0].Time+1.0, true)
}

type stubSurface struct {
	w, h int
}

func (s stubSurface) Size() (int, int) {
	return s.w, s.h
}

func TestMouseUnits(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	surface := stubSurface{w: 800, h: 600}

	// top-left corner of an 800x600 window
	buf.PushMouseMotion(0, 0)

	m, err := event.NewMouse(buf, surface, event.UnitsPix)
	test.ExpectedSuccess(t, err)
	x, y := m.Pos()
	test.Equate(t, x, -400.0)
	test.Equate(t, y, 300.0)

	m, err = event.NewMouse(buf, surface, event.UnitsNorm)
	test.ExpectedSuccess(t, err)
	x, y = m.Pos()
	test.Equate(t, x, -1.0)
	test.Equate(t, y, 1.0)

	m, err = event.NewMouse(buf, surface, event.UnitsHeight)
	test.ExpectedSuccess(t, err)
	x, y = m.Pos()
	test.EquateNear(t, x, -400.0/600.0, 1e-9)
	test.EquateNear(t, y, 0.5, 1e-9)
}

func TestMouseUnsupportedUnits(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	_, err := event.NewMouse(buf, stubSurface{800, 600}, "furlongs")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, event.UnsupportedUnits), true)
}

func TestMouseClickTiming(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	m, err := event.NewMouse(buf, stubSurface{800, 600}, event.UnitsPix)
	test.ExpectedSuccess(t, err)

	// stimulus onset
	m.ClickReset()

	// response
	buf.PushMouseButton(event.MouseLeft, true)

	pressed := m.Pressed()
	test.Equate(t, pressed[event.MouseLeft], true)
	test.Equate(t, pressed[event.MouseRight], false)

	times := m.PressTimes()
	test.Equate(t, times[event.MouseLeft] >= 0, true)
	test.Equate(t, times[event.MouseLeft] < 0.05, true)
	test.Equate(t, times[event.MouseRight], 0.0)
}

func TestMouseWheel(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	m, err := event.NewMouse(buf, stubSurface{800, 600}, event.UnitsPix)
	test.ExpectedSuccess(t, err)

	buf.PushMouseWheel(0, 1)
	buf.PushMouseWheel(0, 2)

	// accumulator resets on read
	_, dy := m.WheelRel()
	test.Equate(t, dy, 3.0)
	_, dy = m.WheelRel()
	test.Equate(t, dy, 0.0)
}

func TestMouseMoved(t *testing.T) {
	buf := event.NewBuffer(clock.NewClock())
	m, err := event.NewMouse(buf, stubSurface{800, 600}, event.UnitsPix)
	test.ExpectedSuccess(t, err)

	test.Equate(t, m.Moved(0), false)

	buf.PushMouseMotion(10, 10)
	test.Equate(t, m.Moved(5), true)

	// the reference point resets when movement is detected
	test.Equate(t, m.Moved(5), false)
}

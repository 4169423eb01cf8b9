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

// Package event implements the input side of the experiment runtime: a
// chronological buffer of key presses and the continuously tracked state of
// the mouse.
//
// The display layer pushes raw events into a Buffer as they arrive from the
// host. Experiment tasks drain the buffer with GetKeys(), which supports
// filtered consumption: a call with a key filter removes only the matched
// entries, leaving the rest for later callers. Multiple independent
// listeners can therefore share one physical keystream without loss, with
// the caveat that a key consumed by an earlier, broader listener is gone for
// good.
//
// A Buffer is owned by the experiment session and passed explicitly to
// whatever needs it. There is no package-level buffer.
package event

import (
	"strconv"
	"sync"

	"github.com/jetsetilly/gopherpsych/clock"
)

// KeyEvent is one raw key-down, timestamped against the buffer's clock at
// the moment it arrived.
type KeyEvent struct {
	// canonical key name, from the alias table
	Name string

	// platform name for the physical key, as reported by the display layer
	Code string

	// numeric key symbol
	Sym int

	// seconds on the buffer's clock when the key went down
	Time float64
}

// KeyPress is a matched entry returned by GetKeys().
type KeyPress struct {
	Name string
	Time float64
}

// Buffer accumulates input events between frames. Growth is unbounded until
// a consumer drains it.
//
// Safe for concurrent use. The display layer's event pump and the frame loop
// are not guaranteed to run on the same goroutine.
type Buffer struct {
	crit sync.Mutex

	clk  *clock.Clock
	keys []KeyEvent

	mouse mouseState
}

// NewBuffer is the preferred method of initialisation for the Buffer type.
// Timestamps are measured against the supplied clock.
func NewBuffer(clk *clock.Clock) *Buffer {
	buf := &Buffer{clk: clk}
	for i := range buf.mouse.clickClocks {
		buf.mouse.clickClocks[i] = clock.NewClock()
	}
	return buf
}

// PushKey appends a key-down to the buffer. Always succeeds; never drops
// events. Called by the display layer, synchronously with the host's input
// callback, not with the frame loop.
func (buf *Buffer) PushKey(name string, code string, sym int) {
	buf.crit.Lock()
	defer buf.crit.Unlock()

	buf.keys = append(buf.keys, KeyEvent{
		Name: canonicalKeyName(name),
		Code: code,
		Sym:  sym,
		Time: buf.clk.Elapsed(),
	})
}

// GetKeysOptions controls a call to GetKeys().
type GetKeysOptions struct {
	// only keys matching an entry in KeyList are removed from the buffer
	// and returned. a nil KeyList accepts (and drains) everything.
	//
	// an entry matches a buffered key by, in priority order: numeric key
	// symbol, canonical name from the alias table, or platform code string.
	KeyList []string

	// if non-nil, returned timestamps are rebased so that they are relative
	// to this clock's last reset rather than the buffer clock's
	Clock *clock.Clock
}

// GetKeys scans the buffer front-to-back, removing and returning every entry
// accepted by the options. Unmatched entries are retained in their original
// order. The returned matches are in FIFO order.
func (buf *Buffer) GetKeys(opts GetKeysOptions) []KeyPress {
	buf.crit.Lock()
	defer buf.crit.Unlock()

	var matched []KeyPress

	if opts.KeyList == nil {
		for _, k := range buf.keys {
			matched = append(matched, KeyPress{Name: k.Name, Time: buf.rebase(k.Time, opts.Clock)})
		}
		buf.keys = buf.keys[:0]
		return matched
	}

	retained := buf.keys[:0]
	for _, k := range buf.keys {
		if keyMatch(k, opts.KeyList) {
			matched = append(matched, KeyPress{Name: k.Name, Time: buf.rebase(k.Time, opts.Clock)})
		} else {
			retained = append(retained, k)
		}
	}
	buf.keys = retained

	return matched
}

// ClearKeys empties the key buffer unconditionally.
func (buf *Buffer) ClearKeys() {
	buf.crit.Lock()
	defer buf.crit.Unlock()
	buf.keys = buf.keys[:0]
}

// ClearEvents empties every event buffer unconditionally.
func (buf *Buffer) ClearEvents() {
	buf.crit.Lock()
	defer buf.crit.Unlock()
	buf.keys = buf.keys[:0]
	buf.mouse.wheel = [2]float64{}
}

// rebase a timestamp from the buffer's clock onto another clock. callers
// must hold the critical section.
func (buf *Buffer) rebase(t float64, to *clock.Clock) float64 {
	if to == nil {
		return t
	}
	return buf.clk.Rebase(t, to)
}

// keyMatch tests a buffered key against a filter list. matching is by
// numeric symbol, canonical name, then platform code, in that order.
func keyMatch(k KeyEvent, keyList []string) bool {
	for _, want := range keyList {
		if n, err := strconv.Atoi(want); err == nil {
			if n == k.Sym {
				return true
			}
			continue
		}
		if canonicalKeyName(want) == k.Name {
			return true
		}
		if want == k.Code {
			return true
		}
	}
	return false
}

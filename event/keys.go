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
	"strings"
)

// the alias table maps the names reported by display layers, and the common
// alternative spellings found in experiment scripts, onto one canonical
// lower-case name per key. keys without an entry canonicalise to their
// lower-cased platform name.
var keyAliases = map[string]string{
	"enter":        "return",
	"\r":           "return",
	"\n":           "return",
	" ":            "space",
	"spacebar":     "space",
	"esc":          "escape",
	"del":          "delete",
	"ins":          "insert",
	"pgup":         "pageup",
	"page up":      "pageup",
	"pgdn":         "pagedown",
	"page down":    "pagedown",
	"arrowleft":    "left",
	"arrowright":   "right",
	"arrowup":      "up",
	"arrowdown":    "down",
	"left shift":   "lshift",
	"right shift":  "rshift",
	"left ctrl":    "lctrl",
	"right ctrl":   "rctrl",
	"left alt":     "lalt",
	"right alt":    "ralt",
	"caps lock":    "capslock",
	"num lock":     "numlock",
	"scroll lock":  "scrolllock",
	"print screen": "printscreen",
}

// KeyEscape is the canonical name of the key that cancels a running
// experiment.
const KeyEscape = "escape"

// canonicalKeyName folds a reported key name to its canonical form.
func canonicalKeyName(name string) string {
	n := strings.ToLower(name)
	if alias, ok := keyAliases[n]; ok {
		return alias
	}
	return n
}

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

package logger

import (
	"fmt"
	"sync"
)

// Level is the numeric severity of a log entry. Higher is more severe.
type Level int

// Predefined levels, in ascending severity. Data sits between Info and
// Warning so that a target can record experiment data events while
// suppressing general information.
const (
	Debug    Level = 10
	Info     Level = 20
	Exp      Level = 22
	Data     Level = 25
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50
)

// the bidirectional name table. guarded because AddLevel can be called from
// anywhere.
var levelTable = struct {
	crit    sync.Mutex
	names   map[Level]string
	numbers map[string]Level
}{
	names: map[Level]string{
		Debug:    "DEBUG",
		Info:     "INFO",
		Exp:      "EXP",
		Data:     "DATA",
		Warning:  "WARNING",
		Error:    "ERROR",
		Critical: "CRITICAL",
	},
	numbers: map[string]Level{
		"DEBUG":    Debug,
		"INFO":     Info,
		"EXP":      Exp,
		"DATA":     Data,
		"WARNING":  Warning,
		"ERROR":    Error,
		"CRITICAL": Critical,
	},
}

// LevelName returns the registered name for a level. Unregistered numbers
// render as "Level N".
func LevelName(lvl Level) string {
	levelTable.crit.Lock()
	defer levelTable.crit.Unlock()

	if name, ok := levelTable.names[lvl]; ok {
		return name
	}
	return fmt.Sprintf("Level %d", int(lvl))
}

// LevelNumber returns the level registered under a name. The second return
// value is false if the name is not registered.
func LevelNumber(name string) (Level, bool) {
	levelTable.crit.Lock()
	defer levelTable.crit.Unlock()

	lvl, ok := levelTable.numbers[name]
	return lvl, ok
}

// AddLevel registers a name/number pair in the level table, replacing any
// previous registration of either.
func AddLevel(name string, lvl Level) {
	levelTable.crit.Lock()
	defer levelTable.crit.Unlock()

	levelTable.names[lvl] = name
	levelTable.numbers[name] = lvl
}

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

package data

import (
	"sort"
)

// ExperimentHandler accumulates the ledger of everything an experiment
// session produced. Each trial contributes one row; a row is closed by a
// call to NextEntry. While a loop is running, its positional attributes and
// current condition columns are merged into every row that closes, so a
// single flat table describes arbitrarily nested loops.
type ExperimentHandler struct {
	name      string
	extraInfo map[string]interface{}

	loops           []Loop
	loopsUnfinished []Loop

	// column names in first-seen order. extra info columns are kept
	// separately and appended at save time.
	dataNames []string
	seenNames map[string]bool

	entries   []map[string]interface{}
	thisEntry map[string]interface{}
}

// NewExperimentHandler is the preferred method of initialisation for the
// ExperimentHandler type. The extraInfo values, such as participant and
// session identifiers, are repeated on every row of the ledger.
func NewExperimentHandler(name string, extraInfo map[string]interface{}) *ExperimentHandler {
	return &ExperimentHandler{
		name:      name,
		extraInfo: extraInfo,
		seenNames: make(map[string]bool),
		thisEntry: make(map[string]interface{}),
	}
}

// Name of the experiment.
func (exp *ExperimentHandler) Name() string {
	return exp.name
}

// AddExtraInfo adds a value to the extra info map after construction. Used
// when session details are only known once the participant has answered the
// startup dialog.
func (exp *ExperimentHandler) AddExtraInfo(name string, value interface{}) {
	if exp.extraInfo == nil {
		exp.extraInfo = make(map[string]interface{})
	}
	exp.extraInfo[name] = value
}

// AddLoop registers a loop with the experiment. The loop is considered
// unfinished until LoopEnded is called for it; while unfinished, its
// attributes are merged into every closing row.
func (exp *ExperimentHandler) AddLoop(loop Loop) {
	exp.loops = append(exp.loops, loop)
	exp.loopsUnfinished = append(exp.loopsUnfinished, loop)
	if la, ok := loop.(interface {
		setExperiment(*ExperimentHandler)
	}); ok {
		la.setExperiment(exp)
	}
}

// LoopEnded tells the experiment that a loop has run its course. The loop's
// attributes no longer appear in rows closed after this point.
func (exp *ExperimentHandler) LoopEnded(loop Loop) {
	for i, l := range exp.loopsUnfinished {
		if l == loop {
			exp.loopsUnfinished = append(exp.loopsUnfinished[:i], exp.loopsUnfinished[i+1:]...)
			return
		}
	}
}

// AddData records a value against the current, still-open row. Writing the
// same name twice in one trial keeps the later value.
func (exp *ExperimentHandler) AddData(name string, value interface{}) {
	exp.register(name)
	exp.thisEntry[name] = value
}

// NextEntry closes the current row. The attributes of every unfinished loop
// are merged into the row before it is committed, followed by the extra
// info values.
func (exp *ExperimentHandler) NextEntry() {
	for _, loop := range exp.loopsUnfinished {
		names, values := loop.Attributes()
		for i, n := range names {
			exp.register(n)
			exp.thisEntry[n] = values[i]
		}
	}
	for k, v := range exp.extraInfo {
		exp.thisEntry[k] = v
	}

	exp.entries = append(exp.entries, exp.thisEntry)
	exp.thisEntry = make(map[string]interface{})
}

// Entries returns the committed ledger rows. If data has been added since
// the last NextEntry, the partial row is included so nothing recorded before
// an interruption is lost.
func (exp *ExperimentHandler) Entries() []map[string]interface{} {
	entries := exp.entries
	if len(exp.thisEntry) > 0 {
		entries = append(entries, exp.thisEntry)
	}
	return entries
}

// Columns returns the column names of the ledger. Data and loop columns
// appear in first-seen order, followed by the extra info columns in sorted
// order.
func (exp *ExperimentHandler) Columns() []string {
	columns := make([]string, len(exp.dataNames))
	copy(columns, exp.dataNames)

	extra := make([]string, 0, len(exp.extraInfo))
	for k := range exp.extraInfo {
		if !exp.seenNames[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(columns, extra...)
}

func (exp *ExperimentHandler) register(name string) {
	if !exp.seenNames[name] {
		exp.seenNames[name] = true
		exp.dataNames = append(exp.dataNames, name)
	}
}

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

// Package data collects everything produced by an experiment session into a
// single ledger. Trials are driven by a TrialHandler, which walks a list of
// condition rows according to a selection policy. Every TrialHandler reports
// to an ExperimentHandler, which accumulates one ledger row per trial and
// writes the result to whichever destination the session asked for.
package data

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
)

// Error messages for conditions import.
const (
	ConditionsError    = "conditions: %v"
	UnsupportedFormat  = "conditions: unsupported format (%s)"
	MalformedRow       = "conditions: row %d has %d cells, header has %d"
	EmptyConditionFile = "conditions: no header row"
)

// Condition is one row of a conditions file. Column order is preserved from
// the file so that output files list columns in the order the experimenter
// wrote them.
type Condition struct {
	Columns []string
	Values  map[string]interface{}
}

// Value returns the named cell. The second return value is false if the
// column does not exist in this row.
func (c Condition) Value(name string) (interface{}, bool) {
	v, ok := c.Values[name]
	return v, ok
}

// ImportConditions reads a conditions file from disk. The format is decided
// by the file extension. Only CSV is currently handled; requests for XLSX and
// other spreadsheet formats are acknowledged with a distinct error rather
// than a misleading parse failure.
func ImportConditions(filename string) ([]Condition, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		f, err := os.Open(filename)
		if err != nil {
			return nil, curated.Errorf(ConditionsError, err)
		}
		defer f.Close()
		return ReadConditionsCSV(f)
	default:
		return nil, curated.Errorf(UnsupportedFormat, filepath.Ext(filename))
	}
}

// ReadConditionsCSV reads condition rows from CSV data. The first record is
// the header. Cells that parse as numbers are stored as float64; everything
// else is kept as a string.
func ReadConditionsCSV(r io.Reader) ([]Condition, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, curated.Errorf(ConditionsError, err)
	}
	if len(records) == 0 {
		return nil, curated.Errorf(EmptyConditionFile)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	conditions := make([]Condition, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, curated.Errorf(MalformedRow, i+1, len(rec), len(header))
		}
		c := Condition{
			Columns: header,
			Values:  make(map[string]interface{}, len(header)),
		}
		for j, cell := range rec {
			c.Values[header[j]] = parseCell(strings.TrimSpace(cell))
		}
		conditions = append(conditions, c)
	}

	return conditions, nil
}

func parseCell(cell string) interface{} {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

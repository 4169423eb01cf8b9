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
	"fmt"
	"os"
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/resources"
)

// Error messages from the save path.
const (
	SaveError          = "save: %v"
	UnknownDestination = "save: unknown destination (%s)"
	NoTransport        = "save: no transport for remote save"
)

// SaveTo enumerates the destinations experiment results can be written to.
type SaveTo int

// List of valid SaveTo values.
const (
	SaveToLocal SaveTo = iota
	SaveToServer
	SaveToOSF
	SaveToDatabase
)

func (d SaveTo) String() string {
	switch d {
	case SaveToLocal:
		return "local"
	case SaveToServer:
		return "server"
	case SaveToOSF:
		return "osf"
	case SaveToDatabase:
		return "database"
	}
	return "unknown"
}

// ParseSaveTo converts a destination name from a session descriptor into a
// SaveTo value. Unrecognised names are an error, raised before the
// experiment runs rather than after the data exists.
func ParseSaveTo(s string) (SaveTo, error) {
	switch strings.ToLower(s) {
	case "local", "":
		return SaveToLocal, nil
	case "server":
		return SaveToServer, nil
	case "osf":
		return SaveToOSF, nil
	case "database", "db":
		return SaveToDatabase, nil
	}
	return SaveToLocal, curated.Errorf(UnknownDestination, s)
}

// SaveConfig says where and how to write the ledger. Transport is required
// for the server and OSF destinations; Path names the output file for the
// local destination and the database file for the database destination.
type SaveConfig struct {
	To        SaveTo
	Path      string
	Transport resources.Transport
}

// WideText renders the ledger as delimited text, one row per closed entry.
// Cells with no value for a column are left blank.
func (exp *ExperimentHandler) WideText(delim string) string {
	columns := exp.Columns()

	s := strings.Builder{}
	s.WriteString(strings.Join(columns, delim))
	s.WriteString("\n")

	for _, entry := range exp.Entries() {
		for i, col := range columns {
			if i > 0 {
				s.WriteString(delim)
			}
			if v, ok := entry[col]; ok {
				s.WriteString(formatCell(v))
			}
		}
		s.WriteString("\n")
	}

	return s.String()
}

// Save writes the ledger to the configured destination.
func (exp *ExperimentHandler) Save(cfg SaveConfig) error {
	switch cfg.To {
	case SaveToLocal:
		path := cfg.Path
		if path == "" {
			path = fmt.Sprintf("%s.csv", exp.name)
		}
		err := os.WriteFile(path, []byte(exp.WideText(", ")), 0644)
		if err != nil {
			return curated.Errorf(SaveError, err)
		}
		return nil

	case SaveToServer, SaveToOSF:
		if cfg.Transport == nil {
			return curated.Errorf(NoTransport)
		}
		name := fmt.Sprintf("%s.csv", exp.name)
		err := cfg.Transport.Upload(resources.UploadResult, name, exp.WideText(", "))
		if err != nil {
			return curated.Errorf(SaveError, err)
		}
		return nil

	case SaveToDatabase:
		return exp.saveDatabase(cfg.Path)
	}

	return curated.Errorf(UnknownDestination, cfg.To)
}

func formatCell(v interface{}) string {
	switch t := v.(type) {
	case float64:
		// trim trailing zeros so integral values read naturally
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
	case string:
		return t
	}
	return fmt.Sprintf("%v", v)
}

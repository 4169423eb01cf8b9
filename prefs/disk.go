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

package prefs

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
)

// Error messages from the prefs disk file.
const (
	DiskError    = "prefs: %v"
	NotPrefsFile = "prefs: not a prefs file (%s)"
	DuplicateKey = "prefs: duplicate key (%s)"
	InvalidEntry = "prefs: invalid entry at line %d"
)

// the first line of every prefs file. files without it are rejected rather
// than misread.
const magic = "*gopherpsych_prefs"

// keys and values are separated by this sequence. values may contain spaces
// but not the separator itself.
const separator = " :: "

// Disk connects preference values to an entry in the prefs file.
type Disk struct {
	path    string
	entries map[string]pref

	// entries found in the file with no registered value. written back out
	// on save so that different parts of the application can share a file
	// without knowing about each other's keys
	orphans map[string]string
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file at path does not need to exist yet.
func NewDisk(path string) *Disk {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
		orphans: make(map[string]string),
	}
}

// Add a preference value under the given key.
func (dsk *Disk) Add(key string, p pref) error {
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DuplicateKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// Load the preference values from disk. Keys in the file with no registered
// value are kept on save, so different parts of the application can share a
// file without knowing about each other's keys. A missing file is not an
// error; all values keep their current settings.
func (dsk *Disk) Load() error {
	b, err := os.ReadFile(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return curated.Errorf(DiskError, err)
	}

	lines := strings.Split(string(b), "\n")
	if len(lines) == 0 || lines[0] != magic {
		return curated.Errorf(NotPrefsFile, dsk.path)
	}

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := strings.Cut(line, separator)
		if !ok {
			return curated.Errorf(InvalidEntry, i+2)
		}

		if p, ok := dsk.entries[key]; ok {
			if err := p.Set(value); err != nil {
				return curated.Errorf(DiskError, err)
			}
		} else {
			dsk.orphans[key] = value
		}
	}

	return nil
}

// Save the registered preference values to disk.
func (dsk *Disk) Save() error {
	keys := make([]string, 0, len(dsk.entries)+len(dsk.orphans))
	for key := range dsk.entries {
		keys = append(keys, key)
	}
	for key := range dsk.orphans {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(magic)
	s.WriteString("\n")
	for _, key := range keys {
		if p, ok := dsk.entries[key]; ok {
			s.WriteString(fmt.Sprintf("%s%s%v\n", key, separator, p))
		} else {
			s.WriteString(fmt.Sprintf("%s%s%s\n", key, separator, dsk.orphans[key]))
		}
	}

	if err := os.WriteFile(dsk.path, []byte(s.String()), 0600); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

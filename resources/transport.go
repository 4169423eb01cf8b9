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

package resources

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/jetsetilly/gopherpsych/curated"
)

// Data type tags for uploads through a Transport.
const (
	UploadResult = "RESULT"
	UploadLog    = "LOG"
)

// Transport moves resource bytes and experiment output between the runtime
// and wherever the experiment is hosted. Implementations: LocalTransport,
// ServerTransport, OSFTransport.
type Transport interface {
	// the names of every resource the host knows about
	List() ([]string, error)

	// the bytes of one named resource
	Fetch(name string) ([]byte, error)

	// send experiment output. dataType is UploadResult or UploadLog; name
	// distinguishes multiple uploads of the same type
	Upload(dataType string, name string, data string) error
}

// sentinel error for transport selection.
const UnsupportedTransport = "resources: unsupported transport (%s)"

// LocalTransport serves resources from a directory on disk and writes
// uploads alongside them. The transport of choice when running without a
// server.
type LocalTransport struct {
	// resources are read from, and uploads written to, this directory
	Dir string
}

// List implements the Transport interface. Names are the relative paths of
// every regular file under the directory, sorted.
func (trn LocalTransport) List() ([]string, error) {
	var names []string

	err := filepath.Walk(trn.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(trn.Dir, path)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, curated.Errorf("local transport: %v", err)
	}

	sort.Strings(names)
	return names, nil
}

// Fetch implements the Transport interface.
func (trn LocalTransport) Fetch(name string) ([]byte, error) {
	d, err := os.ReadFile(filepath.Join(trn.Dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, curated.Errorf("local transport: %v", err)
	}
	return d, nil
}

// Upload implements the Transport interface. The data is written to a file
// named after the upload in the transport directory.
func (trn LocalTransport) Upload(dataType string, name string, data string) error {
	err := os.WriteFile(filepath.Join(trn.Dir, filepath.FromSlash(name)), []byte(data), 0644)
	if err != nil {
		return curated.Errorf("local transport: %v", err)
	}
	return nil
}

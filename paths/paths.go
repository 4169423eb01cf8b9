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

// Package paths should be used whenever application files (preferences,
// saved results, profiles) are read or written. The functions herein make
// sure the correct directory for the host operating system is used.
package paths

import (
	"os"
	"path"
)

const configDir = ".gopherpsych"

// ResourcePath returns the path to the named application file, creating the
// containing directory if necessary. A configDir directory in the current
// working directory takes precedence over the per-user configuration
// directory; useful when working on the project itself.
func ResourcePath(subPth string, file string) (string, error) {
	base := configDir
	if _, err := os.Stat(base); err != nil {
		cnf, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		base = path.Join(cnf, configDir[1:])
	}

	pth := path.Join(base, subPth)
	if _, err := os.Stat(pth); err != nil {
		if err := os.MkdirAll(pth, 0700); err != nil {
			return "", err
		}
	}

	return path.Join(pth, file), nil
}

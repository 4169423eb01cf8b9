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

package modalflag_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherpsych/modalflag"
	"github.com/jetsetilly/gopherpsych/test"
)

func TestNoModes(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"exp.yaml"})

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, r, modalflag.ParseContinue)
	test.Equate(t, md.Mode(), "")
	test.Equate(t, md.GetArg(0), "exp.yaml")
}

func TestSubModeSelection(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"serve", "-port", "8080"})
	md.AddSubModes("run", "serve", "version")

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, r, modalflag.ParseContinue)
	test.Equate(t, md.Mode(), "SERVE")

	// the mode's own flags parse in the next layer
	md.NewMode()
	port := md.AddInt("port", 0, "listen port")
	r, err = md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, r, modalflag.ParseContinue)
	test.Equate(t, *port, 8080)
}

func TestDefaultSubMode(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"exp.yaml"})
	md.AddSubModes("run", "serve")

	_, err := md.Parse()
	test.ExpectedSuccess(t, err)

	// an argument matching no sub-mode falls to the default and survives
	// into the next layer
	test.Equate(t, md.Mode(), "RUN")
	md.NewMode()
	_, err = md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, md.GetArg(0), "exp.yaml")
}

func TestModePath(t *testing.T) {
	md := modalflag.Modes{Output: &strings.Builder{}}
	md.NewArgs([]string{"performance", "profile"})
	md.AddSubModes("run", "performance")

	_, err := md.Parse()
	test.ExpectedSuccess(t, err)

	md.NewMode()
	md.AddSubModes("fps", "profile")
	_, err = md.Parse()
	test.ExpectedSuccess(t, err)

	test.Equate(t, md.Path(), "PERFORMANCE/PROFILE")
}

func TestHelp(t *testing.T) {
	output := &strings.Builder{}
	md := modalflag.Modes{Output: output}
	md.NewArgs([]string{"-help"})
	md.AddSubModes("run", "serve")

	r, err := md.Parse()
	test.ExpectedSuccess(t, err)
	test.Equate(t, r, modalflag.ParseHelp)
	test.ExpectedSuccess(t, strings.Contains(output.String(), "available sub-modes: RUN, SERVE"))
}

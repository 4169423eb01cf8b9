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

package paths_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherpsych/paths"
	"github.com/jetsetilly/gopherpsych/test"
)

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("results", "orientation")
	test.ExpectedSuccess(t, strings.HasPrefix(fn, "results_orientation_"))

	// no experiment name means no separator either
	fn = paths.UniqueFilename("results", " ")
	test.ExpectedSuccess(t, strings.HasPrefix(fn, "results_"))
	test.Equate(t, strings.Count(fn, "_"), 2)
}

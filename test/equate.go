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

package test

import (
	"testing"
)

// Equate is used to test equality between one value and another. Values must
// be of the same (comparable) type.
func Equate[T comparable](t *testing.T, value T, expectedValue T) {
	t.Helper()
	if value != expectedValue {
		t.Errorf("equation of type %T failed ('%v' - wanted '%v')", value, value, expectedValue)
	}
}

// EquateNear is used to test that a float value is within tolerance of an
// expected value. Useful for time measurements where exact equality cannot
// be expected.
func EquateNear(t *testing.T, value float64, expectedValue float64, tolerance float64) {
	t.Helper()
	d := value - expectedValue
	if d < 0 {
		d = -d
	}
	if d > tolerance {
		t.Errorf("near-equation failed (%f - wanted %f +/- %f)", value, expectedValue, tolerance)
	}
}

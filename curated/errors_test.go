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

package curated_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/test"
)

const testSentinel = "test sentinel: %s"

func TestIs(t *testing.T) {
	e := curated.Errorf(testSentinel, "foo")
	test.Equate(t, curated.IsAny(e), true)
	test.Equate(t, curated.Is(e, testSentinel), true)
	test.Equate(t, curated.Is(e, "some other pattern"), false)

	// uncurated errors match nothing
	f := fmt.Errorf("plain error")
	test.Equate(t, curated.IsAny(f), false)
	test.Equate(t, curated.Is(f, testSentinel), false)
	test.Equate(t, curated.Is(nil, testSentinel), false)
}

func TestHas(t *testing.T) {
	e := curated.Errorf(testSentinel, "foo")
	f := curated.Errorf("wrapped: %v", e)
	g := curated.Errorf("wrapped again: %v", f)

	// Is only matches the outermost pattern
	test.Equate(t, curated.Is(g, testSentinel), false)

	// Has matches anywhere in the chain
	test.Equate(t, curated.Has(g, testSentinel), true)
	test.Equate(t, curated.Has(g, "wrapped: %v"), true)
	test.Equate(t, curated.Has(g, "not in the chain"), false)
}

func TestNormalisation(t *testing.T) {
	// duplicate adjacent parts are removed from the message
	e := curated.Errorf("error: %v", curated.Errorf("error: %v", "inner"))
	test.Equate(t, e.Error(), "error: inner")

	// differing parts are retained
	f := curated.Errorf("outer: %v", curated.Errorf("inner: %v", "detail"))
	test.Equate(t, f.Error(), "outer: inner: detail")
}

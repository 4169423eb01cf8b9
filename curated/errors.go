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

// Package curated is a helper package for the plain Go language error type.
//
// Errors are created with the Errorf() function. Like fmt.Errorf() it takes a
// formatting pattern and placeholder values but, unlike fmt.Errorf(), the
// pattern is retained and can be tested for later with the Is() and Has()
// functions. The pattern is how an error is identified as it crosses
// abstraction layers; sentinel patterns should be stored as suitably named
// const strings.
//
// Wrapping one curated error in another builds a chain:
//
//	err := curated.Errorf("resources: %v", curated.Errorf(UnknownResource, name))
//
// Is() tests the outermost pattern only. Has() walks the whole chain. The
// Error() function normalises the message so that duplicate adjacent parts of
// the chain are not repeated, meaning callers can wrap freely at every level
// without worrying about stuttering output.
package curated

import (
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface.
type curated struct {
	pattern string
	values  []interface{}
}

// Errorf creates a new curated error. The pattern argument serves the same
// purpose as the format argument in fmt.Errorf() but is also kept as the
// identity of the error for use with the Is() and Has() functions.
func Errorf(pattern string, values ...interface{}) error {
	// formatting is deferred until Error() is called. only the pattern and
	// the raw values are stored
	return curated{
		pattern: pattern,
		values:  values,
	}
}

// Error returns the normalised error message. Normalisation is the removal of
// duplicate adjacent parts in the error chain. Parts are the sub-strings
// separated by ": ".
//
// Implements the go language error interface.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// Unwrap returns the first curated error found in the values used to create
// this error, or nil if there is none. Implements the anonymous unwrap
// interface used by the errors package in the standard library.
func (er curated) Unwrap() error {
	for _, v := range er.values {
		if e, ok := v.(curated); ok {
			return e
		}
	}
	return nil
}

// IsAny checks if an error is a curated error of any pattern.
func IsAny(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(curated)
	return ok
}

// Is checks if an error is a curated error with the specified pattern. Only
// the outermost error in a chain is tested; use Has() to test the entire
// chain.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}

	if er, ok := err.(curated); ok {
		return er.pattern == pattern
	}

	return false
}

// Has checks if the specified pattern appears anywhere in the error chain.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}

	er, ok := err.(curated)
	if !ok {
		return false
	}

	if er.pattern == pattern {
		return true
	}

	for _, v := range er.values {
		if e, ok := v.(curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}

	return false
}

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

package performance

import (
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/paths"
)

// UnknownProfile is the error returned when a profile name is not
// recognised.
const UnknownProfile = "performance: unknown profile (%s)"

// Profile says which profiles RunProfiler() should generate.
type Profile int

// List of valid Profile values.
const (
	ProfileNone Profile = iota
	ProfileCPU
	ProfileMem
	ProfileAll
)

// ParseProfile converts a command line profile argument into a Profile
// value.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return ProfileNone, nil
	case "cpu":
		return ProfileCPU, nil
	case "mem":
		return ProfileMem, nil
	case "all":
		return ProfileAll, nil
	}
	return ProfileNone, curated.Errorf(UnknownProfile, s)
}

// RunProfiler runs the run() function with the requested profiles attached.
// Profile files are written to the profiling directory under the
// application's configuration path, named after the tag.
func RunProfiler(profile Profile, tag string, run func() error) error {
	if profile == ProfileCPU || profile == ProfileAll {
		fn, err := paths.ResourcePath("profiling", tag+"_cpu.profile")
		if err != nil {
			return curated.Errorf(CheckError, err)
		}

		f, err := os.Create(fn)
		if err != nil {
			return curated.Errorf(CheckError, err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return curated.Errorf(CheckError, err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := run(); err != nil {
		return err
	}

	if profile == ProfileMem || profile == ProfileAll {
		fn, err := paths.ResourcePath("profiling", tag+"_mem.profile")
		if err != nil {
			return curated.Errorf(CheckError, err)
		}

		f, err := os.Create(fn)
		if err != nil {
			return curated.Errorf(CheckError, err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return curated.Errorf(CheckError, err)
		}
	}

	return nil
}

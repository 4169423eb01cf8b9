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

// Package performance measures how fast the runtime can turn the frame loop.
// A synthetic experiment is run against a headless window for a fixed
// duration and the achieved frame rate reported. Optionally the run is
// profiled.
//
// The numbers are most useful in comparison: run before and after a change
// to the scheduler or event plumbing and compare.
package performance

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/data"
	"github.com/jetsetilly/gopherpsych/display"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/experiment"
	"github.com/jetsetilly/gopherpsych/logger"
	"github.com/jetsetilly/gopherpsych/schedule"
)

// CheckError is the error pattern for performance check failures.
const CheckError = "performance: %v"

// number of condition rows in the synthetic experiment. enough that row
// selection and ledger work is realistic, small enough not to dominate.
const numSyntheticRows = 16

// Check turns the frame loop for the given duration and reports the achieved
// frame rate. refreshRate caps the frame rate as a real display would; zero
// runs uncapped, which is the useful setting for measurement.
// framesPerTrial sets how many frames each synthetic trial lasts.
func Check(output io.Writer, profile Profile, duration string, refreshRate float64, framesPerTrial int) error {
	dur, err := time.ParseDuration(duration)
	if err != nil {
		return curated.Errorf(CheckError, err)
	}
	if framesPerTrial < 1 {
		framesPerTrial = 1
	}

	dir, err := os.MkdirTemp("", "gopherpsych_performance")
	if err != nil {
		return curated.Errorf(CheckError, err)
	}
	defer os.RemoveAll(dir)

	s := strings.Builder{}
	s.WriteString("row\n")
	for i := 0; i < numSyntheticRows; i++ {
		s.WriteString(fmt.Sprintf("%d\n", i))
	}
	err = os.WriteFile(filepath.Join(dir, "conditions.csv"), []byte(s.String()), 0644)
	if err != nil {
		return curated.Errorf(CheckError, err)
	}

	desc := experiment.Descriptor{
		Name:        "performance",
		SaveTo:      "local",
		Output:      filepath.Join(dir, "out.csv"),
		ResourceDir: dir,
		Loops: []experiment.LoopDescriptor{{
			Name:       "perf",
			Conditions: "conditions.csv",
			// more repeats than any measurement period can exhaust
			NReps:  1 << 20,
			Method: "sequential",
		}},
	}

	win := display.NewHeadless(640, 480, refreshRate)
	buf := event.NewBuffer(clock.NewClock())
	log := logger.NewLog(nil)

	session, err := experiment.NewSession(desc, win, buf, log, experiment.Transport(desc))
	if err != nil {
		return curated.Errorf(CheckError, err)
	}

	frames := 0
	trial := func(s *experiment.Session, trials *data.TrialHandler) (schedule.Code, error) {
		frames++
		if frames%framesPerTrial == 0 {
			trials.AddData("frame", frames)
			return schedule.Next, nil
		}
		return schedule.FlipRepeat, nil
	}

	timer := time.AfterFunc(dur, win.ScheduleQuit)
	defer timer.Stop()

	runner := func() error {
		return session.Start(experiment.AcceptDefaults{}, trial)
	}

	if err := RunProfiler(profile, "performance", runner); err != nil {
		return curated.Errorf(CheckError, err)
	}

	fps := float64(session.Root.Frame()) / dur.Seconds()
	fmt.Fprintf(output, "%.2f fps (%d frames, %d trials in %.2f seconds)\n",
		fps, session.Root.Frame(), len(session.Experiment.Entries()), dur.Seconds())

	return nil
}

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

package data

import (
	"fmt"

	"github.com/jetsetilly/gopherpsych/curated"
)

// NoStepSizes is the error returned when a staircase is built without any
// step sizes.
const NoStepSizes = "staircase: no step sizes"

// StaircaseSpec collects the construction arguments for a Staircase.
type StaircaseSpec struct {
	Name      string
	StartVal  float64
	StepSizes []float64

	// how many consecutive incorrect responses raise the intensity, and how
	// many consecutive correct responses lower it. defaults are 1 up, 3
	// down, which converges on the 79% correct threshold.
	NUp   int
	NDown int

	NTrials int

	// optional bounds on the intensity. nil means unbounded.
	MinVal *float64
	MaxVal *float64
}

// Staircase is an adaptive trial sequence. Instead of walking condition
// rows, it adjusts a single intensity value up and down in response to the
// participant's performance. Each direction reversal advances to the next
// step size, so the staircase homes in on a threshold with progressively
// finer steps.
type Staircase struct {
	name      string
	intensity float64
	stepSizes []float64
	stepIndex int
	nUp       int
	nDown     int
	nTrials   int
	minVal    *float64
	maxVal    *float64

	exp *ExperimentHandler

	thisN         int
	correctRun    int
	incorrectRun  int
	lastDirection int
	reversals     []float64
	started       bool
	finished      bool
}

// NewStaircase is the preferred method of initialisation for the Staircase
// type.
func NewStaircase(spec StaircaseSpec) (*Staircase, error) {
	if len(spec.StepSizes) == 0 {
		return nil, curated.Errorf(NoStepSizes)
	}
	if spec.Name == "" {
		spec.Name = "staircase"
	}
	if spec.NUp < 1 {
		spec.NUp = 1
	}
	if spec.NDown < 1 {
		spec.NDown = 3
	}
	if spec.NTrials < 1 {
		spec.NTrials = 1
	}

	return &Staircase{
		name:      spec.Name,
		intensity: spec.StartVal,
		stepSizes: spec.StepSizes,
		nUp:       spec.NUp,
		nDown:     spec.NDown,
		nTrials:   spec.NTrials,
		minVal:    spec.MinVal,
		maxVal:    spec.MaxVal,
		thisN:     -1,
	}, nil
}

// Name implements the Loop interface.
func (stair *Staircase) Name() string {
	return stair.name
}

// Finished implements the Loop interface.
func (stair *Staircase) Finished() bool {
	return stair.finished
}

// Next advances to the next trial and returns the intensity to present. The
// second return value is false once the requested number of trials has run.
func (stair *Staircase) Next() (float64, bool) {
	if stair.finished {
		return 0, false
	}
	if stair.thisN+1 >= stair.nTrials {
		stair.finished = true
		if stair.exp != nil {
			stair.exp.LoopEnded(stair)
		}
		return 0, false
	}

	stair.started = true
	stair.thisN++
	return stair.intensity, true
}

// AddResponse records whether the participant was correct on the current
// trial and adjusts the intensity according to the up/down rule. The
// response is also written to the experiment ledger.
func (stair *Staircase) AddResponse(correct bool) {
	if stair.exp != nil {
		stair.exp.AddData(fmt.Sprintf("%s.response", stair.name), correct)
	}

	if correct {
		stair.correctRun++
		stair.incorrectRun = 0
		if stair.correctRun >= stair.nDown {
			stair.step(-1)
			stair.correctRun = 0
		}
	} else {
		stair.incorrectRun++
		stair.correctRun = 0
		if stair.incorrectRun >= stair.nUp {
			stair.step(1)
			stair.incorrectRun = 0
		}
	}
}

// Reversals returns the intensities at which the staircase changed
// direction. The average of the last few reversals is the usual threshold
// estimate.
func (stair *Staircase) Reversals() []float64 {
	return stair.reversals
}

// Attributes implements the Loop interface.
func (stair *Staircase) Attributes() ([]string, []interface{}) {
	return []string{
			fmt.Sprintf("%s.thisN", stair.name),
			fmt.Sprintf("%s.intensity", stair.name),
			fmt.Sprintf("%s.stepSize", stair.name),
		}, []interface{}{
			stair.thisN,
			stair.intensity,
			stair.stepSizes[stair.stepIndex],
		}
}

func (stair *Staircase) step(direction int) {
	if stair.lastDirection != 0 && direction != stair.lastDirection {
		stair.reversals = append(stair.reversals, stair.intensity)
		if stair.stepIndex < len(stair.stepSizes)-1 {
			stair.stepIndex++
		}
	}
	stair.lastDirection = direction

	stair.intensity += float64(direction) * stair.stepSizes[stair.stepIndex]
	if stair.minVal != nil && stair.intensity < *stair.minVal {
		stair.intensity = *stair.minVal
	}
	if stair.maxVal != nil && stair.intensity > *stair.maxVal {
		stair.intensity = *stair.maxVal
	}
}

func (stair *Staircase) setExperiment(exp *ExperimentHandler) {
	stair.exp = exp
}

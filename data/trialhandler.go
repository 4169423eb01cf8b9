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
	"math/rand"

	"github.com/jetsetilly/gopherpsych/curated"
)

// Error messages from TrialHandler construction and iteration.
const (
	TrialHandlerError = "trials: %v"
	NoConditions      = "trials: no condition rows"
	LoopExhausted     = "trials: %s is finished"
)

// Loop is any trial sequence that reports to an ExperimentHandler. While a
// loop is running its positional attributes are merged into every ledger row
// the experiment closes.
type Loop interface {
	Name() string
	Finished() bool

	// Attributes returns the names and values that describe the loop's
	// current position. Names are returned in a stable order.
	Attributes() ([]string, []interface{})
}

// TrialHandlerSpec collects the construction arguments for a TrialHandler.
type TrialHandlerSpec struct {
	Name       string
	Conditions []Condition
	NReps      int

	// Method selects the row selection policy by name. Ignored if Policy is
	// non-nil.
	Method string
	Policy Policy

	// Seed for the policy's random source. A zero seed is honoured as a seed
	// like any other, so two handlers built with the default spec walk the
	// same shuffled sequence.
	Seed int64
}

// TrialHandler walks a list of condition rows, presenting each row NReps
// times in the order decided by the selection policy. The handler keeps the
// usual positional counters so that analysis code can recover the position of
// every trial in the sequence.
type TrialHandler struct {
	name       string
	conditions []Condition
	nReps      int
	policy     Policy

	exp *ExperimentHandler

	// positional counters. All are -1 before the first call to Next.
	thisRepN   int
	thisTrialN int
	thisN      int
	thisIndex  int

	thisTrial Condition
	started   bool
	finished  bool
}

// NewTrialHandler is the preferred method of initialisation for the
// TrialHandler type.
func NewTrialHandler(spec TrialHandlerSpec) (*TrialHandler, error) {
	if len(spec.Conditions) == 0 {
		return nil, curated.Errorf(NoConditions)
	}
	if spec.NReps < 1 {
		spec.NReps = 1
	}
	if spec.Name == "" {
		spec.Name = "trials"
	}

	policy := spec.Policy
	if policy == nil {
		var err error
		rng := rand.New(rand.NewSource(spec.Seed))
		policy, err = NewPolicy(spec.Method, len(spec.Conditions), spec.NReps, rng)
		if err != nil {
			return nil, err
		}
	}

	return &TrialHandler{
		name:       spec.Name,
		conditions: spec.Conditions,
		nReps:      spec.NReps,
		policy:     policy,
		thisRepN:   -1,
		thisTrialN: -1,
		thisN:      -1,
		thisIndex:  -1,
	}, nil
}

// Name implements the Loop interface.
func (trials *TrialHandler) Name() string {
	return trials.name
}

// Finished implements the Loop interface.
func (trials *TrialHandler) Finished() bool {
	return trials.finished
}

// Total returns the number of trials the handler will present.
func (trials *TrialHandler) Total() int {
	return len(trials.conditions) * trials.nReps
}

// Next advances to the next trial and returns its condition row. When the
// sequence is exhausted the second return value is false, the handler is
// marked finished and the owning experiment is told the loop has ended.
func (trials *TrialHandler) Next() (Condition, bool) {
	if trials.finished {
		return Condition{}, false
	}

	idx, ok := trials.policy.NextIndex(trials.thisN + 1)
	if !ok {
		trials.finished = true
		if trials.exp != nil {
			trials.exp.LoopEnded(trials)
		}
		return Condition{}, false
	}

	trials.started = true
	trials.thisN++
	trials.thisTrialN = trials.thisN % len(trials.conditions)
	trials.thisRepN = trials.thisN / len(trials.conditions)
	trials.thisIndex = idx
	trials.thisTrial = trials.conditions[idx]

	return trials.thisTrial, true
}

// Current returns the condition row of the current trial. Valid only after a
// successful call to Next.
func (trials *TrialHandler) Current() Condition {
	return trials.thisTrial
}

// AddData records a measurement against the current trial. The value lands in
// the experiment ledger, not in the handler; a handler that has not been
// added to an experiment drops the value.
func (trials *TrialHandler) AddData(name string, value interface{}) {
	if trials.exp != nil {
		trials.exp.AddData(name, value)
	}
}

// Attributes implements the Loop interface. The positional counters are
// prefixed with the loop name; condition columns are reported under their
// plain column names.
func (trials *TrialHandler) Attributes() ([]string, []interface{}) {
	names := []string{
		fmt.Sprintf("%s.thisRepN", trials.name),
		fmt.Sprintf("%s.thisTrialN", trials.name),
		fmt.Sprintf("%s.thisN", trials.name),
		fmt.Sprintf("%s.thisIndex", trials.name),
	}
	values := []interface{}{
		trials.thisRepN,
		trials.thisTrialN,
		trials.thisN,
		trials.thisIndex,
	}

	if trials.started {
		for _, col := range trials.thisTrial.Columns {
			names = append(names, col)
			values = append(values, trials.thisTrial.Values[col])
		}
	}

	return names, values
}

func (trials *TrialHandler) setExperiment(exp *ExperimentHandler) {
	trials.exp = exp
}

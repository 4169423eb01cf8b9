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
	"math/rand"
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
)

// UnknownPolicy is the error returned when a selection method name is not
// recognised.
const UnknownPolicy = "data: unknown selection method (%s)"

// Policy decides which condition row is presented next. Implementations are
// stateful and belong to a single TrialHandler. NextIndex is called once per
// trial with the number of trials presented so far; it returns false when the
// sequence is exhausted.
type Policy interface {
	NextIndex(trialsSoFar int) (int, bool)
}

// NewPolicy returns the named policy. Valid names are "sequential", "random"
// and "fullRandom". Name matching is case insensitive.
func NewPolicy(method string, numRows int, numReps int, rng *rand.Rand) (Policy, error) {
	switch strings.ToLower(method) {
	case "sequential":
		return &sequential{numRows: numRows, numReps: numReps}, nil
	case "random":
		return &random{numRows: numRows, numReps: numReps, rng: rng}, nil
	case "fullrandom":
		return &fullRandom{numRows: numRows, numReps: numReps, rng: rng}, nil
	}
	return nil, curated.Errorf(UnknownPolicy, method)
}

// sequential presents rows in file order, once per repeat.
type sequential struct {
	numRows int
	numReps int
}

func (p *sequential) NextIndex(trialsSoFar int) (int, bool) {
	if trialsSoFar >= p.numRows*p.numReps {
		return 0, false
	}
	return trialsSoFar % p.numRows, true
}

// random presents every row once per repeat, in an order reshuffled for each
// repeat. Permutations are drawn lazily so that a handler that is abandoned
// early never consumes random numbers it did not need.
type random struct {
	numRows int
	numReps int
	rng     *rand.Rand
	perms   [][]int
}

func (p *random) NextIndex(trialsSoFar int) (int, bool) {
	if trialsSoFar >= p.numRows*p.numReps {
		return 0, false
	}
	rep := trialsSoFar / p.numRows
	for len(p.perms) <= rep {
		p.perms = append(p.perms, p.rng.Perm(p.numRows))
	}
	return p.perms[rep][trialsSoFar%p.numRows], true
}

// fullRandom shuffles all repeats of all rows together. A row can appear
// twice in succession but every row still appears exactly numReps times over
// the whole sequence.
type fullRandom struct {
	numRows int
	numReps int
	rng     *rand.Rand
	order   []int
}

func (p *fullRandom) NextIndex(trialsSoFar int) (int, bool) {
	if trialsSoFar >= p.numRows*p.numReps {
		return 0, false
	}
	if p.order == nil {
		p.order = make([]int, 0, p.numRows*p.numReps)
		for r := 0; r < p.numReps; r++ {
			for i := 0; i < p.numRows; i++ {
				p.order = append(p.order, i)
			}
		}
		p.rng.Shuffle(len(p.order), func(i, j int) {
			p.order[i], p.order[j] = p.order[j], p.order[i]
		})
	}
	return p.order[trialsSoFar], true
}

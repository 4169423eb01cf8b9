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

package data_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/data"
	"github.com/jetsetilly/gopherpsych/test"
)

func orientationConditions(t *testing.T) []data.Condition {
	t.Helper()
	conditions, err := data.ReadConditionsCSV(strings.NewReader("ori,label\n0,horizontal\n90,vertical\n"))
	test.ExpectedSuccess(t, err)
	return conditions
}

func TestReadConditionsCSV(t *testing.T) {
	conditions := orientationConditions(t)
	test.Equate(t, len(conditions), 2)

	test.Equate(t, len(conditions[0].Columns), 2)
	test.Equate(t, conditions[0].Columns[0], "ori")
	test.Equate(t, conditions[0].Columns[1], "label")

	// numeric cells parse as numbers, everything else stays a string
	v, ok := conditions[1].Value("ori")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, v.(float64), 90.0)
	v, ok = conditions[1].Value("label")
	test.ExpectedSuccess(t, ok)
	test.Equate(t, v.(string), "vertical")
}

func TestConditionsUnsupportedFormat(t *testing.T) {
	_, err := data.ImportConditions("conditions.xlsx")
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, data.UnsupportedFormat))
}

func TestConditionsMalformed(t *testing.T) {
	_, err := data.ReadConditionsCSV(strings.NewReader(""))
	test.ExpectedSuccess(t, curated.Is(err, data.EmptyConditionFile))
}

// two sequential trials with a participant id in the extra info. the closed
// ledger rows carry the response, the participant and the loop position.
func TestExperimentLedger(t *testing.T) {
	exp := data.NewExperimentHandler("ledger", map[string]interface{}{
		"participant": "P1",
	})

	trials, err := data.NewTrialHandler(data.TrialHandlerSpec{
		Name:       "trials",
		Conditions: orientationConditions(t),
		NReps:      1,
		Method:     "sequential",
	})
	test.ExpectedSuccess(t, err)
	exp.AddLoop(trials)

	for {
		_, ok := trials.Next()
		if !ok {
			break
		}
		trials.AddData("resp", "left")
		exp.NextEntry()
	}

	entries := exp.Entries()
	test.Equate(t, len(entries), 2)

	for i, e := range entries {
		test.Equate(t, e["resp"].(string), "left")
		test.Equate(t, e["participant"].(string), "P1")
		test.Equate(t, e["trials.thisRepN"].(int), 0)
		test.Equate(t, e["trials.thisN"].(int), i)
		test.Equate(t, e["trials.thisIndex"].(int), i)
	}

	// condition columns appear under their plain names
	test.Equate(t, entries[0]["ori"].(float64), 0.0)
	test.Equate(t, entries[1]["ori"].(float64), 90.0)
}

func TestAddDataLastWriteWins(t *testing.T) {
	exp := data.NewExperimentHandler("overwrite", nil)
	exp.AddData("resp", "left")
	exp.AddData("resp", "right")
	exp.NextEntry()

	entries := exp.Entries()
	test.Equate(t, len(entries), 1)
	test.Equate(t, entries[0]["resp"].(string), "right")
}

func TestPartialEntryRetained(t *testing.T) {
	exp := data.NewExperimentHandler("partial", nil)
	exp.AddData("resp", "left")
	exp.NextEntry()
	exp.AddData("rt", 0.5)

	// the open row is reported even though it was never closed
	entries := exp.Entries()
	test.Equate(t, len(entries), 2)
	test.Equate(t, entries[1]["rt"].(float64), 0.5)
}

func TestLoopEndedStopsMerging(t *testing.T) {
	exp := data.NewExperimentHandler("loopend", nil)

	trials, err := data.NewTrialHandler(data.TrialHandlerSpec{
		Conditions: orientationConditions(t),
		Method:     "sequential",
	})
	test.ExpectedSuccess(t, err)
	exp.AddLoop(trials)

	for {
		if _, ok := trials.Next(); !ok {
			break
		}
		exp.NextEntry()
	}

	// the loop has ended so rows closed from now on have no loop columns
	exp.AddData("note", "debrief")
	exp.NextEntry()

	entries := exp.Entries()
	test.Equate(t, len(entries), 3)
	_, ok := entries[2]["trials.thisN"]
	test.Equate(t, ok, false)
}

func TestRandomPolicyCoversEveryRow(t *testing.T) {
	trials, err := data.NewTrialHandler(data.TrialHandlerSpec{
		Conditions: orientationConditions(t),
		NReps:      3,
		Method:     "random",
		Seed:       1,
	})
	test.ExpectedSuccess(t, err)

	counts := make(map[string]int)
	for {
		c, ok := trials.Next()
		if !ok {
			break
		}
		counts[c.Values["label"].(string)]++
	}

	// every row appears exactly once per repeat
	test.Equate(t, counts["horizontal"], 3)
	test.Equate(t, counts["vertical"], 3)
	test.ExpectedSuccess(t, trials.Finished())
}

func TestFullRandomPolicyCoversEveryRow(t *testing.T) {
	trials, err := data.NewTrialHandler(data.TrialHandlerSpec{
		Conditions: orientationConditions(t),
		NReps:      4,
		Method:     "fullRandom",
		Seed:       7,
	})
	test.ExpectedSuccess(t, err)

	counts := make(map[string]int)
	for {
		c, ok := trials.Next()
		if !ok {
			break
		}
		counts[c.Values["label"].(string)]++
	}

	test.Equate(t, counts["horizontal"], 4)
	test.Equate(t, counts["vertical"], 4)
}

func TestSeededPoliciesRepeat(t *testing.T) {
	sequence := func() []int {
		trials, err := data.NewTrialHandler(data.TrialHandlerSpec{
			Conditions: orientationConditions(t),
			NReps:      5,
			Method:     "fullRandom",
			Seed:       99,
		})
		test.ExpectedSuccess(t, err)

		var s []int
		for {
			c, ok := trials.Next()
			if !ok {
				break
			}
			s = append(s, int(c.Values["ori"].(float64)))
		}
		return s
	}

	a := sequence()
	b := sequence()
	test.Equate(t, len(a), len(b))
	for i := range a {
		test.Equate(t, a[i], b[i])
	}
}

func TestUnknownPolicy(t *testing.T) {
	_, err := data.NewTrialHandler(data.TrialHandlerSpec{
		Conditions: orientationConditions(t),
		Method:     "interleaved",
	})
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, data.UnknownPolicy))
}

func TestWideText(t *testing.T) {
	exp := data.NewExperimentHandler("wide", map[string]interface{}{
		"participant": "P1",
	})
	exp.AddData("resp", "left")
	exp.AddData("rt", 0.25)
	exp.NextEntry()
	exp.AddData("resp", "right")
	exp.NextEntry()

	lines := strings.Split(strings.TrimRight(exp.WideText(", "), "\n"), "\n")
	test.Equate(t, len(lines), 3)
	test.Equate(t, lines[0], "resp, rt, participant")
	test.Equate(t, lines[1], "left, 0.25, P1")

	// the second trial never recorded a reaction time so the cell is blank
	test.Equate(t, lines[2], "right, , P1")
}

func TestParseSaveTo(t *testing.T) {
	d, err := data.ParseSaveTo("server")
	test.ExpectedSuccess(t, err)
	test.Equate(t, d, data.SaveToServer)

	_, err = data.ParseSaveTo("floppy")
	test.ExpectedFailure(t, err)
	test.ExpectedSuccess(t, curated.Is(err, data.UnknownDestination))
}

func TestStaircase(t *testing.T) {
	stair, err := data.NewStaircase(data.StaircaseSpec{
		Name:      "stair",
		StartVal:  0.8,
		StepSizes: []float64{0.4, 0.2},
		NUp:       1,
		NDown:     1,
		NTrials:   4,
	})
	test.ExpectedSuccess(t, err)

	// two correct responses walk the intensity down with the first step size
	v, ok := stair.Next()
	test.ExpectedSuccess(t, ok)
	test.EquateNear(t, v, 0.8, 1e-9)
	stair.AddResponse(true)

	v, _ = stair.Next()
	test.EquateNear(t, v, 0.4, 1e-9)
	stair.AddResponse(true)

	// an incorrect response reverses direction and advances the step size
	v, _ = stair.Next()
	test.EquateNear(t, v, 0.0, 1e-9)
	stair.AddResponse(false)

	v, _ = stair.Next()
	test.EquateNear(t, v, 0.2, 1e-9)
	stair.AddResponse(true)

	_, ok = stair.Next()
	test.Equate(t, ok, false)
	test.ExpectedSuccess(t, stair.Finished())
	test.Equate(t, len(stair.Reversals()), 2)
}

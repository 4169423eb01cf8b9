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

// Package experiment ties the runtime together. A Session owns the clock,
// the event buffer, the resource manager, the experiment ledger, the log and
// the window, and builds the scheduler flow that runs the experiment the
// descriptor describes.
//
// The trial itself, meaning whatever is drawn and measured on each frame of
// each trial, is supplied by the caller as a TrialFunc. The session decides
// when trials start and end; the TrialFunc decides what a trial is.
package experiment

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/data"
	"github.com/jetsetilly/gopherpsych/display"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/logger"
	"github.com/jetsetilly/gopherpsych/resources"
	"github.com/jetsetilly/gopherpsych/schedule"

	"github.com/bradleyjkemp/memviz"
)

// TrialFunc runs one frame of one trial. Returning FlipRepeat keeps the
// trial alive for another frame; Next or FlipNext ends the trial, at which
// point the session closes the ledger row and moves on. Quit ends the trial
// and the experiment, but the ledger is still saved. The condition row for
// the trial is in trials.Current().
type TrialFunc func(s *Session, trials *data.TrialHandler) (schedule.Code, error)

// Session is the context object for one run of an experiment. Everything a
// trial needs to reach is a field here; there is no package-level session
// state.
type Session struct {
	Descriptor Descriptor

	Clock      *clock.Clock
	Events     *event.Buffer
	Resources  *resources.Manager
	Experiment *data.ExperimentHandler
	Log        *logger.Log
	Window     display.Window
	Root       *schedule.Scheduler

	saveCfg       data.SaveConfig
	dialogOK      bool
	quitRequested bool
}

// NewSession is the preferred method of initialisation for the Session type.
// The save destination is validated here, before any trial has run, so that
// a misspelt destination cannot lose a completed session's data.
func NewSession(desc Descriptor, win display.Window, buf *event.Buffer,
	log *logger.Log, trn resources.Transport) (*Session, error) {

	saveTo, err := data.ParseSaveTo(desc.SaveTo)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Descriptor: desc,
		Clock:      clock.NewClock(),
		Events:     buf,
		Resources:  resources.NewManager(trn, buf),
		Experiment: data.NewExperimentHandler(desc.Name, desc.ExtraInfo),
		Log:        log,
		Window:     win,
		Root:       schedule.NewScheduler(),
		saveCfg: data.SaveConfig{
			To:        saveTo,
			Path:      desc.Output,
			Transport: trn,
		},
	}

	return s, nil
}

// Transport builds the resource transport the descriptor asks for. An
// experiment server wins over a local resource directory; an empty
// descriptor falls back to the current working directory.
func Transport(desc Descriptor) resources.Transport {
	if desc.ServerURL != "" {
		return resources.ServerTransport{
			URL:     desc.ServerURL,
			Session: desc.SessionKey,
		}
	}
	dir := desc.ResourceDir
	if dir == "" {
		dir = "."
	}
	return resources.LocalTransport{Dir: dir}
}

// Start builds the experiment flow and drives it until it finishes or is
// quit. The flow is: resource registration and download; the startup
// dialog; one sub-scheduler per descriptor loop; the save task. A cancelled
// dialog branches to an abort task instead of the loops, leaving nothing to
// save.
func (s *Session) Start(dialog Dialog, onTrial TrialFunc) error {
	sub := schedule.NewScheduler()
	if len(s.Descriptor.Resources) == 0 {
		s.Resources.ScheduleRegistration(sub)
	} else {
		// the descriptor names its resources explicitly. only those are
		// downloaded, whatever else the transport may be able to list
		for _, name := range s.Descriptor.Resources {
			s.Resources.RegisterResource(name)
		}
	}
	s.Resources.ScheduleDownload(sub)
	s.Root.Add(sub)

	s.Root.AddFunc(s.dialogTask(dialog))

	s.Root.AddBranch(func() bool { return s.dialogOK },
		s.flowScheduler(onTrial), s.abortScheduler())

	s.Clock.Reset()
	s.Log.Logf(logger.Exp, "session start: %s", s.Descriptor.Name)

	err := s.Root.Start(s.Window, func() error {
		return s.Log.Flush()
	})

	// anything still pending after the loop ends is flushed here. a final
	// flush error is reported only if the run itself succeeded
	if ferr := s.Log.Flush(); err == nil {
		err = ferr
	}

	return err
}

func (s *Session) flowScheduler(onTrial TrialFunc) *schedule.Scheduler {
	flow := schedule.NewScheduler()
	for _, ld := range s.Descriptor.Loops {
		flow.Add(s.loopScheduler(ld, onTrial))
	}
	flow.AddFunc(s.saveTask)
	return flow
}

// loopScheduler runs one descriptor loop. The trial handler cannot be built
// until the conditions resource has resolved, so construction is itself a
// scheduled task rather than happening up front.
func (s *Session) loopScheduler(ld LoopDescriptor, onTrial TrialFunc) *schedule.Scheduler {
	sub := schedule.NewScheduler()

	var trials *data.TrialHandler

	sub.AddFunc(func() (schedule.Code, error) {
		if s.quitRequested {
			return schedule.Quit, nil
		}

		conditions, err := s.conditions(ld.Conditions)
		if err != nil {
			return schedule.Quit, err
		}

		trials, err = data.NewTrialHandler(data.TrialHandlerSpec{
			Name:       ld.Name,
			Conditions: conditions,
			NReps:      ld.NReps,
			Method:     ld.Method,
			Seed:       ld.Seed,
		})
		if err != nil {
			return schedule.Quit, err
		}

		s.Experiment.AddLoop(trials)
		s.Log.Logf(logger.Exp, "loop start: %s (%d trials)", trials.Name(), trials.Total())
		return schedule.Next, nil
	})

	inTrial := false
	sub.AddFunc(func() (schedule.Code, error) {
		if !inTrial {
			if _, ok := trials.Next(); !ok {
				s.Log.Logf(logger.Exp, "loop end: %s", ld.Name)
				return schedule.Quit, nil
			}
			inTrial = true
		}

		code, err := onTrial(s, trials)
		if err != nil {
			return schedule.Quit, err
		}
		if code == schedule.FlipRepeat {
			return schedule.FlipRepeat, nil
		}

		// trial over. close the ledger row and come back for the next
		// trial after the frame has been drawn
		inTrial = false
		s.Experiment.NextEntry()

		if code == schedule.Quit {
			// remaining loops are skipped but the save task still runs,
			// so everything recorded up to the quit survives
			s.quitRequested = true
			s.Log.Exp(schedule.UserQuit)
			return schedule.Quit, nil
		}
		return schedule.FlipRepeat, nil
	})

	return sub
}

// dialogTask runs the startup dialog without stalling the frame loop. The
// dialog may block on the experimenter for as long as it likes; Collect()
// runs in its own goroutine while the task returns FlipRepeat, so the
// window keeps pumping events and drawing frames until an answer arrives.
func (s *Session) dialogTask(dialog Dialog) schedule.TaskFunc {
	type answer struct {
		info map[string]interface{}
		ok   bool
	}

	var done chan answer

	return func() (schedule.Code, error) {
		if done == nil {
			done = make(chan answer, 1)
			go func() {
				info, ok := dialog.Collect(s.Descriptor)
				done <- answer{info: info, ok: ok}
			}()
		}

		select {
		case a := <-done:
			if !a.ok {
				return schedule.Next, nil
			}
			for k, v := range a.info {
				s.Experiment.AddExtraInfo(k, v)
			}
			s.dialogOK = true
			return schedule.Next, nil

		default:
			return schedule.FlipRepeat, nil
		}
	}
}

func (s *Session) abortScheduler() *schedule.Scheduler {
	sub := schedule.NewScheduler()
	sub.AddFunc(func() (schedule.Code, error) {
		s.Log.Exp("session cancelled at dialog")
		return schedule.Quit, nil
	})
	return sub
}

// saveTask writes the ledger to the configured destination and uses the
// ledger's own text as the DATA log entry for the session.
func (s *Session) saveTask() (schedule.Code, error) {
	s.Log.LogObj(logger.Data, "results", s.Experiment.WideText(", "))

	if err := s.Experiment.Save(s.saveCfg); err != nil {
		return schedule.Quit, err
	}

	s.Log.Logf(logger.Exp, "session end: %s (%.2fs)", s.Descriptor.Name, s.Clock.Elapsed())
	return schedule.Next, nil
}

// conditions resolves a conditions resource into condition rows.
func (s *Session) conditions(name string) ([]data.Condition, error) {
	b, err := s.Resources.Get(name)
	if err != nil {
		return nil, err
	}
	return data.ReadConditionsCSV(bytes.NewReader(b))
}

// DumpFlow writes a graphviz visualisation of the experiment flow described
// by the session's descriptor. A debug aid, reached through the -flowdump
// command line option.
func (s *Session) DumpFlow(w io.Writer) {
	memviz.Map(w, &s.Descriptor)
	fmt.Fprintln(w)
}

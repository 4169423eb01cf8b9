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

// Package schedule implements the cooperative task runner that drives an
// experiment frame-by-frame. A Scheduler holds an ordered queue of tasks. A
// task is either a function or a nested Scheduler (a sub-scheduler).
//
// Tasks signal how the Scheduler should proceed by returning one of the Code
// values. Returning Next passes control to the following task with no frame
// in between. Returning FlipRepeat suspends the task until the next display
// frame, at which point the same task is run again. FlipRepeat is the only
// legal suspension point: a task must never block or spin-wait because that
// would stall the frame loop.
//
// The Start() function is the main loop of a running experiment. There is no
// other driver.
package schedule

import (
	"github.com/jetsetilly/gopherpsych/curated"
)

// UserQuit is the error pattern raised when the participant deliberately
// aborts the experiment (the Escape key). It is a cancellation signal, not a
// processing error: hosts should treat it as a clean stop.
const UserQuit = "user quit request"

// Code is the value a task returns to direct the Scheduler.
type Code int

// List of valid Code values.
const (
	// the task is done. run the next queued task without drawing a frame
	Next Code = iota

	// the task is not done. draw a frame and run the same task again
	FlipRepeat

	// the task is done but a frame should be drawn before the next task runs
	FlipNext

	// stop the scheduler. a nested scheduler returning Quit is treated as
	// Next by its parent, so only the outermost scheduler halts the frame
	// loop
	Quit
)

func (c Code) String() string {
	switch c {
	case Next:
		return "NEXT"
	case FlipRepeat:
		return "FLIP_REPEAT"
	case FlipNext:
		return "FLIP_NEXT"
	case Quit:
		return "QUIT"
	}
	return "unknown"
}

// TaskFunc is the function variant of a scheduled task.
type TaskFunc func() (Code, error)

// task is the tagged union of the two things that can be queued: a function
// or a sub-scheduler. exactly one field is non-nil.
type task struct {
	fn  TaskFunc
	sub *Scheduler
}

// Window is the rendering surface required by the Start() loop. The loop
// calls exactly these operations and nothing else into the rendering
// subsystem.
type Window interface {
	// process any pending input events. returns true if the host wants the
	// experiment to end (eg. the window has been closed)
	PumpEvents() bool

	// render the current scene
	Render() error

	// present the rendered scene, waiting for the display refresh
	Swap() error
}

// Scheduler is an ordered queue of tasks run cooperatively, at most one task
// at a time. Create one root Scheduler per experiment and additional
// sub-schedulers per loop or branch of the experiment flow.
type Scheduler struct {
	queue   []task
	current *task
	stopped bool
	frame   int
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Add appends a sub-scheduler to the queue. Does not interrupt a currently
// running task.
func (sch *Scheduler) Add(sub *Scheduler) {
	sch.queue = append(sch.queue, task{sub: sub})
}

// AddFunc appends a task function to the queue. Does not interrupt a
// currently running task.
func (sch *Scheduler) AddFunc(fn TaskFunc) {
	sch.queue = append(sch.queue, task{fn: fn})
}

// AddBranch appends a single-shot task that evaluates condition() once it is
// reached and enqueues whichever branch scheduler applies. Because the
// selection is deferred until the queue reaches that point, the condition
// can depend on state set by earlier tasks (a dialog button choice, for
// example).
func (sch *Scheduler) AddBranch(condition func() bool, thenSched *Scheduler, elseSched *Scheduler) {
	sch.AddFunc(func() (Code, error) {
		if condition() {
			if thenSched != nil {
				sch.Add(thenSched)
			}
		} else if elseSched != nil {
			sch.Add(elseSched)
		}
		return Next, nil
	})
}

// Stop causes the next call to Run() to return Quit without running any
// further tasks.
func (sch *Scheduler) Stop() {
	sch.stopped = true
}

// Frame returns the number of frames drawn since Start() was called. Only
// meaningful on the scheduler given to Start().
func (sch *Scheduler) Frame() int {
	return sch.frame
}

// Run executes queued tasks until one of them requires a frame to be drawn
// or the queue is exhausted. Tasks returning Next are completed in a single
// Run() invocation, in strict FIFO order. A task returning FlipRepeat stays
// current: the same task, and no other, is run on the following frame.
//
// Returns Quit when the queue is empty.
//
// An error from a task propagates immediately. The Scheduler makes no
// attempt at recovery; the error is expected to reach the host application's
// top-level handler.
func (sch *Scheduler) Run() (Code, error) {
	for {
		if sch.stopped {
			return Quit, nil
		}

		if sch.current == nil {
			if len(sch.queue) == 0 {
				return Quit, nil
			}
			sch.current = &sch.queue[0]
			sch.queue = sch.queue[1:]
		}

		var code Code
		var err error

		switch {
		case sch.current.fn != nil:
			code, err = sch.current.fn()

		case sch.current.sub != nil:
			code, err = sch.current.sub.Run()
			if code == Quit && err == nil {
				// a drained sub-scheduler is a resolved task, not a
				// request to halt
				code = Next
			}

		default:
			return Quit, curated.Errorf("schedule: empty task slot")
		}

		if err != nil {
			sch.current = nil
			return code, err
		}

		switch code {
		case Next:
			sch.current = nil
			// continue in the same invocation. no frame is drawn between
			// a task returning Next and its successor starting

		case FlipRepeat:
			// the task stays current. it will be re-run, with no other
			// task jumping ahead of it, on the next frame
			return FlipRepeat, nil

		case FlipNext:
			sch.current = nil
			return FlipNext, nil

		case Quit:
			sch.current = nil
			sch.queue = sch.queue[:0]
			return Quit, nil
		}
	}
}

// Start drives the scheduler once per display frame until it quits. Each
// frame: the frame counter is incremented, the onFrame hook is called (the
// session uses it to flush pending log writes), Run() executes tasks, and
// finally the window renders and presents the frame.
//
// Returns the first error raised by a task or by the window. If the window
// reports a quit request from the host the loop ends as if the scheduler
// had returned Quit.
func (sch *Scheduler) Start(win Window, onFrame func() error) error {
	for {
		sch.frame++

		if win.PumpEvents() {
			return nil
		}

		if onFrame != nil {
			if err := onFrame(); err != nil {
				return err
			}
		}

		code, err := sch.Run()
		if err != nil {
			return err
		}
		if code == Quit {
			return nil
		}

		if err := win.Render(); err != nil {
			return err
		}

		// Swap() waits for the display refresh. this is the pacing for the
		// whole loop
		if err := win.Swap(); err != nil {
			return err
		}
	}
}

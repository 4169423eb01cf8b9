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

package resources

import (
	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/schedule"
)

// waitTask wraps an asynchronous operation as a scheduler task. The first
// invocation starts the operation in a goroutine; every subsequent frame
// the task polls for completion and for the Escape key, returning
// FlipRepeat until one of them happens. The scheduler will not advance past
// the task until the operation has resolved, which is how a download
// appears blocking to the experiment flow without ever stalling a frame.
func (mgr *Manager) waitTask(run func() error) schedule.TaskFunc {
	var done chan error

	return func() (schedule.Code, error) {
		if done == nil {
			done = make(chan error, 1)

			mgr.crit.Lock()
			mgr.setStatus(Busy)
			mgr.crit.Unlock()

			go func() {
				done <- run()
			}()
		}

		// cancellation is polled on every retry frame. the goroutine is
		// abandoned, not awaited
		if mgr.escapePressed() {
			mgr.crit.Lock()
			mgr.setStatus(Ready)
			mgr.crit.Unlock()
			return schedule.Quit, curated.Errorf(schedule.UserQuit)
		}

		select {
		case err := <-done:
			mgr.crit.Lock()
			if err != nil {
				mgr.setStatus(Error)
			} else {
				mgr.setStatus(Ready)
			}
			mgr.crit.Unlock()

			if err != nil {
				return schedule.Next, curated.Errorf("resources: %v", err)
			}
			return schedule.Next, nil

		default:
			return schedule.FlipRepeat, nil
		}
	}
}

// escapePressed consumes a pending Escape key, leaving all other buffered
// keys for their listeners.
func (mgr *Manager) escapePressed() bool {
	if mgr.buf == nil {
		return false
	}
	keys := mgr.buf.GetKeys(event.GetKeysOptions{KeyList: []string{event.KeyEscape}})
	return len(keys) > 0
}

// ScheduleRegistration enqueues the query of the transport's resource list
// as a blocking task on the given scheduler.
func (mgr *Manager) ScheduleRegistration(sch *schedule.Scheduler) {
	sch.AddFunc(mgr.waitTask(mgr.RegisterAvailableResources))
}

// ScheduleDownload enqueues the resolution of every registered resource as
// a blocking task on the given scheduler. Schedule after registration; the
// scheduler's FIFO guarantee orders the two steps.
func (mgr *Manager) ScheduleDownload(sch *schedule.Scheduler) {
	sch.AddFunc(mgr.waitTask(mgr.downloadAll))
}

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

package resources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/gopherpsych/clock"
	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/event"
	"github.com/jetsetilly/gopherpsych/resources"
	"github.com/jetsetilly/gopherpsych/schedule"
	"github.com/jetsetilly/gopherpsych/test"
)

func newLocalDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "conditions.csv"), []byte("ori\n0\n90\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "face.png"), []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestGetUnknownResource(t *testing.T) {
	mgr := resources.NewManager(resources.LocalTransport{Dir: t.TempDir()}, nil)

	_, err := mgr.Get("missing.csv")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, resources.UnknownResource), true)
}

func TestGetUnresolvedResource(t *testing.T) {
	mgr := resources.NewManager(resources.LocalTransport{Dir: t.TempDir()}, nil)
	mgr.RegisterResource("pending.csv")

	_, err := mgr.Get("pending.csv")
	test.ExpectedFailure(t, err)
	test.Equate(t, curated.Is(err, resources.UnresolvedResource), true)
}

func TestLocalRoundTrip(t *testing.T) {
	dir := newLocalDir(t)
	mgr := resources.NewManager(resources.LocalTransport{Dir: dir}, nil)

	err := mgr.RegisterAvailableResources()
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(mgr.Names()), 2)

	// run the scheduled download by driving a scheduler until it quits
	sch := schedule.NewScheduler()
	mgr.ScheduleDownload(sch)

	for {
		code, err := sch.Run()
		test.ExpectedSuccess(t, err)
		if code == schedule.Quit {
			break
		}
	}

	test.Equate(t, mgr.Status(), resources.Ready)

	v, err := mgr.Get("conditions.csv")
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(v), "ori\n0\n90\n")
}

func TestWatcherEvents(t *testing.T) {
	dir := newLocalDir(t)
	mgr := resources.NewManager(resources.LocalTransport{Dir: dir}, nil)

	var events []resources.Event
	mgr.SetWatcher(func(ev resources.Event) {
		events = append(events, ev)
	})

	mgr.RegisterResource("conditions.csv")
	test.Equate(t, len(events), 1)
	test.Equate(t, events[0].Resource, "conditions.csv")

	// repeated registration announces nothing
	mgr.RegisterResource("conditions.csv")
	test.Equate(t, len(events), 1)
}

func TestDownloadFailure(t *testing.T) {
	// a registered resource with no file behind it fails the download and
	// leaves the manager in the terminal Error status
	mgr := resources.NewManager(resources.LocalTransport{Dir: t.TempDir()}, nil)
	mgr.RegisterResource("nonexistent.csv")

	sch := schedule.NewScheduler()
	mgr.ScheduleDownload(sch)

	var lastErr error
	for {
		code, err := sch.Run()
		if err != nil {
			lastErr = err
		}
		if code == schedule.Quit {
			break
		}
	}

	test.ExpectedFailure(t, lastErr)
	test.Equate(t, curated.Has(lastErr, resources.FetchError), true)
	test.Equate(t, mgr.Status(), resources.Error)
}

func TestEscapeCancelsWait(t *testing.T) {
	dir := newLocalDir(t)
	buf := event.NewBuffer(clock.NewClock())
	mgr := resources.NewManager(resources.LocalTransport{Dir: dir}, buf)
	mgr.RegisterResource("conditions.csv")

	// an unrelated key buffered before escape must survive the poll
	buf.PushKey("a", "KeyA", 97)
	buf.PushKey("Escape", "Escape", 27)

	sch := schedule.NewScheduler()
	mgr.ScheduleDownload(sch)

	// the escape is polled on the very first frame of the wait
	code, err := sch.Run()
	test.ExpectedFailure(t, err)
	test.Equate(t, code, schedule.Quit)
	test.Equate(t, curated.Is(err, schedule.UserQuit), true)

	keys := buf.GetKeys(event.GetKeysOptions{})
	test.Equate(t, len(keys), 1)
	test.Equate(t, keys[0].Name, "a")
}

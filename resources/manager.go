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

// Package resources registers and resolves the named assets an experiment
// declares: conditions files, images, anything the trials need. A resource
// is first registered (name known, bytes pending) and later resolved (bytes
// fetched through a Transport).
//
// Because the frame loop cannot block on network I/O, resolution is
// scheduled: ScheduleRegistration() and ScheduleDownload() enqueue tasks
// that run the asynchronous work in a goroutine and report FlipRepeat to
// the scheduler until it completes. From the scheduler's perspective the
// download is a blocking task; from the display's perspective frames keep
// flowing. The Escape key is polled on every retry frame and cancels the
// wait (the in-flight transfer is abandoned, not aborted).
package resources

import (
	"sync"

	"github.com/jetsetilly/gopherpsych/curated"
	"github.com/jetsetilly/gopherpsych/event"
)

// Sentinel errors for the resources package.
const (
	// a name that was never registered has been queried
	UnknownResource = "resources: unknown resource (%s)"

	// a registered name has been queried before its download completed
	UnresolvedResource = "resources: resource not yet resolved (%s)"

	FetchError = "resources: %v"
)

// Status of the manager as a whole.
type Status int

// List of valid Status values. Error is terminal: the manager does not
// auto-retry a failed transport step.
const (
	Ready Status = iota
	Busy
	Error
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "READY"
	case Busy:
		return "BUSY"
	case Error:
		return "ERROR"
	}
	return "unknown"
}

// Event describes a change announced to the manager's watcher: a resource
// registration, a resource resolution, or a status transition. Used to
// drive progress UI.
type Event struct {
	Status   Status
	Resource string
}

// resource is one named asset. value is nil until resolved.
type resource struct {
	name     string
	value    []byte
	resolved bool
}

// Manager tracks every declared resource and its resolution state. Owned by
// the experiment session.
type Manager struct {
	crit sync.Mutex

	transport Transport

	resources map[string]*resource
	order     []string

	status  Status
	watcher func(Event)

	// polled for the Escape key during scheduled waits. may be nil
	buf *event.Buffer
}

// NewManager is the preferred method of initialisation for the Manager
// type. The event buffer may be nil, in which case scheduled waits are not
// cancellable from the keyboard.
func NewManager(transport Transport, buf *event.Buffer) *Manager {
	return &Manager{
		transport: transport,
		resources: make(map[string]*resource),
		buf:       buf,
		status:    Ready,
	}
}

// SetWatcher registers the callback invoked on every registration,
// resolution and status transition.
func (mgr *Manager) SetWatcher(watcher func(Event)) {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()
	mgr.watcher = watcher
}

// callers must hold the critical section.
func (mgr *Manager) announce(name string) {
	if mgr.watcher != nil {
		mgr.watcher(Event{Status: mgr.status, Resource: name})
	}
}

// callers must hold the critical section.
func (mgr *Manager) setStatus(status Status) {
	if mgr.status != status {
		mgr.status = status
		mgr.announce("")
	}
}

// Status returns the manager's current status.
func (mgr *Manager) Status() Status {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()
	return mgr.status
}

// RegisterResource records a resource name with pending bytes. Registering
// a name twice is harmless.
func (mgr *Manager) RegisterResource(name string) {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()
	mgr.register(name)
}

// callers must hold the critical section.
func (mgr *Manager) register(name string) {
	if _, ok := mgr.resources[name]; ok {
		return
	}
	mgr.resources[name] = &resource{name: name}
	mgr.order = append(mgr.order, name)
	mgr.announce(name)
}

// Names returns every registered resource name in registration order.
func (mgr *Manager) Names() []string {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()

	c := make([]string, len(mgr.order))
	copy(c, mgr.order)
	return c
}

// Get returns the resolved bytes for a resource. Fails with the
// UnknownResource pattern if the name was never registered and with the
// UnresolvedResource pattern if the download has not completed.
func (mgr *Manager) Get(name string) ([]byte, error) {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()

	res, ok := mgr.resources[name]
	if !ok {
		return nil, curated.Errorf(UnknownResource, name)
	}
	if !res.resolved {
		return nil, curated.Errorf(UnresolvedResource, name)
	}
	return res.value, nil
}

// resolve stores fetched bytes against a registered name.
func (mgr *Manager) resolve(name string, value []byte) error {
	mgr.crit.Lock()
	defer mgr.crit.Unlock()

	res, ok := mgr.resources[name]
	if !ok {
		return curated.Errorf(UnknownResource, name)
	}
	res.value = value
	res.resolved = true
	mgr.announce(name)
	return nil
}

// RegisterAvailableResources queries the transport for the full resource
// list and registers every name. This is a network step: use
// ScheduleRegistration() from experiment code.
func (mgr *Manager) RegisterAvailableResources() error {
	names, err := mgr.transport.List()
	if err != nil {
		return curated.Errorf(FetchError, err)
	}

	mgr.crit.Lock()
	defer mgr.crit.Unlock()
	for _, n := range names {
		mgr.register(n)
	}
	return nil
}

// downloadAll fetches every registered, unresolved resource in
// registration order. A single transport failure halts the remainder.
func (mgr *Manager) downloadAll() error {
	for _, name := range mgr.Names() {
		mgr.crit.Lock()
		res := mgr.resources[name]
		done := res.resolved
		mgr.crit.Unlock()
		if done {
			continue
		}

		v, err := mgr.transport.Fetch(name)
		if err != nil {
			return curated.Errorf(FetchError, err)
		}
		if err := mgr.resolve(name, v); err != nil {
			return err
		}
	}
	return nil
}

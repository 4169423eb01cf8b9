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

// Package logger buffers leveled log entries and writes them to any number
// of targets on Flush(). Each target has its own threshold: a low-threshold
// console target and a high-threshold server target see the same entry
// stream but emit different subsets.
//
// Filtering is two-stage. Log() applies a cheap global reject: an entry
// below every target's threshold is never buffered at all. Flush() then
// applies the precise per-target reject. An entry buffered for one target's
// sake is retained in the shared queue even though other targets will never
// write it.
//
// The frame loop flushes the log once per frame so buffered writes never
// interleave with mid-frame task execution.
package logger

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jetsetilly/gopherpsych/clock"
)

// Entry is a single log record.
type Entry struct {
	// seconds on the log's clock at the time of the Log() call
	T float64

	// the same instant in integer milliseconds
	TMilli int64

	Level     Level
	LevelName string
	Message   string

	// optional repr of an associated object
	Obj string
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%.4f\t%s\t%s", e.T, e.LevelName, e.Message))
	if e.Obj != "" {
		s.WriteString(fmt.Sprintf("\t%s", e.Obj))
	}
	s.WriteString("\n")
	return s.String()
}

// Target is a pluggable log sink.
type Target interface {
	// entries below this threshold are never written to the target
	Threshold() Level

	// write one formatted entry
	Write(text string) error

	// conclude a batch of writes. targets that defer their output send it
	// here
	Flush() error
}

// Log buffers entries and distributes them to its targets on Flush(). Owned
// by the experiment session; independent instances can exist (in tests, for
// example) without interfering with one another.
type Log struct {
	crit sync.Mutex

	clk     *clock.Clock
	targets []Target

	toFlush []Entry
	flushed []Entry

	// the cheapest threshold across all targets. recomputed whenever the
	// target list changes. entries below this are dropped at Log() time
	lowest Level
}

// NewLog is the preferred method of initialisation for the Log type.
// Timestamps are measured against the supplied clock; a nil clock uses the
// package-wide monotonic clock.
func NewLog(clk *clock.Clock) *Log {
	if clk == nil {
		clk = clock.Monotonic
	}
	return &Log{
		clk: clk,
		// with no targets there is nothing to buffer for
		lowest: Level(int(^uint(0) >> 1)),
	}
}

// AddTarget registers a sink. The global buffering threshold is lowered to
// the new target's threshold if it is cheaper.
func (l *Log) AddTarget(t Target) {
	l.crit.Lock()
	defer l.crit.Unlock()

	l.targets = append(l.targets, t)

	l.lowest = Level(int(^uint(0) >> 1))
	for _, t := range l.targets {
		if t.Threshold() < l.lowest {
			l.lowest = t.Threshold()
		}
	}
}

// Log queues an entry for the next Flush(). Entries below every target's
// threshold are rejected here and never buffered.
func (l *Log) Log(lvl Level, msg string) {
	l.LogObj(lvl, msg, "")
}

// LogObj is Log with an associated object repr attached to the entry.
func (l *Log) LogObj(lvl Level, msg string, obj string) {
	l.crit.Lock()
	defer l.crit.Unlock()

	if lvl < l.lowest {
		return
	}

	t := l.clk.Elapsed()
	l.toFlush = append(l.toFlush, Entry{
		T:         t,
		TMilli:    int64(math.Round(t * 1000)),
		Level:     lvl,
		LevelName: LevelName(lvl),
		Message:   msg,
		Obj:       obj,
	})
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Log) Logf(lvl Level, msg string, args ...interface{}) {
	l.Log(lvl, fmt.Sprintf(msg, args...))
}

// Convenience functions for the predefined levels.

func (l *Log) Debug(msg string)    { l.Log(Debug, msg) }
func (l *Log) Info(msg string)     { l.Log(Info, msg) }
func (l *Log) Exp(msg string)      { l.Log(Exp, msg) }
func (l *Log) Data(msg string)     { l.Log(Data, msg) }
func (l *Log) Warning(msg string)  { l.Log(Warning, msg) }
func (l *Log) Error(msg string)    { l.Log(Error, msg) }
func (l *Log) Critical(msg string) { l.Log(Critical, msg) }

// Flush writes every buffered entry to every target whose threshold it
// meets, then concludes each target's batch. Entries move to the flushed
// list whether or not any target accepted them.
//
// Returns the first error raised by a target, after attempting all of them.
func (l *Log) Flush() error {
	l.crit.Lock()
	pending := l.toFlush
	l.toFlush = nil
	l.flushed = append(l.flushed, pending...)
	targets := make([]Target, len(l.targets))
	copy(targets, l.targets)
	l.crit.Unlock()

	var firstErr error

	for _, t := range targets {
		for _, e := range pending {
			if e.Level >= t.Threshold() {
				if err := t.Write(e.String()); err != nil && firstErr == nil {
					firstErr = err
				}
			}
		}
		if err := t.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// Flushed returns a copy of every entry that has passed through Flush().
func (l *Log) Flushed() []Entry {
	l.crit.Lock()
	defer l.crit.Unlock()

	c := make([]Entry, len(l.flushed))
	copy(c, l.flushed)
	return c
}

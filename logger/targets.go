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

package logger

import (
	"io"
	"strings"
)

// ConsoleTarget writes entries to an io.Writer as they are flushed from the
// log. Writes are immediate; the Flush() function is a no-op.
type ConsoleTarget struct {
	threshold Level
	output    io.Writer
}

// NewConsoleTarget is the preferred method of initialisation for the
// ConsoleTarget type.
func NewConsoleTarget(threshold Level, output io.Writer) *ConsoleTarget {
	return &ConsoleTarget{
		threshold: threshold,
		output:    output,
	}
}

// Threshold implements the Target interface.
func (t *ConsoleTarget) Threshold() Level {
	return t.threshold
}

// Write implements the Target interface.
func (t *ConsoleTarget) Write(text string) error {
	_, err := io.WriteString(t.output, text)
	return err
}

// Flush implements the Target interface. It is a no-op for the immediate
// console target.
func (t *ConsoleTarget) Flush() error {
	return nil
}

// Uploader is how a ServerTarget sends its batch. The resources package's
// server transport satisfies this interface.
type Uploader interface {
	UploadLog(data string) error
}

// ServerTarget accumulates entries and uploads the whole batch as a single
// payload when the log flushes.
type ServerTarget struct {
	threshold Level
	uploader  Uploader
	batch     strings.Builder
}

// NewServerTarget is the preferred method of initialisation for the
// ServerTarget type.
func NewServerTarget(threshold Level, uploader Uploader) *ServerTarget {
	return &ServerTarget{
		threshold: threshold,
		uploader:  uploader,
	}
}

// Threshold implements the Target interface.
func (t *ServerTarget) Threshold() Level {
	return t.threshold
}

// Write implements the Target interface. The text joins the pending batch;
// nothing is sent until Flush().
func (t *ServerTarget) Write(text string) error {
	t.batch.WriteString(text)
	return nil
}

// Flush implements the Target interface, uploading the accumulated batch as
// one payload. An empty batch uploads nothing.
func (t *ServerTarget) Flush() error {
	if t.batch.Len() == 0 {
		return nil
	}

	data := t.batch.String()
	t.batch.Reset()
	return t.uploader.UploadLog(data)
}

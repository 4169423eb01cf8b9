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

package experiment

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Dialog is the collaborator that collects session information from the
// experimenter before the experiment starts. The returned map updates the
// descriptor's extra info values. ok is false if the dialog was cancelled,
// in which case the session aborts without running any trials.
type Dialog interface {
	Collect(desc Descriptor) (info map[string]interface{}, ok bool)
}

// AcceptDefaults is a Dialog that accepts the descriptor's extra info
// unchanged. Used by the performance mode and by tests.
type AcceptDefaults struct{}

// Collect implements the Dialog interface.
func (dlg AcceptDefaults) Collect(desc Descriptor) (map[string]interface{}, bool) {
	return nil, true
}

// TerminalDialog collects extra info values on the terminal, one prompt per
// field. An empty reply keeps the descriptor's default. EOF before the last
// field cancels the session.
type TerminalDialog struct {
	Input  io.Reader
	Output io.Writer
}

// Collect implements the Dialog interface.
func (dlg TerminalDialog) Collect(desc Descriptor) (map[string]interface{}, bool) {
	fields := make([]string, 0, len(desc.ExtraInfo))
	for k := range desc.ExtraInfo {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	fmt.Fprintf(dlg.Output, "%s\n", desc.Name)

	info := make(map[string]interface{}, len(fields))
	scanner := bufio.NewScanner(dlg.Input)

	for _, f := range fields {
		fmt.Fprintf(dlg.Output, "%s [%v]: ", f, desc.ExtraInfo[f])
		if !scanner.Scan() {
			return nil, false
		}
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			info[f] = s
		}
	}

	return info, true
}

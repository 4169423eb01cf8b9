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
	"io"
	"os"

	"github.com/jetsetilly/gopherpsych/curated"

	"gopkg.in/yaml.v3"
)

// Error messages from descriptor loading.
const (
	DescriptorError  = "descriptor: %v"
	NoExperimentName = "descriptor: no experiment name"
	NoLoops          = "descriptor: no loops defined"
)

// LoopDescriptor defines one trial loop of the experiment. Conditions names
// a resource holding the conditions file for the loop.
type LoopDescriptor struct {
	Name       string `yaml:"name"`
	Conditions string `yaml:"conditions"`
	NReps      int    `yaml:"nReps"`
	Method     string `yaml:"method"`
	Seed       int64  `yaml:"seed"`
}

// Descriptor defines an experiment session. It is normally loaded from a
// YAML file named on the command line.
type Descriptor struct {
	Name       string                 `yaml:"name"`
	Fullscreen bool                   `yaml:"fullscreen"`
	SaveTo     string                 `yaml:"saveTo"`
	Output     string                 `yaml:"output"`
	ExtraInfo  map[string]interface{} `yaml:"extraInfo"`
	Loops      []LoopDescriptor       `yaml:"loops"`

	// the resources the session downloads before the first loop. when the
	// list is empty the session registers whatever the transport can list
	Resources []string `yaml:"resources"`

	// where resources come from. ResourceDir names a local directory;
	// ServerURL points at an experiment server. ServerURL wins if both are
	// given.
	ResourceDir string `yaml:"resourceDir"`
	ServerURL   string `yaml:"serverURL"`

	// session identifier sent to the experiment server with every request
	SessionKey string `yaml:"sessionKey"`

	// OSF project node, used when saveTo is "osf". The auth token is taken
	// from the application preferences, never from the descriptor.
	OSFNode string `yaml:"osfNode"`
}

// LoadDescriptor reads an experiment descriptor from a YAML file.
func LoadDescriptor(filename string) (Descriptor, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Descriptor{}, curated.Errorf(DescriptorError, err)
	}
	defer f.Close()
	return ReadDescriptor(f)
}

// ReadDescriptor reads an experiment descriptor from YAML data.
func ReadDescriptor(r io.Reader) (Descriptor, error) {
	var desc Descriptor

	d := yaml.NewDecoder(r)
	d.KnownFields(true)
	if err := d.Decode(&desc); err != nil {
		return Descriptor{}, curated.Errorf(DescriptorError, err)
	}

	if desc.Name == "" {
		return Descriptor{}, curated.Errorf(NoExperimentName)
	}
	if len(desc.Loops) == 0 {
		return Descriptor{}, curated.Errorf(NoLoops)
	}

	return desc, nil
}

// Write renders the descriptor as YAML.
func (desc Descriptor) Write(w io.Writer) error {
	e := yaml.NewEncoder(w)
	defer e.Close()
	if err := e.Encode(desc); err != nil {
		return curated.Errorf(DescriptorError, err)
	}
	return nil
}

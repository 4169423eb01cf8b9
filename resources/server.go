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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jetsetilly/gopherpsych/curated"
)

// commands accepted by an experiment server.
const (
	CommandListResources = "LIST_RESOURCES"
	CommandSaveData      = "SAVE_DATA"
)

// ServerTransport talks to an experiment server: a single POST endpoint
// accepting command/session/dataType/data form fields and answering with
// JSON. Resource bytes are fetched from per-resource paths under the same
// base URL. The sessionserver package implements the server side of this
// protocol.
type ServerTransport struct {
	// base URL of the experiment server, without a trailing slash
	URL string

	// the session identifier sent with every command
	Session string

	// nil means http.DefaultClient
	Client *http.Client
}

// serverReply is the JSON shape of every experiment server response.
// exactly one field is populated.
type serverReply struct {
	// answer to LIST_RESOURCES
	Resources []string `json:"resources,omitempty"`

	// confirmation of an upload
	Representation string `json:"representation,omitempty"`

	Error string `json:"error,omitempty"`
}

func (trn ServerTransport) client() *http.Client {
	if trn.Client != nil {
		return trn.Client
	}
	return http.DefaultClient
}

// post a command to the server and decode the JSON reply.
func (trn ServerTransport) post(values url.Values) (*serverReply, error) {
	resp, err := trn.client().PostForm(fmt.Sprintf("%s/session", trn.URL), values)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected response from experiment server [%d: %s]", resp.StatusCode, body)
	}

	var reply serverReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("experiment server: %s", reply.Error)
	}

	return &reply, nil
}

// List implements the Transport interface.
func (trn ServerTransport) List() ([]string, error) {
	reply, err := trn.post(url.Values{
		"command": {CommandListResources},
		"session": {trn.Session},
	})
	if err != nil {
		return nil, curated.Errorf("server transport: %v", err)
	}
	return reply.Resources, nil
}

// Fetch implements the Transport interface. Resource bytes come from the
// per-resource path under the server's base URL.
func (trn ServerTransport) Fetch(name string) ([]byte, error) {
	resp, err := trn.client().Get(fmt.Sprintf("%s/resources/%s", trn.URL, url.PathEscape(name)))
	if err != nil {
		return nil, curated.Errorf("server transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, curated.Errorf("server transport: %v",
			fmt.Errorf("unexpected response from experiment server [%d]", resp.StatusCode))
	}

	return io.ReadAll(resp.Body)
}

// Upload implements the Transport interface. The server must answer with a
// representation confirmation.
func (trn ServerTransport) Upload(dataType string, name string, data string) error {
	reply, err := trn.post(url.Values{
		"command":  {CommandSaveData},
		"session":  {trn.Session},
		"dataType": {dataType},
		"name":     {name},
		"data":     {data},
	})
	if err != nil {
		return curated.Errorf("server transport: %v", err)
	}
	if reply.Representation == "" {
		return curated.Errorf("server transport: %v", fmt.Errorf("upload not confirmed by experiment server"))
	}
	return nil
}

// UploadLog satisfies the logger.Uploader interface, allowing a
// ServerTransport to back a server log target directly.
func (trn ServerTransport) UploadLog(data string) error {
	return trn.Upload(UploadLog, "session.log", data)
}

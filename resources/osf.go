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
	"strings"

	"github.com/jetsetilly/gopherpsych/curated"
)

// OSFTransport hosts experiment resources on an Open Science Framework
// project node. Every request carries bearer-token authorisation. Listing
// walks the node's file storage; fetching follows the per-file download
// link discovered during listing.
//
// A failed call is not retried. The error carries the OSF response detail
// where one is available.
type OSFTransport struct {
	// project node identifier, eg. "ab12c"
	Node string

	// personal access token
	AuthToken string

	// API root. the public OSF if empty
	API string

	// nil means http.DefaultClient
	Client *http.Client

	// download links discovered by List(), keyed by resource name
	links map[string]string
}

const osfPublicAPI = "https://api.osf.io/v2"

// the JSON subset of an OSF file listing that the transport consumes.
type osfFileList struct {
	Data []struct {
		Attributes struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"attributes"`
		Links struct {
			Download string `json:"download"`
			Upload   string `json:"upload"`
		} `json:"links"`
	} `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

func (trn *OSFTransport) client() *http.Client {
	if trn.Client != nil {
		return trn.Client
	}
	return http.DefaultClient
}

func (trn *OSFTransport) api() string {
	if trn.API == "" {
		return osfPublicAPI
	}
	return strings.TrimSuffix(trn.API, "/")
}

// get performs an authorised GET, failing on any non-200 response.
func (trn *OSFTransport) get(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", trn.AuthToken))

	resp, err := trn.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected response from OSF [%d: %s]", resp.StatusCode, body)
	}

	return body, nil
}

// List implements the Transport interface, walking the node's osfstorage
// listing (following pagination) and remembering each file's download
// link.
func (trn *OSFTransport) List() ([]string, error) {
	trn.links = make(map[string]string)

	var names []string
	url := fmt.Sprintf("%s/nodes/%s/files/osfstorage/", trn.api(), trn.Node)

	for url != "" {
		body, err := trn.get(url)
		if err != nil {
			return nil, curated.Errorf("osf transport: %v", err)
		}

		var list osfFileList
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, curated.Errorf("osf transport: %v", err)
		}

		for _, f := range list.Data {
			if f.Attributes.Kind != "file" {
				continue
			}
			names = append(names, f.Attributes.Name)
			trn.links[f.Attributes.Name] = f.Links.Download
		}

		url = list.Links.Next
	}

	return names, nil
}

// Fetch implements the Transport interface, following the download link
// discovered by List(). Fetching a name that List() has not seen fails
// with the UnknownResource pattern.
func (trn *OSFTransport) Fetch(name string) ([]byte, error) {
	link, ok := trn.links[name]
	if !ok {
		return nil, curated.Errorf(UnknownResource, name)
	}

	body, err := trn.get(link)
	if err != nil {
		return nil, curated.Errorf("osf transport: %v", err)
	}
	return body, nil
}

// Upload implements the Transport interface, creating a new file in the
// node's osfstorage.
func (trn *OSFTransport) Upload(dataType string, name string, data string) error {
	url := fmt.Sprintf("%s/nodes/%s/files/osfstorage/?kind=file&name=%s", trn.api(), trn.Node, name)

	req, err := http.NewRequest("PUT", url, strings.NewReader(data))
	if err != nil {
		return curated.Errorf("osf transport: %v", err)
	}
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", trn.AuthToken))

	resp, err := trn.client().Do(req)
	if err != nil {
		return curated.Errorf("osf transport: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case 200, 201:
		// file created or updated
	default:
		body, _ := io.ReadAll(resp.Body)
		return curated.Errorf("osf transport: %v",
			fmt.Errorf("unexpected response from OSF [%d: %s]", resp.StatusCode, body))
	}

	return nil
}

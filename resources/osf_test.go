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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jetsetilly/gopherpsych/resources"
	"github.com/jetsetilly/gopherpsych/test"
)

// a fake OSF node with a paginated osfstorage listing. the pagination link
// lives inside the reply's "links" object, not at the top level.
func newStubOSF(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/nodes/ab12c/files/osfstorage/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"data": [
				{"attributes": {"name": "conditions.csv", "kind": "file"},
				 "links": {"download": "%s/download/conditions.csv"}},
				{"attributes": {"name": "stimuli", "kind": "folder"},
				 "links": {}}
			],
			"links": {"next": "%s/page/2"}
		}`, srv.URL, srv.URL)
	})
	mux.HandleFunc("/page/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"data": [
				{"attributes": {"name": "practice.csv", "kind": "file"},
				 "links": {"download": "%s/download/practice.csv"}}
			],
			"links": {"next": null}
		}`, srv.URL)
	})
	mux.HandleFunc("/download/conditions.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ori\n0\n90\n")
	})

	srv = httptest.NewServer(mux)
	return srv
}

func TestOSFTransportPaginatedList(t *testing.T) {
	srv := newStubOSF(t)
	defer srv.Close()

	trn := &resources.OSFTransport{Node: "ab12c", API: srv.URL}

	names, err := trn.List()
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(names), 2)
	test.Equate(t, names[0], "conditions.csv")
	test.Equate(t, names[1], "practice.csv")

	// fetch follows the download link remembered during listing
	v, err := trn.Fetch("conditions.csv")
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(v), "ori\n0\n90\n")

	_, err = trn.Fetch("never-listed.csv")
	test.ExpectedFailure(t, err)
}

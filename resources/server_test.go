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

// a minimal experiment server speaking the transport protocol.
func newStubServer(t *testing.T) (*httptest.Server, *map[string]string) {
	t.Helper()

	uploads := make(map[string]string)

	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		switch r.PostForm.Get("command") {
		case resources.CommandListResources:
			fmt.Fprint(w, `{"resources": ["conditions.csv"]}`)
		case resources.CommandSaveData:
			uploads[r.PostForm.Get("name")] = r.PostForm.Get("data")
			fmt.Fprint(w, `{"representation": "saved"}`)
		default:
			fmt.Fprint(w, `{"error": "unknown command"}`)
		}
	})
	mux.HandleFunc("/resources/conditions.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ori\n0\n90\n")
	})

	return httptest.NewServer(mux), &uploads
}

func TestServerTransport(t *testing.T) {
	srv, uploads := newStubServer(t)
	defer srv.Close()

	trn := resources.ServerTransport{URL: srv.URL, Session: "s-1"}

	names, err := trn.List()
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(names), 1)
	test.Equate(t, names[0], "conditions.csv")

	v, err := trn.Fetch("conditions.csv")
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(v), "ori\n0\n90\n")

	err = trn.Upload(resources.UploadResult, "results.csv", "a, b\n1, 2\n")
	test.ExpectedSuccess(t, err)
	test.Equate(t, (*uploads)["results.csv"], "a, b\n1, 2\n")

	// the log uploader path shares the transport
	err = trn.UploadLog("0.1\tINFO\thello\n")
	test.ExpectedSuccess(t, err)
	test.Equate(t, (*uploads)["session.log"], "0.1\tINFO\thello\n")
}

func TestServerTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error": "no such session"}`)
	}))
	defer srv.Close()

	trn := resources.ServerTransport{URL: srv.URL, Session: "s-bad"}
	_, err := trn.List()
	test.ExpectedFailure(t, err)
}

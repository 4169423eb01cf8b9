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

package sessionserver_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jetsetilly/gopherpsych/logger"
	"github.com/jetsetilly/gopherpsych/resources"
	"github.com/jetsetilly/gopherpsych/sessionserver"
	"github.com/jetsetilly/gopherpsych/test"
)

// newServer starts a sessionserver over a temporary resource directory and
// returns a transport pointing at it.
func newServer(t *testing.T) (resources.ServerTransport, *sessionserver.Store) {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "conditions.csv"), []byte("ori\n0\n90\n"), 0644)
	test.ExpectedSuccess(t, err)

	// the store lives outside the resource directory so its database files
	// never show up in resource listings
	store, err := sessionserver.NewStore(filepath.Join(t.TempDir(), "uploads.db"))
	test.ExpectedSuccess(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(sessionserver.NewServer(dir, store).Handler())
	t.Cleanup(srv.Close)

	return resources.ServerTransport{
		URL:     srv.URL,
		Session: "S1",
		Client:  srv.Client(),
	}, store
}

func TestRoundTrip(t *testing.T) {
	trn, store := newServer(t)

	names, err := trn.List()
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(names), 1)
	test.Equate(t, names[0], "conditions.csv")

	b, err := trn.Fetch("conditions.csv")
	test.ExpectedSuccess(t, err)
	test.Equate(t, string(b), "ori\n0\n90\n")

	err = trn.Upload(resources.UploadResult, "orientation.csv", "resp\nleft\n")
	test.ExpectedSuccess(t, err)

	uploads, err := store.Uploads("S1")
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(uploads), 1)
	test.Equate(t, uploads[0].DataType, resources.UploadResult)
	test.Equate(t, uploads[0].Name, "orientation.csv")
	test.Equate(t, uploads[0].Data, "resp\nleft\n")
}

func TestFetchUnknown(t *testing.T) {
	trn, _ := newServer(t)
	_, err := trn.Fetch("missing.csv")
	test.ExpectedFailure(t, err)
}

func TestUnknownCommandRejected(t *testing.T) {
	trn, store := newServer(t)

	err := trn.Upload("SCREENSHOT", "shot.png", "...")
	test.ExpectedFailure(t, err)

	uploads, err := store.Uploads("S1")
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(uploads), 0)
}

// a server log target flushing through the transport lands the whole batch
// in the upload store as one LOG entry.
func TestLogUpload(t *testing.T) {
	trn, store := newServer(t)

	log := logger.NewLog(nil)
	log.AddTarget(logger.NewServerTarget(logger.Warning, trn))

	log.Warning("first")
	log.Warning("second")
	test.ExpectedSuccess(t, log.Flush())

	uploads, err := store.Uploads("S1")
	test.ExpectedSuccess(t, err)
	test.Equate(t, len(uploads), 1)
	test.Equate(t, uploads[0].DataType, resources.UploadLog)
	test.ExpectedSuccess(t, strings.Contains(uploads[0].Data, "first"))
	test.ExpectedSuccess(t, strings.Contains(uploads[0].Data, "second"))
}

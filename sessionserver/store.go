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

package sessionserver

import (
	"database/sql"
	"time"

	"github.com/jetsetilly/gopherpsych/curated"

	_ "modernc.org/sqlite"
)

// StoreError is the error pattern for all store failures.
const StoreError = "sessionserver store: %v"

// Upload is one piece of data a client sent to the server.
type Upload struct {
	Session  string
	DataType string
	Name     string
	Data     string
	Received string
}

// Store keeps everything clients upload in a sqlite database. WAL mode so
// that reads of past sessions never block a running experiment's uploads.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the upload database.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS uploads (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		session  TEXT NOT NULL,
		dataType TEXT NOT NULL,
		name     TEXT NOT NULL,
		data     TEXT NOT NULL,
		received TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_uploads_session ON uploads(session);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, curated.Errorf(StoreError, err)
	}

	return &Store{db: db}, nil
}

// Close the upload database.
func (st *Store) Close() error {
	return st.db.Close()
}

// AddUpload records a client upload.
func (st *Store) AddUpload(session string, dataType string, name string, data string) error {
	_, err := st.db.Exec(
		`INSERT INTO uploads (session, dataType, name, data, received) VALUES (?, ?, ?, ?, ?)`,
		session, dataType, name, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return curated.Errorf(StoreError, err)
	}
	return nil
}

// Uploads returns everything a session has uploaded, oldest first.
func (st *Store) Uploads(session string) ([]Upload, error) {
	rows, err := st.db.Query(
		`SELECT session, dataType, name, data, received FROM uploads WHERE session = ? ORDER BY id`,
		session)
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}
	defer rows.Close()

	var uploads []Upload
	for rows.Next() {
		var u Upload
		if err := rows.Scan(&u.Session, &u.DataType, &u.Name, &u.Data, &u.Received); err != nil {
			return nil, curated.Errorf(StoreError, err)
		}
		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	return uploads, nil
}

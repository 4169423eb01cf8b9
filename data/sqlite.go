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

package data

import (
	"database/sql"
	"time"

	"github.com/jetsetilly/gopherpsych/curated"

	_ "modernc.org/sqlite"
)

// the database sink stores the ledger in long format, one database row per
// cell. long format needs no schema changes when experiments differ in their
// columns, and converting back to wide format is a single GROUP BY away.
const resultsSchema = `
	CREATE TABLE IF NOT EXISTS results (
		experiment TEXT NOT NULL,
		recorded   TEXT NOT NULL,
		entry      INTEGER NOT NULL,
		name       TEXT NOT NULL,
		value      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_experiment ON results(experiment, entry);
`

func (exp *ExperimentHandler) saveDatabase(path string) error {
	if path == "" {
		path = "results.db"
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return curated.Errorf(SaveError, err)
	}
	defer db.Close()

	if _, err := db.Exec(resultsSchema); err != nil {
		return curated.Errorf(SaveError, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return curated.Errorf(SaveError, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO results (experiment, recorded, entry, name, value)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return curated.Errorf(SaveError, err)
	}
	defer stmt.Close()

	recorded := time.Now().UTC().Format(time.RFC3339)
	columns := exp.Columns()

	for i, entry := range exp.Entries() {
		for _, col := range columns {
			v, ok := entry[col]
			if !ok {
				continue
			}
			if _, err := stmt.Exec(exp.name, recorded, i, col, formatCell(v)); err != nil {
				tx.Rollback()
				return curated.Errorf(SaveError, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return curated.Errorf(SaveError, err)
	}

	return nil
}

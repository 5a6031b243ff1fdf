// Copyright (c) 2021 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"crawshaw.io/sqlite"
	"github.com/pkg/errors"

	"github.com/forensicanalysis/imfinder"
)

const reportVersion = 1
const reportApplicationID = 1701604973

// SQLiteWriter persists report records into a sqlite database. Records are
// stored as JSON in a full text indexed elements table; on close one view
// per artifact type exposes the flattened fields as columns.
type SQLiteWriter struct {
	cursor   *sqlite.Conn
	types    *typeMap
	validate *Validator
}

var ErrReportExists = fmt.Errorf("report already exists")

// NewSQLiteWriter creates a new report database at url. A nil validator
// disables record validation.
func NewSQLiteWriter(url string, validate *Validator) (*SQLiteWriter, error) {
	if url != ":memory:" {
		if _, err := os.Stat(url); err == nil {
			return nil, ErrReportExists
		} else if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(path.Dir(url), 0750); err != nil {
			return nil, err
		}
	}

	cursor, err := sqlite.OpenConn(url, 0)
	if err != nil {
		return nil, err
	}

	w := &SQLiteWriter{cursor: cursor, types: newTypeMap(), validate: validate}

	if err := w.setPragma("application_id", reportApplicationID); err != nil {
		return nil, err
	}
	if err := w.setPragma("user_version", reportVersion); err != nil {
		return nil, err
	}
	err = w.exec("CREATE VIRTUAL TABLE `elements` " +
		"USING fts5(id UNINDEXED, json, insert_time UNINDEXED, tokenize=\"unicode61 tokenchars '/.'\")")
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *SQLiteWriter) Write(artifacts []imfinder.Artifact) error {
	for _, artifact := range artifacts {
		if err := w.insert(artifact.ReportRecord()); err != nil {
			return err
		}
	}
	return nil
}

func (w *SQLiteWriter) insert(record map[string]interface{}) error {
	if w.validate != nil {
		if err := validateRecord(w.validate, record); err != nil {
			return err
		}
	}

	recordType, ok := record[discriminator].(string)
	if !ok {
		return errors.New("record requires a type")
	}
	id, ok := record["id"].(string)
	if !ok {
		return errors.New("record requires an id")
	}

	flat, err := flatten(record)
	if err != nil {
		return errors.Wrap(err, "could not flatten record")
	}
	w.types.addAll(recordType, flat)

	b, err := json.Marshal(record)
	if err != nil {
		return err
	}

	stmt, err := w.cursor.Prepare("INSERT INTO `elements` (id, json, insert_time) VALUES ($id, $json, $time)")
	if err != nil {
		return errors.Wrap(err, "could not prepare insert statement")
	}
	stmt.SetText("$id", id)
	stmt.SetText("$json", string(b))
	stmt.SetText("$time", time.Now().Format("2006-01-02T15:04:05.000Z"))
	if _, err := stmt.Step(); err != nil {
		return errors.Wrap(err, "could not insert record")
	}
	return stmt.Finalize()
}

// Select retrieves all records of one artifact type.
func (w *SQLiteWriter) Select(recordType string) ([][]byte, error) {
	query := fmt.Sprintf(
		"SELECT json FROM \"elements\" WHERE json_extract(json, '$.%s') = '%s'",
		discriminator, recordType,
	) // #nosec
	stmt, err := w.cursor.Prepare(query)
	if err != nil {
		return nil, err
	}
	return w.rowsToRecords(stmt)
}

// All returns every stored record.
func (w *SQLiteWriter) All() ([][]byte, error) {
	stmt, err := w.cursor.Prepare("SELECT json FROM \"elements\"")
	if err != nil {
		return nil, err
	}
	return w.rowsToRecords(stmt)
}

// Close creates the per-type column views and closes the database.
func (w *SQLiteWriter) Close() error {
	if w.types.changed {
		_ = w.createViews()
	}
	return w.cursor.Close()
}

func (w *SQLiteWriter) createViews() error {
	for typeName, fields := range w.types.all() {
		if err := w.exec(fmt.Sprintf("DROP VIEW IF EXISTS '%s'", typeName)); err != nil {
			return err
		}
		var columns []string
		for field := range fields {
			columns = append(columns, fmt.Sprintf("json_extract(json, '$.%s') as '%s'", field, field))
		}
		sort.Strings(columns)
		err := w.exec(
			fmt.Sprintf("CREATE VIEW '%s' AS SELECT %s FROM elements WHERE json_extract(json, '$.%s') = '%s'",
				typeName, strings.Join(columns, ", "), discriminator, typeName),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *SQLiteWriter) rowsToRecords(stmt *sqlite.Stmt) ([][]byte, error) {
	var records [][]byte
	for {
		if hasRow, err := stmt.Step(); err != nil {
			return nil, err
		} else if !hasRow {
			break
		}
		records = append(records, []byte(stmt.GetText("json")))
	}
	return records, stmt.Finalize()
}

func (w *SQLiteWriter) setPragma(name string, i int64) error {
	stmt, err := w.cursor.Prepare("PRAGMA " + name + " = " + fmt.Sprint(i))
	if err != nil {
		return err
	}
	if _, err := stmt.Step(); err != nil {
		return err
	}
	return stmt.Finalize()
}

func (w *SQLiteWriter) exec(query string) error {
	stmt, err := w.cursor.Prepare(query)
	if err != nil {
		return err
	}
	if _, err := stmt.Step(); err != nil {
		return err
	}
	return stmt.Finalize()
}

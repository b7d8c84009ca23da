// Package mapdb exports assembled maps into SQLite databases and reads them
// back, for pipelines that query map content without reparsing documents.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package mapdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-libtmx/gid"
)

// Reader reads a database written by Writer.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader creates a new Reader for the given database path.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT tile_gid FROM cells WHERE layer = ? AND x = ? AND y = ?")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadCell returns the decoded gid stored at a grid cell. An absent row is an
// empty cell: zero raw id, no flags, no error.
func (r *Reader) ReadCell(layer, x, y int) (gid.Raw, gid.Flags, error) {
	var encoded uint32
	if err := r.stmt.QueryRow(layer, x, y).Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, gid.EmptyFlags, nil
		}
		return 0, gid.EmptyFlags, err
	}

	raw, flags := gid.Decode(encoded)
	return raw, flags, nil
}

// Cell is one nonempty grid cell as stored in the database.
type Cell struct {
	Layer int
	X     int
	Y     int
	Raw   gid.Raw
	Flags gid.Flags
}

func (r *Reader) VisitCells(visitor func(Cell) error) error {
	rows, err := r.db.Query("SELECT layer, x, y, tile_gid FROM cells")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cell Cell
		var encoded uint32

		if err := rows.Scan(&cell.Layer, &cell.X, &cell.Y, &encoded); err != nil {
			return err
		}

		cell.Raw, cell.Flags = gid.Decode(encoded)

		if err := visitor(cell); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return err
	}

	return nil
}

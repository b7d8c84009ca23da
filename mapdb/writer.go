package mapdb

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eak1mov/go-libtmx/gid"
	"github.com/eak1mov/go-libtmx/tmx"
)

// Writer exports an assembled map into a SQLite database.
type Writer struct {
	db       *sql.DB
	cellStmt *sql.Stmt
	logger   *slog.Logger
	progress func(rows int)
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
	Progress func(rows int)
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// WithProgress registers a callback invoked after every written row batch.
func WithProgress(progress func(rows int)) WriterOption {
	return func(c *writerConfig) { c.Progress = progress }
}

// NewWriter creates a new Writer backed by the database at filePath.
// It applies given options and initializes the schema.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE layers (
			id INTEGER,
			name TEXT,
			kind TEXT,
			visible INTEGER,
			opacity REAL
		);
		CREATE TABLE cells (
			layer INTEGER,
			x INTEGER,
			y INTEGER,
			tile_gid INTEGER
		);
		CREATE TABLE objects (
			id INTEGER,
			layer INTEGER,
			name TEXT,
			type TEXT,
			x REAL,
			y REAL,
			width REAL,
			height REAL,
			rotation REAL,
			tile_gid INTEGER
		);
		CREATE TABLE tile_properties (
			tile_gid INTEGER,
			name TEXT,
			value TEXT
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	stmt, err := db.Prepare("INSERT INTO cells (layer, x, y, tile_gid) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}

	progress := config.Progress
	if progress == nil {
		progress = func(int) {}
	}

	return &Writer{db, stmt, config.Logger, progress}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.cellStmt.Close(), w.db.Close())
}

// WriteMap exports the map's layer table, nonempty grid cells and objects.
// Cells store the document-level encoded gid, so a database row is meaningful
// without the load-private registry.
func (w *Writer) WriteMap(m *tmx.Map) error {
	w.logger.Debug("mapdb: write map", "file", m.Filename())

	if _, err := w.db.Exec("INSERT INTO metadata (name, value) VALUES ('source', ?)", m.Filename()); err != nil {
		return err
	}

	for index, layer := range flatten(m.Layers) {
		info := layer.Info()
		kind := layerKind(layer)
		_, err := w.db.Exec(
			"INSERT INTO layers (id, name, kind, visible, opacity) VALUES (?, ?, ?, ?, ?)",
			index, info.Name, kind, info.Visible, info.Opacity)
		if err != nil {
			return err
		}

		switch l := layer.(type) {
		case *tmx.TileLayer:
			if err := w.writeCells(m, index, l); err != nil {
				return err
			}
		case *tmx.ObjectGroup:
			if err := w.writeObjects(m, index, l); err != nil {
				return err
			}
		}
	}
	return w.writeTileProperties(m)
}

// writeTileProperties flattens scalar tile metadata to text rows; structured
// values (animation frames, collider groups) have no row representation and
// are skipped.
func (w *Writer) writeTileProperties(m *tmx.Map) error {
	for local, bag := range m.TileProps {
		raw, flags, ok := m.Registry.EntryOf(local)
		if !ok {
			continue
		}
		encoded := gid.Encode(raw, flags)
		for name, value := range bag {
			switch value.(type) {
			case string, int, float64, bool:
			default:
				continue
			}
			_, err := w.db.Exec(
				"INSERT INTO tile_properties (tile_gid, name, value) VALUES (?, ?, ?)",
				encoded, name, fmt.Sprint(value))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeCells(m *tmx.Map, index int, l *tmx.TileLayer) error {
	for y := range l.Height {
		for x := range l.Width {
			local := l.Grid[y][x]
			if local == 0 {
				continue
			}
			raw, flags, ok := m.Registry.EntryOf(local)
			if !ok {
				return fmt.Errorf("mapdb: layer %q cell (%v, %v): unknown local gid %v", l.Name, x, y, local)
			}
			if _, err := w.cellStmt.Exec(index, x, y, gid.Encode(raw, flags)); err != nil {
				return err
			}
			w.progress(1)
		}
	}
	return nil
}

func (w *Writer) writeObjects(m *tmx.Map, index int, g *tmx.ObjectGroup) error {
	for _, o := range g.Objects {
		var encoded uint32
		if o.GID != 0 {
			raw, flags, ok := m.Registry.EntryOf(o.GID)
			if !ok {
				return fmt.Errorf("mapdb: object %v: unknown local gid %v", o.ID, o.GID)
			}
			encoded = gid.Encode(raw, flags)
		}
		_, err := w.db.Exec(
			"INSERT INTO objects (id, layer, name, type, x, y, width, height, rotation, tile_gid) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			o.ID, index, o.Name, o.Type, o.X, o.Y, o.Width, o.Height, o.Rotation, encoded)
		if err != nil {
			return err
		}
		w.progress(1)
	}
	return nil
}

func (w *Writer) Finalize() error {
	w.logger.Debug("mapdb: creating index")
	_, err := w.db.Exec("CREATE UNIQUE INDEX cell_index ON cells (layer, x, y)")

	w.logger.Debug("mapdb: done!")
	return err
}

func flatten(layers []tmx.Layer) []tmx.Layer {
	var out []tmx.Layer
	for _, l := range layers {
		out = append(out, l)
		if g, ok := l.(*tmx.GroupLayer); ok {
			out = append(out, flatten(g.Children)...)
		}
	}
	return out
}

func layerKind(layer tmx.Layer) string {
	switch layer.(type) {
	case *tmx.TileLayer:
		return "tile"
	case *tmx.ImageLayer:
		return "image"
	case *tmx.GroupLayer:
		return "group"
	case *tmx.ObjectGroup:
		return "object"
	}
	return ""
}

package tmx

import (
	"errors"
	"fmt"
)

// Structural and semantic parse errors. All of these abort the whole load;
// the map is never partially populated.
var (
	ErrUnsupportedEncoding    = errors.New("tmx: unsupported layer data encoding")
	ErrUnsupportedCompression = errors.New("tmx: unsupported layer data compression")
	ErrInvalidDataLength      = errors.New("tmx: decoded layer data length mismatch")
	ErrUnsupportedTileset     = errors.New("tmx: unsupported external tileset format")
	ErrReservedProperty       = errors.New("tmx: custom property collides with a reserved attribute")
)

// Referential query errors, reported per call after a successful load.
var (
	ErrLayerNotFound   = errors.New("tmx: layer not found")
	ErrObjectNotFound  = errors.New("tmx: object not found")
	ErrNoTileset       = errors.New("tmx: no tileset claims the given gid")
	ErrUnknownGID      = errors.New("tmx: gid was never registered")
	ErrNotTileLayer    = errors.New("tmx: layer is not a tile layer")
	ErrNoImageLoader   = errors.New("tmx: no image loader configured")
)

// OutOfBoundsError reports tile coordinates or a layer index outside the
// loaded map. Carrying the requested values keeps "not found" distinct from
// tile index 0 at the call site.
type OutOfBoundsError struct {
	X, Y  int
	Layer int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("tmx: coordinates (%v, %v) out of bounds for layer %v", e.X, e.Y, e.Layer)
}

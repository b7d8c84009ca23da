package tmx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// decodeLayerData turns a <data> node into width*height raw GID words.
// Supported encodings: csv, base64 (plain or gzip/zlib/zstd compressed) and
// plain <tile> child elements.
func decodeLayerData(node *xmlData, width, height int) ([]uint32, error) {
	switch node.Encoding {
	case "csv":
		return decodeCSVData(node.Raw, width, height)
	case "base64":
		return decodeBase64Data(node, width, height)
	case "":
		if len(node.Tiles) != width*height {
			return nil, fmt.Errorf("%w: %v tile elements for %vx%v grid",
				ErrInvalidDataLength, len(node.Tiles), width, height)
		}
		values := make([]uint32, len(node.Tiles))
		for i, tile := range node.Tiles {
			values[i] = tile.GID
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, node.Encoding)
	}
}

func decodeCSVData(raw []byte, width, height int) ([]uint32, error) {
	fields := strings.Split(string(bytes.TrimSpace(raw)), ",")
	if len(fields) != width*height {
		return nil, fmt.Errorf("%w: %v csv values for %vx%v grid",
			ErrInvalidDataLength, len(fields), width, height)
	}
	values := make([]uint32, len(fields))
	for i, field := range fields {
		value, err := strconv.ParseUint(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("tmx: invalid csv gid %q: %w", field, err)
		}
		values[i] = uint32(value)
	}
	return values, nil
}

func decodeBase64Data(node *xmlData, width, height int) ([]uint32, error) {
	encoded := bytes.TrimSpace(node.Raw)
	decoded, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("tmx: invalid base64 layer data: %w", err)
	}

	data, err := decompress(decoded, node.Compression)
	if err != nil {
		return nil, err
	}

	if len(data) != width*height*4 {
		return nil, fmt.Errorf("%w: %v bytes for %vx%v grid",
			ErrInvalidDataLength, len(data), width, height)
	}
	values := make([]uint32, width*height)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return values, nil
}

func decompress(data []byte, compression string) ([]byte, error) {
	switch compression {
	case "":
		return data, nil
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("tmx: failed to decompress: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case "zlib":
		reader, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("tmx: failed to decompress: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	case "zstd":
		reader, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("tmx: failed to decompress: %w", err)
		}
		defer reader.Close()
		return io.ReadAll(reader)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, compression)
	}
}

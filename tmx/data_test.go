package tmx

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zstd"
)

func packWords(values []uint32) []byte {
	data := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return data
}

func TestDecodeLayerDataCSV(t *testing.T) {
	node := &xmlData{
		Encoding: "csv",
		Raw:      []byte("\n1,2,3,\n0,2147483650,6\n"),
	}
	got, err := decodeLayerData(node, 3, 2)
	if err != nil {
		t.Fatalf("decodeLayerData failed: %v", err)
	}
	want := []uint32{1, 2, 3, 0, 2147483650, 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeLayerData mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeLayerDataTileElements(t *testing.T) {
	node := &xmlData{
		Tiles: []xmlDataTile{{GID: 1}, {GID: 0}, {GID: 7}, {GID: 2}},
	}
	got, err := decodeLayerData(node, 2, 2)
	if err != nil {
		t.Fatalf("decodeLayerData failed: %v", err)
	}
	if diff := cmp.Diff([]uint32{1, 0, 7, 2}, got); diff != "" {
		t.Errorf("decodeLayerData mismatch (-want+got):\n%v", diff)
	}
}

func TestDecodeLayerDataBase64(t *testing.T) {
	values := []uint32{1, 2, 0, 2147483650, 5, 6}
	raw := packWords(values)

	compress := map[string]func([]byte) []byte{
		"": func(data []byte) []byte { return data },
		"gzip": func(data []byte) []byte {
			var buffer bytes.Buffer
			w := gzip.NewWriter(&buffer)
			w.Write(data)
			w.Close()
			return buffer.Bytes()
		},
		"zlib": func(data []byte) []byte {
			var buffer bytes.Buffer
			w := zlib.NewWriter(&buffer)
			w.Write(data)
			w.Close()
			return buffer.Bytes()
		},
		"zstd": func(data []byte) []byte {
			var buffer bytes.Buffer
			w, _ := zstd.NewWriter(&buffer)
			w.Write(data)
			w.Close()
			return buffer.Bytes()
		},
	}

	for compression, fn := range compress {
		name := compression
		if name == "" {
			name = "none"
		}
		t.Run(name, func(t *testing.T) {
			node := &xmlData{
				Encoding:    "base64",
				Compression: compression,
				Raw:         []byte("\n " + base64.StdEncoding.EncodeToString(fn(raw)) + " \n"),
			}
			got, err := decodeLayerData(node, 3, 2)
			if err != nil {
				t.Fatalf("decodeLayerData failed: %v", err)
			}
			if diff := cmp.Diff(values, got); diff != "" {
				t.Errorf("decodeLayerData mismatch (-want+got):\n%v", diff)
			}
		})
	}
}

func TestDecodeLayerDataErrors(t *testing.T) {
	cases := []struct {
		Name string
		Node xmlData
		Want error
	}{
		{
			Name: "BadEncoding",
			Node: xmlData{Encoding: "base85", Raw: []byte("x")},
			Want: ErrUnsupportedEncoding,
		},
		{
			Name: "BadCompression",
			Node: xmlData{
				Encoding:    "base64",
				Compression: "lzma",
				Raw:         []byte(base64.StdEncoding.EncodeToString(packWords([]uint32{1}))),
			},
			Want: ErrUnsupportedCompression,
		},
		{
			Name: "ShortData",
			Node: xmlData{
				Encoding: "base64",
				Raw:      []byte(base64.StdEncoding.EncodeToString(packWords([]uint32{1, 2}))),
			},
			Want: ErrInvalidDataLength,
		},
		{
			Name: "ShortCSV",
			Node: xmlData{Encoding: "csv", Raw: []byte("1,2,3")},
			Want: ErrInvalidDataLength,
		},
	}
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := decodeLayerData(&tc.Node, 2, 2)
			if !errors.Is(err, tc.Want) {
				t.Errorf("decodeLayerData error = %v, want %v", err, tc.Want)
			}
		})
	}
}

package storage

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Compression schemes for cached documents. The scheme byte prefixes each
// stored value.
const (
	CompressNone byte = 0
	CompressGZIP byte = 1
)

// MaxDocumentSize bounds a decompressed document.
const MaxDocumentSize = 16 << 20

// compressThreshold is the size above which documents are gzipped.
const compressThreshold = 512

// Compress encodes data with the given scheme.
func Compress(data []byte, scheme byte) ([]byte, error) {
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressGZIP:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrUnsupportedCompression
	}
}

// Decompress decodes data with the given scheme.
func Decompress(data []byte, scheme byte) ([]byte, error) {
	switch scheme {
	case CompressNone:
		return data, nil
	case CompressGZIP:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		out, err := io.ReadAll(io.LimitReader(r, MaxDocumentSize+1))
		if err != nil {
			return nil, err
		}
		if len(out) > MaxDocumentSize {
			return nil, ErrDecompressedTooLarge
		}
		return out, nil
	default:
		return nil, ErrUnsupportedCompression
	}
}

// encodeValue prefixes data with its scheme, gzipping large documents.
func encodeValue(data []byte) ([]byte, error) {
	scheme := CompressNone
	if len(data) > compressThreshold {
		scheme = CompressGZIP
	}
	body, err := Compress(data, scheme)
	if err != nil {
		return nil, err
	}
	return append([]byte{scheme}, body...), nil
}

func decodeValue(v []byte) ([]byte, error) {
	if len(v) == 0 {
		return nil, ErrEmptyContent
	}
	return Decompress(v[1:], v[0])
}

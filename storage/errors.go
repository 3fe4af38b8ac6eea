package storage

import "errors"

var (
	// ErrNotFound indicates no document exists for the given CID.
	ErrNotFound = errors.New("storage: content not found")

	// ErrInvalidCID indicates a malformed content identifier.
	ErrInvalidCID = errors.New("storage: invalid CID")

	// ErrIOFailure indicates a cache read/write error.
	ErrIOFailure = errors.New("storage: I/O failure")

	// ErrEmptyContent indicates an attempt to cache empty content.
	ErrEmptyContent = errors.New("storage: content is empty")

	// ErrNotJSON indicates fetched content is not a JSON document.
	ErrNotJSON = errors.New("storage: content is not JSON")

	// ErrUnsupportedCompression indicates an unsupported compression scheme.
	ErrUnsupportedCompression = errors.New("storage: unsupported compression scheme")

	// ErrDecompressedTooLarge indicates decompressed data exceeds the safety limit.
	ErrDecompressedTooLarge = errors.New("storage: decompressed data exceeds maximum size")
)

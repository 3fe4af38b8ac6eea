package slp

import "errors"

var (
	// ErrInvalidTicker indicates the ticker is not valid UTF-8 or contains control characters.
	ErrInvalidTicker = errors.New("slp: invalid ticker")

	// ErrInvalidDecimals indicates decimals is non-numeric or outside 0-9.
	ErrInvalidDecimals = errors.New("slp: invalid decimals")

	// ErrInvalidQuantity indicates a quantity is non-numeric, negative, too precise or overflows 64 bits.
	ErrInvalidQuantity = errors.New("slp: invalid quantity")

	// ErrEncoding indicates a field value violates the protocol's format constraints.
	ErrEncoding = errors.New("slp: encoding error")

	// ErrNotSLP indicates a script is not an SLP OP_RETURN.
	ErrNotSLP = errors.New("slp: not an SLP script")

	// ErrUnknownPayload indicates an unrecognized payload variant.
	ErrUnknownPayload = errors.New("slp: unknown payload")
)

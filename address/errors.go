package address

import "errors"

var (
	// ErrInvalidAddress indicates the string is neither a valid cashaddr nor a legacy address.
	ErrInvalidAddress = errors.New("address: invalid address")

	// ErrUnsupportedType indicates an address type other than P2PKH or P2SH.
	ErrUnsupportedType = errors.New("address: unsupported address type")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("address: invalid network")
)

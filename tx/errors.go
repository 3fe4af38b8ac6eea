package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates no usable funding coin or a draft that cannot cover its outputs and fee.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrNegativeChange indicates inputs are smaller than outputs plus fee.
	ErrNegativeChange = errors.New("tx: negative change")

	// ErrInsufficientTokens indicates the wallet holds too few tokens of the requested id.
	ErrInsufficientTokens = errors.New("tx: insufficient tokens")

	// ErrBatonNotFound indicates no mint baton for the token id exists in the snapshot.
	ErrBatonNotFound = errors.New("tx: mint baton not found")

	// ErrGroupTokenNotFound indicates no group token coin for the token id exists in the snapshot.
	ErrGroupTokenNotFound = errors.New("tx: group token not found")

	// ErrSigningFailed indicates transaction signing failed.
	ErrSigningFailed = errors.New("tx: signing failed")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")

	// ErrDustOutput indicates a spendable output below the dust limit.
	ErrDustOutput = errors.New("tx: output below dust limit")

	// ErrInvalidParams indicates invalid parameters were provided.
	ErrInvalidParams = errors.New("tx: invalid parameters")
)

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrBroadcastAfterSign indicates the transaction was built and signed
	// but the broadcast failed. The signed hex is kept in *BroadcastError.
	ErrBroadcastAfterSign = errors.New("engine: broadcast failed after signing")

	// ErrWalletBusy indicates another action holds the wallet lock.
	ErrWalletBusy = errors.New("engine: wallet is busy")

	// ErrNotConfigured indicates a required collaborator is nil.
	ErrNotConfigured = errors.New("engine: not configured")
)

// BroadcastError carries a signed transaction whose broadcast failed, so the
// caller can retry or publish it elsewhere.
type BroadcastError struct {
	TxID string
	Hex  string
	Err  error
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("%s: txid %s: %v", ErrBroadcastAfterSign, e.TxID, e.Err)
}

func (e *BroadcastError) Unwrap() []error {
	return []error{ErrBroadcastAfterSign, e.Err}
}

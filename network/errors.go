package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the node or wallet service.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the node rejected the RPC credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrTxNotFound indicates the requested transaction does not exist.
	ErrTxNotFound = errors.New("network: transaction not found")

	// ErrBroadcastRejected indicates the node or service rejected the broadcast transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrServiceError indicates the wallet service answered with success=false.
	ErrServiceError = errors.New("network: service error")

	// ErrContentNotFound indicates a CID could not be resolved to JSON.
	ErrContentNotFound = errors.New("network: content not found")
)

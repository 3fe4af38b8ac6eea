// Package action turns validated token actions into signed transactions.
//
// Every builder runs the same pipeline against an immutable wallet snapshot:
// validate, fund, encode, assemble. Broadcasting is left to the caller.
package action

import (
	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libslp-go/slp"
)

// Spec is a closed set of token actions.
type Spec interface {
	spec()
}

// CreateFungible issues a new Type 1 token.
type CreateFungible struct {
	Name         string
	Ticker       string
	DocumentURL  string
	DocumentHash []byte
	Decimals     uint8
	Quantity     uint64 // base units
	Baton        bool   // keep a mint baton at output 2
}

// CreateGroup issues an NFT group token. Group tokens always keep a baton.
type CreateGroup struct {
	Name         string
	Ticker       string
	DocumentURL  string
	DocumentHash []byte
	Quantity     uint64
}

// CreateNFT burns one group token to issue a child NFT.
type CreateNFT struct {
	Name         string
	Ticker       string
	DocumentURL  string
	DocumentHash []byte
	GroupID      string
}

// Mint issues more supply of an existing fungible or group token. Amount is
// in display units; the token's decimals come from the baton coin.
type Mint struct {
	TokenID  string
	Amount   decimal.Decimal
	Receiver BatonReceiver
}

// SendTokens transfers Amount display units of TokenID to Receiver.
type SendTokens struct {
	TokenID  string
	Receiver string
	Amount   decimal.Decimal
}

// SendBCH transfers Satoshis to Receiver.
type SendBCH struct {
	Receiver string
	Satoshis uint64
}

// MutableDataInit creates the mutable data address link for a future genesis.
type MutableDataInit struct {
	Address string
}

// MutableDataUpdate publishes a new CID from the wallet controlling the MDA.
// A nil Writer uses slp.CIDWriter.
type MutableDataUpdate struct {
	CID    string
	Writer slp.MetadataWriter
}

// Sweep moves every plain coin of the snapshot to Receiver.
type Sweep struct {
	Receiver string
}

func (CreateFungible) spec()    {}
func (CreateGroup) spec()       {}
func (CreateNFT) spec()         {}
func (Mint) spec()              {}
func (SendTokens) spec()        {}
func (SendBCH) spec()           {}
func (MutableDataInit) spec()   {}
func (MutableDataUpdate) spec() {}
func (Sweep) spec()             {}

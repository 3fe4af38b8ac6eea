package network

import (
	"context"
	"encoding/json"

	"github.com/bitfsorg/libslp-go/tx"
)

// UTXOSource lists the coins of an address with their SLP annotations.
type UTXOSource interface {
	ListCoins(ctx context.Context, address string) ([]*tx.Coin, error)
}

// Broadcaster submits a signed transaction and returns its txid.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, rawTxHex string) (string, error)
}

// TokenDataSource looks up token genesis data and metadata URIs.
type TokenDataSource interface {
	// GetTokenData returns the token's genesis data. When withTxHistory is
	// set, GenesisData.Txs carries the token's transaction history.
	GetTokenData(ctx context.Context, tokenID string, withTxHistory bool) (*TokenData, error)
}

// ContentResolver fetches the JSON document stored under an IPFS CID.
type ContentResolver interface {
	ResolveCID(ctx context.Context, cid string) (json.RawMessage, error)
}

// WalletService is everything the engine and the report commands need from
// the network.
type WalletService interface {
	UTXOSource
	Broadcaster
	TokenDataSource
	ContentResolver
}

// UTXO represents an unspent transaction output as seen by a node.
type UTXO struct {
	TxID          string `json:"txid"`
	Vout          uint32 `json:"vout"`
	Amount        uint64 `json:"amount"`
	ScriptPubKey  string `json:"script_pubkey"`
	Address       string `json:"address"`
	Confirmations int64  `json:"confirmations"`
}

// TxStatus represents the confirmation status of a transaction.
type TxStatus struct {
	Confirmed     bool   `json:"confirmed"`
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
	BlockHeight   uint64 `json:"block_height"`
}

// Balance is the satoshi balance of an address.
type Balance struct {
	Confirmed   uint64 `json:"confirmed"`
	Unconfirmed int64  `json:"unconfirmed"`
}

// TokenData is the indexer's view of a token.
type TokenData struct {
	GenesisData   *GenesisData `json:"genesisData"`
	ImmutableData string       `json:"immutableData"`
	MutableData   string       `json:"mutableData"`
}

// GenesisData describes a token as created by its genesis transaction and
// tracked since. Supply figures are base-unit integers encoded as strings.
type GenesisData struct {
	Type                   uint8     `json:"type"`
	Ticker                 string    `json:"ticker"`
	Name                   string    `json:"name"`
	TokenID                string    `json:"tokenId"`
	DocumentURI            string    `json:"documentUri"`
	DocumentHash           string    `json:"documentHash"`
	Decimals               uint8     `json:"decimals"`
	MintBatonIsActive      bool      `json:"mintBatonIsActive"`
	TokensInCirculationStr string    `json:"tokensInCirculationStr"`
	BlockCreated           int64     `json:"blockCreated"`
	TotalBurned            string    `json:"totalBurned"`
	TotalMinted            string    `json:"totalMinted"`
	Txs                    []TokenTx `json:"txs,omitempty"`
}

// TokenTx is one entry of a token's transaction history.
type TokenTx struct {
	TxID   string `json:"txid"`
	Height int64  `json:"height"`
	Type   string `json:"type"`
	Qty    string `json:"qty,omitempty"`
}

package tx

import (
	"fmt"

	"github.com/bitfsorg/libslp-go/slp"
)

// Coin is an unspent output reported by a wallet snapshot.
// Token fields are only meaningful when IsToken is set.
type Coin struct {
	TxID        string        `json:"txid"` // display (reversed) hex
	Vout        uint32        `json:"vout"`
	Value       uint64        `json:"value"` // satoshis
	IsToken     bool          `json:"isToken"`
	TokenID     string        `json:"tokenId,omitempty"`
	TokenType   slp.TokenType `json:"tokenType,omitempty"`
	TokenQty    uint64        `json:"tokenQty,omitempty"` // base units
	IsMintBaton bool          `json:"isMintBaton,omitempty"`
	Decimals    uint8         `json:"decimals,omitempty"`
	Script      []byte        `json:"-"` // locking script; nil means P2PKH of the signing key
}

// Outpoint returns "txid:vout".
func (c *Coin) Outpoint() string {
	return fmt.Sprintf("%s:%d", c.TxID, c.Vout)
}

// IsGroupToken reports whether c carries NFT group tokens (not a baton).
func (c *Coin) IsGroupToken() bool {
	return c.IsToken && !c.IsMintBaton && c.TokenType == slp.TokenTypeNFTGroup
}

// SumValues returns the total satoshi value of coins.
func SumValues(coins []*Coin) uint64 {
	var total uint64
	for _, c := range coins {
		total += c.Value
	}
	return total
}

// Package slp encodes and decodes Simple Ledger Protocol OP_RETURN scripts.
//
// Script layout for token transactions:
//
//	OP_RETURN <"SLP\x00"> <token_type> <tx_type> <fields...>
//
// Every field is a data push. Empty fields are pushed as OP_PUSHDATA1 0x00
// and numeric fields use fixed-width big-endian encodings.
package slp

// TokenType is the SLP token type byte.
type TokenType uint8

const (
	TokenTypeFungible TokenType = 0x01 // Type 1 fungible token
	TokenTypeNFTChild TokenType = 0x41 // NFT1 child (single NFT)
	TokenTypeNFTGroup TokenType = 0x81 // NFT1 group (parent of NFTs)
)

// String returns a short human-readable name.
func (t TokenType) String() string {
	switch t {
	case TokenTypeFungible:
		return "fungible"
	case TokenTypeNFTChild:
		return "nft"
	case TokenTypeNFTGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the supported token types.
func (t TokenType) Valid() bool {
	return t == TokenTypeFungible || t == TokenTypeNFTChild || t == TokenTypeNFTGroup
}

const (
	// MaxDecimals is the largest decimals value the protocol allows.
	MaxDecimals = 9

	// MintBatonVout is the output index used for a re-emitted mint baton.
	MintBatonVout = 2

	// MaxSendOutputs is the maximum number of quantities in a SEND.
	MaxSendOutputs = 19

	// MaxScriptSize is the standard relay limit for an OP_RETURN script.
	MaxScriptSize = 223

	// TokenIDLen is the length of a token id (the genesis txid).
	TokenIDLen = 32

	// DocumentHashLen is the length of a non-empty document hash.
	DocumentHashLen = 32
)

// Protocol constants.
var (
	LokadID = []byte{'S', 'L', 'P', 0x00}

	txTypeGenesis = []byte("GENESIS")
	txTypeMint    = []byte("MINT")
	txTypeSend    = []byte("SEND")
)

// Payload is a closed set of OP_RETURN payload variants.
type Payload interface {
	payload()
}

// Genesis creates a new token.
type Genesis struct {
	TokenType    TokenType
	Ticker       string
	Name         string
	DocumentURL  string
	DocumentHash []byte // empty or 32 bytes
	Decimals     uint8
	BatonVout    uint8  // 0 for no baton (fixed supply)
	Quantity     uint64 // base units
}

// Mint issues additional supply by spending a mint baton.
type Mint struct {
	TokenType    TokenType
	TokenID      string // 64 hex characters
	Quantity     uint64 // base units
	DestroyBaton bool
}

// Send transfers token quantities to outputs 1..n.
type Send struct {
	TokenType  TokenType
	TokenID    string
	Quantities []uint64
}

// MutableDataLink binds a mutable data address to a future genesis document hash.
type MutableDataLink struct {
	Address string
}

// MutableDataUpdate publishes a new content identifier for a token's mutable data.
type MutableDataUpdate struct {
	CID string
}

func (Genesis) payload()           {}
func (Mint) payload()              {}
func (Send) payload()              {}
func (MutableDataLink) payload()   {}
func (MutableDataUpdate) payload() {}

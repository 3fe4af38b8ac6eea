package slp

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bsv-blockchain/go-sdk/script"

	"github.com/bitfsorg/libslp-go/address"
)

// Encoder turns payloads into OP_RETURN scripts. Writer handles
// MutableDataUpdate payloads; a nil Writer uses CIDWriter with the wall clock.
type Encoder struct {
	Writer MetadataWriter
}

// NewEncoder creates an Encoder with the given metadata writer.
func NewEncoder(w MetadataWriter) *Encoder {
	return &Encoder{Writer: w}
}

// Encode dispatches on the payload variant.
func (e *Encoder) Encode(p Payload) ([]byte, error) {
	switch v := p.(type) {
	case Genesis:
		return EncodeGenesis(v)
	case Mint:
		return EncodeMint(v)
	case Send:
		return EncodeSend(v)
	case MutableDataLink:
		return EncodeMutableDataLink(v.Address)
	case MutableDataUpdate:
		w := e.Writer
		if w == nil {
			w = CIDWriter{Now: time.Now}
		}
		return EncodeMutableDataUpdate(w, v.CID)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownPayload, p)
	}
}

// Encode encodes p with a default Encoder.
func Encode(p Payload) ([]byte, error) {
	return (&Encoder{}).Encode(p)
}

// EncodeGenesis builds a GENESIS script.
//
//	OP_RETURN <lokad> <type> "GENESIS" <ticker> <name> <url> <hash>
//	          <decimals:1> <baton_vout:0|1> <quantity:8>
func EncodeGenesis(g Genesis) ([]byte, error) {
	if !g.TokenType.Valid() {
		return nil, fmt.Errorf("%w: token type 0x%02x", ErrEncoding, byte(g.TokenType))
	}
	if err := ValidateTicker(g.Ticker); err != nil {
		return nil, err
	}
	if !utf8.ValidString(g.Name) || !utf8.ValidString(g.DocumentURL) {
		return nil, fmt.Errorf("%w: name and document URL must be UTF-8", ErrEncoding)
	}
	if g.Decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidDecimals, g.Decimals, MaxDecimals)
	}
	if n := len(g.DocumentHash); n != 0 && n != DocumentHashLen {
		return nil, fmt.Errorf("%w: document hash must be 0 or %d bytes, got %d", ErrEncoding, DocumentHashLen, n)
	}
	if g.BatonVout == 1 {
		return nil, fmt.Errorf("%w: mint baton cannot be output 1", ErrEncoding)
	}
	if g.TokenType == TokenTypeNFTChild && (g.Decimals != 0 || g.BatonVout != 0 || g.Quantity != 1) {
		return nil, fmt.Errorf("%w: NFT child genesis requires decimals 0, no baton and quantity 1", ErrEncoding)
	}

	b := newScriptBuilder()
	b.push(LokadID)
	b.push([]byte{byte(g.TokenType)})
	b.push(txTypeGenesis)
	b.push([]byte(g.Ticker))
	b.push([]byte(g.Name))
	b.push([]byte(g.DocumentURL))
	b.push(g.DocumentHash)
	b.push([]byte{g.Decimals})
	b.push(batonField(g.BatonVout))
	b.push(uint64Field(g.Quantity))
	return b.finish()
}

// EncodeMint builds a MINT script. Only fungible and group tokens have batons.
//
//	OP_RETURN <lokad> <type> "MINT" <token_id:32> <baton_vout:0|1> <quantity:8>
func EncodeMint(m Mint) ([]byte, error) {
	if m.TokenType != TokenTypeFungible && m.TokenType != TokenTypeNFTGroup {
		return nil, fmt.Errorf("%w: token type %s cannot be minted", ErrEncoding, m.TokenType)
	}
	tokenID, err := DecodeTokenID(m.TokenID)
	if err != nil {
		return nil, err
	}

	var baton uint8 = MintBatonVout
	if m.DestroyBaton {
		baton = 0
	}

	b := newScriptBuilder()
	b.push(LokadID)
	b.push([]byte{byte(m.TokenType)})
	b.push(txTypeMint)
	b.push(tokenID)
	b.push(batonField(baton))
	b.push(uint64Field(m.Quantity))
	return b.finish()
}

// EncodeSend builds a SEND script. Quantities map to outputs 1..n in order.
//
//	OP_RETURN <lokad> <type> "SEND" <token_id:32> <quantity:8>...
func EncodeSend(s Send) ([]byte, error) {
	if !s.TokenType.Valid() {
		return nil, fmt.Errorf("%w: token type 0x%02x", ErrEncoding, byte(s.TokenType))
	}
	if len(s.Quantities) == 0 || len(s.Quantities) > MaxSendOutputs {
		return nil, fmt.Errorf("%w: send needs 1-%d outputs, got %d", ErrEncoding, MaxSendOutputs, len(s.Quantities))
	}
	tokenID, err := DecodeTokenID(s.TokenID)
	if err != nil {
		return nil, err
	}

	b := newScriptBuilder()
	b.push(LokadID)
	b.push([]byte{byte(s.TokenType)})
	b.push(txTypeSend)
	b.push(tokenID)
	for _, q := range s.Quantities {
		b.push(uint64Field(q))
	}
	return b.finish()
}

// mdaRecord is the JSON body of a mutable data link.
type mdaRecord struct {
	MDA string `json:"mda"`
}

// EncodeMutableDataLink builds OP_RETURN <{"mda":"<addr>"}>.
func EncodeMutableDataLink(addr string) ([]byte, error) {
	if _, err := address.Decode(addr); err != nil {
		return nil, fmt.Errorf("%w: mutable data address: %w", ErrEncoding, err)
	}
	body, err := json.Marshal(mdaRecord{MDA: addr})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	b := newScriptBuilder()
	b.push(body)
	return b.finish()
}

// EncodeMutableDataUpdate asks w for the update script of cid.
func EncodeMutableDataUpdate(w MetadataWriter, cid string) ([]byte, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: metadata writer", ErrEncoding)
	}
	return w.WriteCID(cid)
}

// DecodeTokenID parses a 64-character hex token id.
func DecodeTokenID(id string) ([]byte, error) {
	raw, err := hex.DecodeString(id)
	if err != nil || len(raw) != TokenIDLen {
		return nil, fmt.Errorf("%w: token id must be %d hex bytes", ErrEncoding, TokenIDLen)
	}
	return raw, nil
}

// DecodeDocumentHash parses an empty or 64-character hex document hash.
func DecodeDocumentHash(h string) ([]byte, error) {
	if h == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(h)
	if err != nil || len(raw) != DocumentHashLen {
		return nil, fmt.Errorf("%w: document hash must be %d hex bytes", ErrEncoding, DocumentHashLen)
	}
	return raw, nil
}

// ValidateTicker rejects tickers that are not UTF-8 or carry control
// characters.
func ValidateTicker(ticker string) error {
	if !utf8.ValidString(ticker) {
		return fmt.Errorf("%w: not UTF-8", ErrInvalidTicker)
	}
	for _, r := range ticker {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrInvalidTicker, ticker)
		}
	}
	return nil
}

func batonField(vout uint8) []byte {
	if vout == 0 {
		return nil
	}
	return []byte{vout}
}

func uint64Field(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// scriptBuilder accumulates an OP_RETURN script using SLP push rules.
type scriptBuilder struct {
	buf []byte
}

func newScriptBuilder() *scriptBuilder {
	return &scriptBuilder{buf: []byte{script.OpRETURN}}
}

func (b *scriptBuilder) push(data []byte) {
	b.buf = append(b.buf, pushPrefix(len(data))...)
	b.buf = append(b.buf, data...)
}

func (b *scriptBuilder) finish() ([]byte, error) {
	if len(b.buf) > MaxScriptSize {
		return nil, fmt.Errorf("%w: script is %d bytes, limit %d", ErrEncoding, len(b.buf), MaxScriptSize)
	}
	return b.buf, nil
}

// pushPrefix returns the opcode bytes that precede an n-byte push.
// SLP forbids OP_0 for empty fields, so those become OP_PUSHDATA1 0x00.
func pushPrefix(n int) []byte {
	switch {
	case n == 0:
		return []byte{script.OpPUSHDATA1, 0x00}
	case n <= 75:
		return []byte{byte(n)}
	case n <= 0xff:
		return []byte{script.OpPUSHDATA1, byte(n)}
	default:
		return []byte{script.OpPUSHDATA2, byte(n), byte(n >> 8)}
	}
}

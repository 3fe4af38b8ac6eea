package slp

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTokenID = "f2a4b3c1d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// --- GENESIS ---

func TestEncodeGenesis_Minimal(t *testing.T) {
	s, err := EncodeGenesis(Genesis{
		TokenType: TokenTypeFungible,
		Ticker:    "TST",
		Name:      "test",
		Quantity:  1,
	})
	require.NoError(t, err)

	want := "6a" +
		"04534c5000" + // lokad
		"0101" + // token type
		"0747454e45534953" + // GENESIS
		"03545354" + // ticker
		"0474657374" + // name
		"4c00" + // url
		"4c00" + // hash
		"0100" + // decimals
		"4c00" + // no baton
		"080000000000000001" // quantity
	assert.Equal(t, want, hex.EncodeToString(s))
}

func TestEncodeGenesis_WithBatonAndHash(t *testing.T) {
	hash := strings.Repeat("7a", 32)
	docHash, err := DecodeDocumentHash(hash)
	require.NoError(t, err)

	s, err := EncodeGenesis(Genesis{
		TokenType:    TokenTypeFungible,
		Ticker:       "TST",
		Name:         "test",
		DocumentURL:  "ipfs://x",
		DocumentHash: docHash,
		Decimals:     8,
		BatonVout:    MintBatonVout,
		Quantity:     100_000_000,
	})
	require.NoError(t, err)

	p, err := Decode(s)
	require.NoError(t, err)
	g := p.(Genesis)
	assert.Equal(t, "ipfs://x", g.DocumentURL)
	assert.Equal(t, docHash, g.DocumentHash)
	assert.Equal(t, uint8(8), g.Decimals)
	assert.Equal(t, uint8(2), g.BatonVout)
	assert.Equal(t, uint64(100_000_000), g.Quantity)
	assert.Contains(t, hex.EncodeToString(s), "0102"+"080000000005f5e100")
}

func TestEncodeGenesis_GroupType(t *testing.T) {
	s, err := EncodeGenesis(Genesis{TokenType: TokenTypeNFTGroup, Ticker: "GRP", Name: "group", BatonVout: 2, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, "6a04534c50000181", hex.EncodeToString(s[:8]))
}

func TestEncodeGenesis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		g       Genesis
		wantErr error
	}{
		{"bad type", Genesis{TokenType: 0x02, Ticker: "T"}, ErrEncoding},
		{"control char ticker", Genesis{TokenType: TokenTypeFungible, Ticker: "T\x00T"}, ErrInvalidTicker},
		{"invalid utf8 ticker", Genesis{TokenType: TokenTypeFungible, Ticker: "\xff"}, ErrInvalidTicker},
		{"decimals", Genesis{TokenType: TokenTypeFungible, Ticker: "T", Decimals: 10}, ErrInvalidDecimals},
		{"short hash", Genesis{TokenType: TokenTypeFungible, Ticker: "T", DocumentHash: []byte{1, 2}}, ErrEncoding},
		{"baton at 1", Genesis{TokenType: TokenTypeFungible, Ticker: "T", BatonVout: 1}, ErrEncoding},
		{"child with quantity", Genesis{TokenType: TokenTypeNFTChild, Ticker: "N", Quantity: 2}, ErrEncoding},
		{"child with baton", Genesis{TokenType: TokenTypeNFTChild, Ticker: "N", Quantity: 1, BatonVout: 2}, ErrEncoding},
		{"too large", Genesis{TokenType: TokenTypeFungible, Ticker: "T", Name: strings.Repeat("n", 200)}, ErrEncoding},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeGenesis(tc.g)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestEncodeGenesis_NFTChild(t *testing.T) {
	s, err := EncodeGenesis(Genesis{TokenType: TokenTypeNFTChild, Ticker: "NFT", Name: "one", Quantity: 1})
	require.NoError(t, err)
	p, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeNFTChild, p.(Genesis).TokenType)
}

// --- MINT ---

func TestEncodeMint_KeepBaton(t *testing.T) {
	s, err := EncodeMint(Mint{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantity: 500})
	require.NoError(t, err)

	want := "6a04534c5000010104" + hex.EncodeToString([]byte("MINT")) +
		"20" + testTokenID +
		"0102" +
		"0800000000000001f4"
	assert.Equal(t, want, hex.EncodeToString(s))
}

func TestEncodeMint_DestroyBaton(t *testing.T) {
	s, err := EncodeMint(Mint{TokenType: TokenTypeNFTGroup, TokenID: testTokenID, Quantity: 1, DestroyBaton: true})
	require.NoError(t, err)

	p, err := Decode(s)
	require.NoError(t, err)
	m := p.(Mint)
	assert.True(t, m.DestroyBaton)
	assert.Equal(t, TokenTypeNFTGroup, m.TokenType)
	assert.Equal(t, testTokenID, m.TokenID)
	assert.Contains(t, hex.EncodeToString(s), testTokenID+"4c00")
}

func TestEncodeMint_TypeAware(t *testing.T) {
	fungible, err := EncodeMint(Mint{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantity: 1})
	require.NoError(t, err)
	group, err := EncodeMint(Mint{TokenType: TokenTypeNFTGroup, TokenID: testTokenID, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), fungible[7])
	assert.Equal(t, byte(0x81), group[7])
	assert.Equal(t, fungible[8:], group[8:])
}

func TestEncodeMint_Errors(t *testing.T) {
	_, err := EncodeMint(Mint{TokenType: TokenTypeNFTChild, TokenID: testTokenID})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = EncodeMint(Mint{TokenType: TokenTypeFungible, TokenID: "abcd"})
	assert.ErrorIs(t, err, ErrEncoding)
}

// --- SEND ---

func TestEncodeSend(t *testing.T) {
	s, err := EncodeSend(Send{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantities: []uint64{10, 5}})
	require.NoError(t, err)

	p, err := Decode(s)
	require.NoError(t, err)
	send := p.(Send)
	assert.Equal(t, []uint64{10, 5}, send.Quantities)
	assert.Equal(t, testTokenID, send.TokenID)
}

func TestEncodeSend_Limits(t *testing.T) {
	_, err := EncodeSend(Send{TokenType: TokenTypeFungible, TokenID: testTokenID})
	assert.ErrorIs(t, err, ErrEncoding)

	_, err = EncodeSend(Send{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantities: make([]uint64, MaxSendOutputs+1)})
	assert.ErrorIs(t, err, ErrEncoding)
}

// --- Mutable data ---

func TestEncodeMutableDataLink(t *testing.T) {
	addr := "bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a"
	s, err := EncodeMutableDataLink(addr)
	require.NoError(t, err)

	body := `{"mda":"` + addr + `"}`
	assert.Equal(t, byte(0x6a), s[0])
	assert.Equal(t, byte(len(body)), s[1])
	assert.Equal(t, body, string(s[2:]))

	p, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, MutableDataLink{Address: addr}, p)
}

func TestEncodeMutableDataLink_InvalidAddress(t *testing.T) {
	_, err := EncodeMutableDataLink("nope")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestCIDWriter(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	w := CIDWriter{Now: func() time.Time { return fixed }}

	s, err := w.WriteCID("bafybeigdyrzt")
	require.NoError(t, err)
	assert.Equal(t, `{"cid":"ipfs://bafybeigdyrzt","ts":1700000000000}`, string(s[2:]))

	again, err := w.WriteCID("ipfs://bafybeigdyrzt")
	require.NoError(t, err)
	assert.Equal(t, s, again)

	_, err = w.WriteCID("  ")
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestEncoder_Dispatch(t *testing.T) {
	fixed := time.UnixMilli(1)
	enc := NewEncoder(CIDWriter{Now: func() time.Time { return fixed }})

	payloads := []Payload{
		Genesis{TokenType: TokenTypeFungible, Ticker: "T", Name: "n", Quantity: 1},
		Mint{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantity: 1},
		Send{TokenType: TokenTypeFungible, TokenID: testTokenID, Quantities: []uint64{1}},
		MutableDataLink{Address: "bitcoincash:qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a"},
		MutableDataUpdate{CID: "bafy"},
	}
	for _, p := range payloads {
		s, err := enc.Encode(p)
		require.NoError(t, err, "%T", p)

		back, err := Decode(s)
		require.NoError(t, err)
		assert.IsType(t, p, back)
	}

	_, err := enc.Encode(nil)
	assert.ErrorIs(t, err, ErrUnknownPayload)
}

// --- Decode errors ---

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		hex  string
	}{
		{"empty", ""},
		{"not op_return", "76a9"},
		{"truncated", "6a05534c"},
		{"unknown tx type", "6a04534c50000101045445535400"},
		{"opcode", "6a51"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tc.hex))
			assert.Error(t, err)
		})
	}
}

// --- Quantities ---

func TestParseDecimals(t *testing.T) {
	tests := []struct {
		in      string
		want    uint8
		wantErr bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"9", 9, false},
		{"10", 0, true},
		{"-1", 0, true},
		{"two", 0, true},
		{"1.5", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseDecimals(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidDecimals, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in       string
		decimals uint8
		want     uint64
		wantErr  bool
	}{
		{"1", 0, 1, false},
		{"100", 2, 10000, false},
		{"1.5", 2, 150, false},
		{"0.00000001", 8, 1, false},
		{"18446744073709551615", 0, 18446744073709551615, false},
		{"18446744073709551616", 0, 0, true},
		{"1.234", 2, 0, true},
		{"-1", 0, 0, true},
		{"abc", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, tc := range tests {
		got, err := ParseQuantity(tc.in, tc.decimals)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidQuantity, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "1.5", FormatQuantity(150, 2))
	assert.Equal(t, "100", FormatQuantity(100, 0))
	assert.Equal(t, "0.00000001", FormatQuantity(1, 8))
}

func TestStripIPFSScheme(t *testing.T) {
	cid, ok := StripIPFSScheme("ipfs://bafy")
	assert.True(t, ok)
	assert.Equal(t, "bafy", cid)

	_, ok = StripIPFSScheme("https://example.com")
	assert.False(t, ok)
}

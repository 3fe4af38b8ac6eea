package action

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libslp-go/slp"
)

func TestCreateFungibleFlags_Parse(t *testing.T) {
	valid := CreateFungibleFlags{WalletName: "w", TokenName: "Test", Ticker: "TST", Decimals: "0", Qty: "100"}

	tests := []struct {
		name    string
		mutate  func(f *CreateFungibleFlags)
		wantMsg string
		wantErr error
	}{
		{"missing wallet", func(f *CreateFungibleFlags) { f.WalletName = "" }, msgWalletName, nil},
		{"missing name", func(f *CreateFungibleFlags) { f.TokenName = "" }, msgTokenName, nil},
		{"missing ticker", func(f *CreateFungibleFlags) { f.Ticker = "" }, msgTicker, nil},
		{"missing decimals", func(f *CreateFungibleFlags) { f.Decimals = "" }, msgDecimals, slp.ErrInvalidDecimals},
		{"decimals too large", func(f *CreateFungibleFlags) { f.Decimals = "10" }, msgDecimals, slp.ErrInvalidDecimals},
		{"missing qty", func(f *CreateFungibleFlags) { f.Qty = "" }, msgQty, slp.ErrInvalidQuantity},
		{"qty too precise", func(f *CreateFungibleFlags) { f.Qty = "1.5" }, msgQty, slp.ErrInvalidQuantity},
		{"short hash", func(f *CreateFungibleFlags) { f.Hash = "abcd" }, msgDocumentHash, slp.ErrEncoding},
		{"control char ticker", func(f *CreateFungibleFlags) { f.Ticker = "T\x01" }, msgTicker, slp.ErrInvalidTicker},
		{"oversized url", func(f *CreateFungibleFlags) { f.URL = strings.Repeat("u", 200) }, msgMetadata, slp.ErrEncoding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			_, err := f.Parse()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	spec, err := valid.Parse()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), spec.Quantity)
	assert.Nil(t, spec.DocumentHash)
	assert.False(t, spec.Baton)
}

func TestCreateGroupFlags_DefaultQty(t *testing.T) {
	spec, err := CreateGroupFlags{WalletName: "w", TokenName: "G", Ticker: "G"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), spec.Quantity)

	spec, err = CreateGroupFlags{WalletName: "w", TokenName: "G", Ticker: "G", Qty: "25"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, uint64(25), spec.Quantity)

	_, err = CreateGroupFlags{WalletName: "w", TokenName: "G", Ticker: "G", Qty: "2.5"}.Parse()
	assert.EqualError(t, err, msgQty)
}

func TestCreateNFTFlags_Parse(t *testing.T) {
	_, err := CreateNFTFlags{WalletName: "w", TokenName: "N", Ticker: "N"}.Parse()
	assert.EqualError(t, err, msgGroupID)

	_, err = CreateNFTFlags{WalletName: "w", TokenName: "N", Ticker: "N", TokenID: "xyz"}.Parse()
	assert.EqualError(t, err, msgGroupID)
	assert.ErrorIs(t, err, slp.ErrEncoding)

	spec, err := CreateNFTFlags{WalletName: "w", TokenName: "N", Ticker: "N", TokenID: "8CD26481AAED66198E22E05450839FDA763DAADBB9938B0C71521EF43C642299"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, groupID, spec.GroupID)
}

func TestCreateFlags_RejectUnencodableMetadata(t *testing.T) {
	longURL := "https://example.com/" + strings.Repeat("x", 200)

	_, err := CreateGroupFlags{WalletName: "w", TokenName: "G", Ticker: "G\n"}.Parse()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, slp.ErrInvalidTicker)

	_, err = CreateGroupFlags{WalletName: "w", TokenName: "G", Ticker: "G", URL: longURL}.Parse()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, slp.ErrEncoding)
	assert.EqualError(t, err, msgMetadata)

	_, err = CreateNFTFlags{WalletName: "w", TokenName: "N", Ticker: "N\x7f", TokenID: groupID}.Parse()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, slp.ErrInvalidTicker)

	_, err = CreateNFTFlags{WalletName: "w", TokenName: strings.Repeat("n", 220), Ticker: "N", TokenID: groupID}.Parse()
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, slp.ErrEncoding)

	_, err = CreateFungibleFlags{WalletName: "w", TokenName: "T", Ticker: "T", Decimals: "0", Qty: "1", URL: longURL, Baton: true}.Parse()
	assert.EqualError(t, err, msgMetadata)
}

func TestMintFlags_ValidationOrder(t *testing.T) {
	_, err := MintFlags{}.Parse()
	assert.EqualError(t, err, msgWalletName)

	_, err = MintFlags{WalletName: "w"}.Parse()
	assert.EqualError(t, err, msgQty)

	_, err = MintFlags{WalletName: "w", Qty: "-1", TokenID: tokenID}.Parse()
	assert.EqualError(t, err, msgQty)

	_, err = MintFlags{WalletName: "w", Qty: "1"}.Parse()
	assert.EqualError(t, err, msgMintTokenID)

	_, err = MintFlags{WalletName: "w", Qty: "1", TokenID: tokenID, Receiver: "not-an-address"}.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "not-an-address")

	spec, err := MintFlags{WalletName: "w", Qty: "2.5", TokenID: tokenID, Receiver: "null"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, BatonDestroy, spec.Receiver.Mode)
	assert.Equal(t, "2.5", spec.Amount.String())
}

func TestSendTokensFlags_Parse(t *testing.T) {
	addr := newKeyPair(t).CashAddr

	_, err := SendTokensFlags{WalletName: "w"}.Parse()
	assert.EqualError(t, err, msgReceiver)

	_, err = SendTokensFlags{WalletName: "w", Addr: "bitcoincash:qbad"}.Parse()
	assert.EqualError(t, err, msgReceiver)

	_, err = SendTokensFlags{WalletName: "w", Addr: addr, Qty: "0", TokenID: tokenID}.Parse()
	assert.EqualError(t, err, msgSendQty)

	_, err = SendTokensFlags{WalletName: "w", Addr: addr, Qty: "1"}.Parse()
	assert.EqualError(t, err, msgTokenID)

	spec, err := SendTokensFlags{WalletName: "w", Addr: addr, Qty: "1", TokenID: tokenID}.Parse()
	require.NoError(t, err)
	assert.Equal(t, addr, spec.Receiver)

	slpAddr := "simpleledger:qpm2qsznhks23z7629mms6s4cwef74vcwvg3pncxyr"
	spec, err = SendTokensFlags{WalletName: "w", Addr: slpAddr, Qty: "1", TokenID: tokenID}.Parse()
	require.NoError(t, err)
	assert.Equal(t, slpAddr, spec.Receiver)
}

func TestSendBCHFlags_Parse(t *testing.T) {
	addr := newKeyPair(t).CashAddr

	spec, err := SendBCHFlags{WalletName: "w", Addr: addr, Qty: "0.0001"}.Parse()
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), spec.Satoshis)

	_, err = SendBCHFlags{WalletName: "w", Addr: addr, Qty: "0.000000001"}.Parse()
	assert.EqualError(t, err, msgSendQty)

	_, err = SendBCHFlags{WalletName: "w", Addr: addr, Qty: "0"}.Parse()
	assert.EqualError(t, err, msgSendQty)
}

func TestMutableDataFlags_Parse(t *testing.T) {
	_, err := MutableDataInitFlags{WalletName: "w"}.Parse()
	assert.EqualError(t, err, msgMDA)

	_, err = MutableDataUpdateFlags{WalletName: "w", CID: "  "}.Parse()
	assert.EqualError(t, err, msgCID)

	spec, err := MutableDataUpdateFlags{WalletName: "w", CID: " bafy "}.Parse()
	require.NoError(t, err)
	assert.Equal(t, "bafy", spec.CID)
	assert.Nil(t, spec.Writer)
}

func TestSweepFlags_Validate(t *testing.T) {
	assert.EqualError(t, SweepFlags{WIF: "x"}.Validate(), msgWalletName)
	assert.EqualError(t, SweepFlags{WalletName: "w"}.Validate(), msgWIF)
	assert.NoError(t, SweepFlags{WalletName: "w", WIF: "x"}.Validate())
}

func TestValidateTokenID(t *testing.T) {
	assert.EqualError(t, ValidateTokenID(""), msgTokenID)
	assert.ErrorIs(t, ValidateTokenID("abc"), ErrValidation)
	assert.NoError(t, ValidateTokenID(tokenID))
}

func TestParseBatonReceiver(t *testing.T) {
	r, err := ParseBatonReceiver("")
	require.NoError(t, err)
	assert.Equal(t, BatonReturnToSelf, r.Mode)
	assert.Empty(t, r.Address)

	r, err = ParseBatonReceiver("null")
	require.NoError(t, err)
	assert.Equal(t, BatonDestroy, r.Mode)

	addr := newKeyPair(t).CashAddr
	r, err = ParseBatonReceiver(addr)
	require.NoError(t, err)
	assert.Equal(t, BatonRedirect, r.Mode)
	assert.Equal(t, addr, r.Address)
	assert.Equal(t, "redirect", r.Mode.String())

	_, err = ParseBatonReceiver("NULL")
	assert.ErrorIs(t, err, ErrValidation)
}

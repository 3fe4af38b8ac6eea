package action

import (
	"strings"
	"testing"
	"time"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libslp-go/address"
	"github.com/bitfsorg/libslp-go/slp"
	"github.com/bitfsorg/libslp-go/tx"
	"github.com/bitfsorg/libslp-go/wallet"
)

const (
	fundingTxID = "227354c9827f4e3c9ce24dd9197b314f7da8a2224f4874ca11104c8fdc58f684"
	tokenID     = "4de69e374a8ed21cbddd47f2338cc0f479dc58daa2bbe11cd604ca488eca0ddf"
	groupID     = "8cd26481aaed66198e22e05450839fda763daadbb9938b0c71521ef43c642299"
)

func newKeyPair(t *testing.T) *wallet.KeyPair {
	t.Helper()
	priv, err := ec.NewPrivateKey()
	require.NoError(t, err)
	kp, err := wallet.KeyFromWIF(priv.Wif(), nil)
	require.NoError(t, err)
	return kp
}

func newSnapshot(t *testing.T, coins ...*tx.Coin) *wallet.Snapshot {
	t.Helper()
	snap, err := wallet.NewSnapshot(newKeyPair(t), coins)
	require.NoError(t, err)
	return snap
}

func txid(n byte) string {
	return strings.Repeat(string("0123456789abcdef"[n%16]), 64)
}

func plain(n byte, value uint64) *tx.Coin {
	return &tx.Coin{TxID: txid(n), Vout: uint32(n), Value: value}
}

func fungible(n byte, id string, qty uint64, decimals uint8) *tx.Coin {
	return &tx.Coin{
		TxID: txid(n), Vout: 1, Value: tx.DustLimit,
		IsToken: true, TokenID: id, TokenType: slp.TokenTypeFungible, TokenQty: qty, Decimals: decimals,
	}
}

func baton(n byte, id string, tokenType slp.TokenType, decimals uint8) *tx.Coin {
	return &tx.Coin{
		TxID: txid(n), Vout: 2, Value: tx.DustLimit,
		IsToken: true, IsMintBaton: true, TokenID: id, TokenType: tokenType, Decimals: decimals,
	}
}

func groupCoin(n byte, id string, qty uint64) *tx.Coin {
	return &tx.Coin{
		TxID: txid(n), Vout: 1, Value: tx.DustLimit,
		IsToken: true, TokenID: id, TokenType: slp.TokenTypeNFTGroup, TokenQty: qty,
	}
}

func parse(t *testing.T, res *Result) *transaction.Transaction {
	t.Helper()
	parsed, err := transaction.NewTransactionFromHex(res.Hex)
	require.NoError(t, err)
	assert.Equal(t, res.TxID, parsed.TxID().String())
	return parsed
}

func outputScript(parsed *transaction.Transaction, i int) []byte {
	return []byte(*parsed.Outputs[i].LockingScript)
}

// checkInvariants asserts conservation and that every spendable output other
// than change carries at least dust.
func checkInvariants(t *testing.T, parsed *transaction.Transaction, res *Result, inputTotal uint64) {
	t.Helper()
	var out uint64
	for _, o := range parsed.Outputs {
		out += o.Satoshis
	}
	assert.Equal(t, inputTotal, out+res.Fee, "inputs == outputs + fee")
}

func decodeOp(t *testing.T, parsed *transaction.Transaction) slp.Payload {
	t.Helper()
	require.Zero(t, parsed.Outputs[0].Satoshis, "OP_RETURN carries no value")
	p, err := slp.Decode(outputScript(parsed, 0))
	require.NoError(t, err)
	return p
}

func TestCreateFungible_ScenarioA(t *testing.T) {
	snap := newSnapshot(t, &tx.Coin{TxID: fundingTxID, Vout: 3, Value: 577646})

	res, err := Build(CreateFungible{Name: "test", Ticker: "TST", Quantity: 1}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Hex, "02000000"))
	assert.Equal(t, res.TxID, res.TokenID)

	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 3)
	assert.Equal(t, uint64(546), parsed.Outputs[1].Satoshis)
	assert.Equal(t, snap.LockingScript(), outputScript(parsed, 1))
	assert.Equal(t, uint64(576550), parsed.Outputs[2].Satoshis)
	assert.Equal(t, snap.LockingScript(), outputScript(parsed, 2))
	assert.Equal(t, uint64(576550), res.Change)
	checkInvariants(t, parsed, res, 577646)

	g, ok := decodeOp(t, parsed).(slp.Genesis)
	require.True(t, ok)
	assert.Equal(t, slp.TokenTypeFungible, g.TokenType)
	assert.Equal(t, "TST", g.Ticker)
	assert.Equal(t, "test", g.Name)
	assert.Empty(t, g.DocumentURL)
	assert.Empty(t, g.DocumentHash)
	assert.Zero(t, g.BatonVout)
	assert.Equal(t, uint64(1), g.Quantity)
}

func TestCreateFungible_WithBaton(t *testing.T) {
	snap := newSnapshot(t, plain(1, 1000), plain(2, 20000))
	spec, err := CreateFungibleFlags{
		WalletName: "w", TokenName: "Test Token", Ticker: "TT", Decimals: "2", Qty: "12.5",
		URL: "https://example.com", Hash: tokenID, Baton: true,
	}.Parse()
	require.NoError(t, err)

	res, err := Build(spec, snap, tx.Policy{})
	require.NoError(t, err)
	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 4)
	assert.Equal(t, uint64(546), parsed.Outputs[1].Satoshis)
	assert.Equal(t, uint64(546), parsed.Outputs[2].Satoshis)
	checkInvariants(t, parsed, res, 20000)

	// Largest coin funds the genesis.
	assert.Equal(t, txid(2), parsed.Inputs[0].SourceTXID.String())

	g := decodeOp(t, parsed).(slp.Genesis)
	assert.Equal(t, uint8(slp.MintBatonVout), g.BatonVout)
	assert.Equal(t, uint64(1250), g.Quantity)
	assert.Equal(t, uint8(2), g.Decimals)
	assert.Len(t, g.DocumentHash, 32)
}

func TestCreateFungible_ScenarioB(t *testing.T) {
	snap := newSnapshot(t, fungible(1, tokenID, 5, 0))
	_, err := Build(CreateFungible{Name: "test", Ticker: "TST", Quantity: 1}, snap, tx.DefaultPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
}

func TestCreateFungible_InsufficientFundingCoin(t *testing.T) {
	snap := newSnapshot(t, plain(1, 1000))
	_, err := Build(CreateFungible{Name: "test", Ticker: "TST", Quantity: 1, Baton: true}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
	assert.ErrorIs(t, err, tx.ErrNegativeChange)
}

func TestCreateGroup(t *testing.T) {
	snap := newSnapshot(t, plain(1, 10000))
	res, err := Build(CreateGroup{Name: "group", Ticker: "GRP"}, snap, tx.DefaultPolicy())
	require.NoError(t, err)

	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 4)
	checkInvariants(t, parsed, res, 10000)
	assert.Equal(t, uint64(10000-2*546-550), res.Change)

	g := decodeOp(t, parsed).(slp.Genesis)
	assert.Equal(t, slp.TokenTypeNFTGroup, g.TokenType)
	assert.Equal(t, uint8(2), g.BatonVout)
	assert.Equal(t, uint64(1), g.Quantity)
}

func TestCreateNFT(t *testing.T) {
	group := groupCoin(5, groupID, 1)
	snap := newSnapshot(t, plain(1, 10000), group)

	res, err := Build(CreateNFT{Name: "nft", Ticker: "NFT", GroupID: groupID}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	parsed := parse(t, res)
	require.Len(t, parsed.Inputs, 2)
	assert.Equal(t, txid(5), parsed.Inputs[0].SourceTXID.String(), "group token is input 0")
	assert.Equal(t, txid(1), parsed.Inputs[1].SourceTXID.String())
	require.Len(t, parsed.Outputs, 3)
	checkInvariants(t, parsed, res, 10000+546)
	assert.Equal(t, uint64(10000+546-546-550), res.Change)

	g := decodeOp(t, parsed).(slp.Genesis)
	assert.Equal(t, slp.TokenTypeNFTChild, g.TokenType)
	assert.Equal(t, uint64(1), g.Quantity)
	assert.Zero(t, g.BatonVout)
}

func TestCreateNFT_Errors(t *testing.T) {
	t.Run("group missing", func(t *testing.T) {
		snap := newSnapshot(t, plain(1, 10000), fungible(2, groupID, 10, 0))
		_, err := Build(CreateNFT{Name: "nft", Ticker: "NFT", GroupID: groupID}, snap, tx.DefaultPolicy())
		require.Error(t, err)
		assert.ErrorIs(t, err, tx.ErrGroupTokenNotFound)
		assert.Contains(t, err.Error(), "group token with token ID "+groupID)
	})

	t.Run("no funding", func(t *testing.T) {
		snap := newSnapshot(t, groupCoin(2, groupID, 1))
		_, err := Build(CreateNFT{Name: "nft", Ticker: "NFT", GroupID: groupID}, snap, tx.DefaultPolicy())
		assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
	})

	t.Run("large group coin warns", func(t *testing.T) {
		snap := newSnapshot(t, plain(1, 10000), groupCoin(2, groupID, 4))
		res, err := Build(CreateNFT{Name: "nft", Ticker: "NFT", GroupID: groupID}, snap, tx.DefaultPolicy())
		require.NoError(t, err)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "holds 4 tokens")
	})
}

func mintSpec(t *testing.T, qty, receiver string) Mint {
	t.Helper()
	spec, err := MintFlags{WalletName: "w", Qty: qty, TokenID: tokenID, Receiver: receiver}.Parse()
	require.NoError(t, err)
	return spec
}

func TestMint_BatonExclusivity(t *testing.T) {
	other := newKeyPair(t)
	otherScript, err := address.LockingScript(other.CashAddr)
	require.NoError(t, err)

	coins := []*tx.Coin{plain(1, 10000), baton(7, tokenID, slp.TokenTypeFungible, 2)}

	self := newSnapshot(t, coins...)
	resSelf, err := Build(mintSpec(t, "3", ""), self, tx.DefaultPolicy())
	require.NoError(t, err)
	pSelf := parse(t, resSelf)

	resRedirect, err := Build(mintSpec(t, "3", other.CashAddr), self, tx.DefaultPolicy())
	require.NoError(t, err)
	pRedirect := parse(t, resRedirect)

	resDestroy, err := Build(mintSpec(t, "3", "null"), self, tx.DefaultPolicy())
	require.NoError(t, err)
	pDestroy := parse(t, resDestroy)

	// OP_RETURN, tokens, baton, change vs. OP_RETURN, tokens, change.
	require.Len(t, pSelf.Outputs, 4)
	require.Len(t, pRedirect.Outputs, 4)
	require.Len(t, pDestroy.Outputs, 3)

	assert.Equal(t, self.LockingScript(), outputScript(pSelf, 2))
	assert.Equal(t, []byte(*otherScript), outputScript(pRedirect, 2))
	assert.Equal(t, self.LockingScript(), outputScript(pDestroy, 2), "destroy leaves only change after tokens")

	for _, p := range []*transaction.Transaction{pSelf, pRedirect, pDestroy} {
		require.Len(t, p.Inputs, 2)
		assert.Equal(t, txid(1), p.Inputs[0].SourceTXID.String(), "funding is input 0")
		assert.Equal(t, txid(7), p.Inputs[1].SourceTXID.String(), "baton is input 1")
		assert.Equal(t, uint32(2), p.Inputs[1].SourceTxOutIndex)
		assert.Equal(t, uint64(546), p.Outputs[1].Satoshis)
	}
	checkInvariants(t, pSelf, resSelf, 10000+546)
	checkInvariants(t, pDestroy, resDestroy, 10000+546)
	assert.Equal(t, uint64(10000+546-2*546-550), resSelf.Change)
	assert.Equal(t, uint64(10000+546-546-550), resDestroy.Change)

	m := decodeOp(t, pSelf).(slp.Mint)
	assert.False(t, m.DestroyBaton)
	assert.Equal(t, uint64(300), m.Quantity, "display quantity scaled by baton decimals")
	assert.Equal(t, tokenID, m.TokenID)

	m = decodeOp(t, pDestroy).(slp.Mint)
	assert.True(t, m.DestroyBaton)
}

func TestMint_GroupBaton(t *testing.T) {
	snap := newSnapshot(t, plain(1, 10000), baton(7, tokenID, slp.TokenTypeNFTGroup, 0))
	res, err := Build(mintSpec(t, "5", ""), snap, tx.DefaultPolicy())
	require.NoError(t, err)
	m := decodeOp(t, parse(t, res)).(slp.Mint)
	assert.Equal(t, slp.TokenTypeNFTGroup, m.TokenType)
	assert.Equal(t, uint64(5), m.Quantity)
}

func TestMint_ScenarioC(t *testing.T) {
	snap := newSnapshot(t, plain(1, 10000), baton(7, groupID, slp.TokenTypeFungible, 0))
	_, err := Build(mintSpec(t, "1", ""), snap, tx.DefaultPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, tx.ErrBatonNotFound)
	assert.Contains(t, err.Error(), tokenID)
}

func TestMint_TooPrecise(t *testing.T) {
	snap := newSnapshot(t, plain(1, 10000), baton(7, tokenID, slp.TokenTypeFungible, 0))
	_, err := Build(mintSpec(t, "1.5", ""), snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, slp.ErrInvalidQuantity)
}

func TestSendTokens(t *testing.T) {
	receiver := newKeyPair(t)
	recvScript, err := address.LockingScript(receiver.Legacy)
	require.NoError(t, err)

	snap := newSnapshot(t,
		plain(1, 5000),
		fungible(2, tokenID, 700, 2),
		fungible(3, tokenID, 500, 2),
		baton(4, tokenID, slp.TokenTypeFungible, 2),
	)

	spec, err := SendTokensFlags{WalletName: "w", Addr: receiver.Legacy, Qty: "10.5", TokenID: tokenID}.Parse()
	require.NoError(t, err)

	res, err := Build(spec, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	parsed := parse(t, res)

	require.Len(t, parsed.Inputs, 3)
	assert.Equal(t, txid(1), parsed.Inputs[0].SourceTXID.String())
	require.Len(t, parsed.Outputs, 4)
	assert.Equal(t, []byte(*recvScript), outputScript(parsed, 1))
	assert.Equal(t, uint64(546), parsed.Outputs[1].Satoshis)
	assert.Equal(t, snap.LockingScript(), outputScript(parsed, 2))
	assert.Equal(t, uint64(546), parsed.Outputs[2].Satoshis)
	checkInvariants(t, parsed, res, 5000+2*546)

	s := decodeOp(t, parsed).(slp.Send)
	assert.Equal(t, []uint64{1050, 150}, s.Quantities)
	assert.Equal(t, slp.TokenTypeFungible, s.TokenType)
}

func TestSendTokens_ExactAmountNoTokenChange(t *testing.T) {
	receiver := newKeyPair(t)
	snap := newSnapshot(t, plain(1, 5000), fungible(2, tokenID, 100, 0))

	res, err := Build(SendTokens{TokenID: tokenID, Receiver: receiver.CashAddr, Amount: decimal.NewFromInt(100)}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 3)
	s := decodeOp(t, parsed).(slp.Send)
	assert.Equal(t, []uint64{100}, s.Quantities)
}

func TestSendTokens_NFTChild(t *testing.T) {
	receiver := newKeyPair(t)
	nft := &tx.Coin{TxID: txid(2), Vout: 1, Value: 546, IsToken: true, TokenID: tokenID, TokenType: slp.TokenTypeNFTChild, TokenQty: 1}
	snap := newSnapshot(t, plain(1, 5000), nft)

	res, err := Build(SendTokens{TokenID: tokenID, Receiver: receiver.CashAddr, Amount: decimal.NewFromInt(1)}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	s := decodeOp(t, parse(t, res)).(slp.Send)
	assert.Equal(t, slp.TokenTypeNFTChild, s.TokenType)
}

func TestSendTokens_Insufficient(t *testing.T) {
	receiver := newKeyPair(t)
	snap := newSnapshot(t, plain(1, 5000), fungible(2, tokenID, 100, 0))

	_, err := Build(SendTokens{TokenID: tokenID, Receiver: receiver.CashAddr, Amount: decimal.NewFromInt(101)}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, tx.ErrInsufficientTokens)

	_, err = Build(SendTokens{TokenID: groupID, Receiver: receiver.CashAddr, Amount: decimal.NewFromInt(1)}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, tx.ErrInsufficientTokens)
}

func TestSendBCH(t *testing.T) {
	receiver := newKeyPair(t)
	snap := newSnapshot(t, plain(1, 30000), plain(2, 50000), plain(3, 40000), fungible(4, tokenID, 1, 0))

	res, err := Build(SendBCH{Receiver: receiver.CashAddr, Satoshis: 80000}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	parsed := parse(t, res)

	require.Len(t, parsed.Inputs, 2)
	require.Len(t, parsed.Outputs, 2)
	assert.Equal(t, uint64(80000), parsed.Outputs[0].Satoshis)
	assert.GreaterOrEqual(t, res.Fee, uint64(550))
	checkInvariants(t, parsed, res, 90000)

	_, err = Build(SendBCH{Receiver: receiver.CashAddr, Satoshis: 120000}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
}

func TestSendBCH_SubDustRemainderToFee(t *testing.T) {
	receiver := newKeyPair(t)
	snap := newSnapshot(t, plain(1, 10000+550+100))

	res, err := Build(SendBCH{Receiver: receiver.CashAddr, Satoshis: 10000}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 1)
	assert.Equal(t, uint64(650), res.Fee)
	checkInvariants(t, parsed, res, 10650)
}

func TestMutableDataInit(t *testing.T) {
	mda := newKeyPair(t)
	mdaScript, err := address.LockingScript(mda.CashAddr)
	require.NoError(t, err)
	snap := newSnapshot(t, plain(1, 10000))

	spec, err := MutableDataInitFlags{WalletName: "w", MDA: mda.CashAddr}.Parse()
	require.NoError(t, err)
	res, err := Build(spec, snap, tx.DefaultPolicy())
	require.NoError(t, err)

	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 3)
	assert.Equal(t, []byte(*mdaScript), outputScript(parsed, 1))
	assert.Equal(t, uint64(546), parsed.Outputs[1].Satoshis)
	assert.Equal(t, uint64(10000-546-550), parsed.Outputs[2].Satoshis)

	link := decodeOp(t, parsed).(slp.MutableDataLink)
	assert.Equal(t, mda.CashAddr, link.Address)
}

func TestMutableDataUpdate(t *testing.T) {
	snap := newSnapshot(t, plain(1, 10000))
	writer := slp.CIDWriter{Now: func() time.Time { return time.UnixMilli(1700000000000) }}

	res, err := Build(MutableDataUpdate{CID: "bafybeicem27xbzs65qjwnaxbklsuqwcnbaw5hfuiaunm6pnnzmxoum4vhm", Writer: writer}, snap, tx.DefaultPolicy())
	require.NoError(t, err)

	parsed := parse(t, res)
	require.Len(t, parsed.Outputs, 2)
	assert.Equal(t, uint64(10000-550), parsed.Outputs[1].Satoshis)
	upd := decodeOp(t, parsed).(slp.MutableDataUpdate)
	assert.Equal(t, "ipfs://bafybeicem27xbzs65qjwnaxbklsuqwcnbaw5hfuiaunm6pnnzmxoum4vhm", upd.CID)
}

func TestSweep(t *testing.T) {
	receiver := newKeyPair(t)
	snap := newSnapshot(t, plain(1, 3000), plain(2, 4000), fungible(3, tokenID, 9, 0))

	res, err := Build(Sweep{Receiver: receiver.CashAddr}, snap, tx.DefaultPolicy())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "skipped 1 token UTXOs")

	parsed := parse(t, res)
	require.Len(t, parsed.Inputs, 2)
	require.Len(t, parsed.Outputs, 1)
	assert.Equal(t, uint64(7000)-res.Fee, parsed.Outputs[0].Satoshis)
	checkInvariants(t, parsed, res, 7000)

	empty := newSnapshot(t, fungible(3, tokenID, 9, 0))
	_, err = Build(Sweep{Receiver: receiver.CashAddr}, empty, tx.DefaultPolicy())
	assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(CreateFungible{}, nil, tx.DefaultPolicy())
	assert.ErrorIs(t, err, ErrNilSnapshot)

	snap := newSnapshot(t, plain(1, 10000))
	_, err = Build(nil, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, ErrUnknownSpec)

	_, err = Build(CreateFungible{Ticker: "T"}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = Build(CreateFungible{Name: "n", Ticker: "T\x01"}, snap, tx.DefaultPolicy())
	assert.ErrorIs(t, err, slp.ErrInvalidTicker)
}

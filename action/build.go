package action

import (
	"fmt"

	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/slp"
	"github.com/bitfsorg/libslp-go/tx"
	"github.com/bitfsorg/libslp-go/wallet"
)

// Result is a signed transaction ready for broadcast.
type Result struct {
	Hex      string
	TxID     string
	Fee      uint64
	Change   uint64
	TokenID  string   // genesis actions: the new token id (equals TxID)
	Warnings []string // non-fatal notes for the user
}

// Build validates spec against snap and returns the signed transaction.
// A zero policy uses tx.DefaultPolicy values.
func Build(spec Spec, snap *wallet.Snapshot, policy tx.Policy) (*Result, error) {
	if snap == nil || snap.Key == nil {
		return nil, ErrNilSnapshot
	}
	b := &builder{
		snap:   snap,
		policy: policy.Normalized(),
		self:   snap.LockingScript(),
	}

	switch v := spec.(type) {
	case CreateFungible:
		return b.createFungible(v)
	case CreateGroup:
		return b.createGroup(v)
	case CreateNFT:
		return b.createNFT(v)
	case Mint:
		return b.mint(v)
	case SendTokens:
		return b.sendTokens(v)
	case SendBCH:
		return b.sendBCH(v)
	case MutableDataInit:
		return b.mutableDataInit(v)
	case MutableDataUpdate:
		return b.mutableDataUpdate(v)
	case Sweep:
		return b.sweep(v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSpec, spec)
	}
}

type builder struct {
	snap     *wallet.Snapshot
	policy   tx.Policy
	self     []byte
	warnings []string
}

func (b *builder) dustToSelf() *tx.Output {
	return &tx.Output{Script: b.self, Value: b.policy.Dust}
}

func (b *builder) draft(inputs []*tx.Coin, opReturn []byte, outputs ...*tx.Output) *tx.Draft {
	return &tx.Draft{
		Inputs:   inputs,
		OpReturn: opReturn,
		Outputs:  outputs,
		Change:   b.self,
		Fee:      b.policy.Fee,
		Dust:     b.policy.Dust,
	}
}

func (b *builder) finish(name string, d *tx.Draft, genesis bool) (*Result, error) {
	signed, err := d.Assemble(b.snap.Key)
	if err != nil {
		return nil, err
	}
	log.Action.Debug().
		Str("action", name).
		Int("inputs", len(d.Inputs)).
		Int("outputs", len(signed.Tx.Outputs)).
		Uint64("fee", signed.Fee).
		Str("txid", signed.TxID).
		Msg("transaction assembled")

	res := &Result{
		Hex:      signed.Hex,
		TxID:     signed.TxID,
		Fee:      signed.Fee,
		Change:   signed.Change,
		Warnings: b.warnings,
	}
	if genesis {
		res.TokenID = signed.TxID
	}
	return res, nil
}

func checkTokenFields(name, ticker string) error {
	if name == "" {
		return invalid(msgTokenName)
	}
	if ticker == "" {
		return invalid(msgTicker)
	}
	return nil
}

// createFungible: OP_RETURN GENESIS, tokens -> self, [baton -> self], change.
func (b *builder) createFungible(v CreateFungible) (*Result, error) {
	if err := checkTokenFields(v.Name, v.Ticker); err != nil {
		return nil, err
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}

	var batonVout uint8
	outputs := []*tx.Output{b.dustToSelf()}
	if v.Baton {
		batonVout = slp.MintBatonVout
		outputs = append(outputs, b.dustToSelf())
	}

	op, err := slp.EncodeGenesis(slp.Genesis{
		TokenType:    slp.TokenTypeFungible,
		Ticker:       v.Ticker,
		Name:         v.Name,
		DocumentURL:  v.DocumentURL,
		DocumentHash: v.DocumentHash,
		Decimals:     v.Decimals,
		BatonVout:    batonVout,
		Quantity:     v.Quantity,
	})
	if err != nil {
		return nil, err
	}
	return b.finish("create-fungible", b.draft([]*tx.Coin{funding}, op, outputs...), true)
}

// createGroup: OP_RETURN group GENESIS, tokens -> self, baton -> self, change.
func (b *builder) createGroup(v CreateGroup) (*Result, error) {
	if err := checkTokenFields(v.Name, v.Ticker); err != nil {
		return nil, err
	}
	qty := v.Quantity
	if qty == 0 {
		qty = 1
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}

	op, err := slp.EncodeGenesis(slp.Genesis{
		TokenType:    slp.TokenTypeNFTGroup,
		Ticker:       v.Ticker,
		Name:         v.Name,
		DocumentURL:  v.DocumentURL,
		DocumentHash: v.DocumentHash,
		BatonVout:    slp.MintBatonVout,
		Quantity:     qty,
	})
	if err != nil {
		return nil, err
	}
	d := b.draft([]*tx.Coin{funding}, op, b.dustToSelf(), b.dustToSelf())
	return b.finish("create-group", d, true)
}

// createNFT burns a group token at input 0 and issues one child NFT to self.
func (b *builder) createNFT(v CreateNFT) (*Result, error) {
	if err := checkTokenFields(v.Name, v.Ticker); err != nil {
		return nil, err
	}
	group, err := tx.SelectGroupToken(b.snap.Tokens, v.GroupID, 1)
	if err != nil {
		return nil, err
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}
	if group.TokenQty > 1 {
		b.warnings = append(b.warnings, fmt.Sprintf(
			"group UTXO %s holds %d tokens; all of them are consumed by this NFT", group.Outpoint(), group.TokenQty))
	}

	op, err := slp.EncodeGenesis(slp.Genesis{
		TokenType:    slp.TokenTypeNFTChild,
		Ticker:       v.Ticker,
		Name:         v.Name,
		DocumentURL:  v.DocumentURL,
		DocumentHash: v.DocumentHash,
		Quantity:     1,
	})
	if err != nil {
		return nil, err
	}
	d := b.draft([]*tx.Coin{group, funding}, op, b.dustToSelf())
	return b.finish("create-nft", d, true)
}

// mint spends funding (input 0) and the baton (input 1). Outputs: OP_RETURN
// MINT, tokens -> self, then the baton unless it is destroyed.
func (b *builder) mint(v Mint) (*Result, error) {
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}
	baton, err := tx.SelectMintBaton(b.snap.Tokens, v.TokenID)
	if err != nil {
		return nil, err
	}

	qty, err := slp.ParseQuantity(v.Amount.String(), baton.Decimals)
	if err != nil {
		return nil, err
	}
	tokenType := baton.TokenType
	if tokenType == 0 {
		tokenType = slp.TokenTypeFungible
	}

	outputs := []*tx.Output{b.dustToSelf()}
	switch v.Receiver.Mode {
	case BatonReturnToSelf:
		outputs = append(outputs, b.dustToSelf())
	case BatonRedirect:
		out, err := tx.PayTo(v.Receiver.Address, b.policy.Dust)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	case BatonDestroy:
	default:
		return nil, invalid(fmt.Sprintf("unknown baton mode %d", v.Receiver.Mode))
	}

	op, err := slp.EncodeMint(slp.Mint{
		TokenType:    tokenType,
		TokenID:      v.TokenID,
		Quantity:     qty,
		DestroyBaton: v.Receiver.Mode == BatonDestroy,
	})
	if err != nil {
		return nil, err
	}
	d := b.draft([]*tx.Coin{funding, baton}, op, outputs...)
	return b.finish("mint", d, false)
}

// sendTokens: OP_RETURN SEND [amount, rest], tokens -> receiver,
// [token change -> self], change.
func (b *builder) sendTokens(v SendTokens) (*Result, error) {
	var meta *tx.Coin
	for _, c := range b.snap.Tokens {
		if c.TokenID == v.TokenID && !c.IsMintBaton {
			meta = c
			break
		}
	}
	if meta == nil {
		return nil, fmt.Errorf("%w: no tokens with token ID %s in wallet", tx.ErrInsufficientTokens, v.TokenID)
	}

	amount, err := slp.ParseQuantity(v.Amount.String(), meta.Decimals)
	if err != nil {
		return nil, err
	}
	tokenCoins, total, err := tx.SelectTokenCoins(b.snap.Tokens, v.TokenID, amount)
	if err != nil {
		return nil, err
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}

	toReceiver, err := tx.PayTo(v.Receiver, b.policy.Dust)
	if err != nil {
		return nil, err
	}
	quantities := []uint64{amount}
	outputs := []*tx.Output{toReceiver}
	if rest := total - amount; rest > 0 {
		quantities = append(quantities, rest)
		outputs = append(outputs, b.dustToSelf())
	}

	op, err := slp.EncodeSend(slp.Send{
		TokenType:  meta.TokenType,
		TokenID:    v.TokenID,
		Quantities: quantities,
	})
	if err != nil {
		return nil, err
	}

	inputs := append([]*tx.Coin{funding}, tokenCoins...)
	d := b.draft(inputs, op, outputs...)
	d.Fee = b.policy.FeeFor(len(inputs), len(outputs)+1, len(op))
	return b.finish("send-tokens", d, false)
}

// sendBCH funds Satoshis to the receiver from as many plain coins as needed.
func (b *builder) sendBCH(v SendBCH) (*Result, error) {
	out, err := tx.PayTo(v.Receiver, v.Satoshis)
	if err != nil {
		return nil, err
	}

	fee := b.policy.FeeFor(1, 2, 0)
	var inputs []*tx.Coin
	var total uint64
	for {
		inputs, total, err = tx.SelectFundingCoins(b.snap.Plain, v.Satoshis+fee)
		if err != nil {
			return nil, err
		}
		next := b.policy.FeeFor(len(inputs), 2, 0)
		if next <= fee {
			break
		}
		fee = next
	}

	d := b.draft(inputs, nil, out)
	d.Fee = fee
	if change := total - v.Satoshis - fee; change > 0 && change < b.policy.Dust {
		// Sub-dust remainder goes to the miner.
		d.Fee += change
		d.Change = nil
	}
	return b.finish("send-bch", d, false)
}

// mutableDataInit: OP_RETURN {"mda":addr}, dust -> MDA, change.
func (b *builder) mutableDataInit(v MutableDataInit) (*Result, error) {
	if v.Address == "" {
		return nil, invalid(msgMDA)
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}
	op, err := slp.EncodeMutableDataLink(v.Address)
	if err != nil {
		return nil, err
	}
	toMDA, err := tx.PayTo(v.Address, b.policy.Dust)
	if err != nil {
		return nil, err
	}
	return b.finish("mda-init", b.draft([]*tx.Coin{funding}, op, toMDA), false)
}

// mutableDataUpdate: OP_RETURN from the metadata writer, change.
func (b *builder) mutableDataUpdate(v MutableDataUpdate) (*Result, error) {
	if v.CID == "" {
		return nil, invalid(msgCID)
	}
	w := v.Writer
	if w == nil {
		w = slp.CIDWriter{}
	}
	funding, err := tx.SelectFundingCoin(b.snap.Plain)
	if err != nil {
		return nil, err
	}
	op, err := slp.EncodeMutableDataUpdate(w, v.CID)
	if err != nil {
		return nil, err
	}
	return b.finish("mda-update", b.draft([]*tx.Coin{funding}, op), false)
}

// sweep sends every plain coin to the receiver. Token coins stay put.
func (b *builder) sweep(v Sweep) (*Result, error) {
	if len(b.snap.Plain) == 0 {
		return nil, fmt.Errorf("%w: no BCH UTXOs available to sweep", tx.ErrInsufficientFunds)
	}
	if n := len(b.snap.Tokens); n > 0 {
		b.warnings = append(b.warnings, fmt.Sprintf("skipped %d token UTXOs; move them with send-tokens", n))
	}

	inputs := b.snap.Plain
	total := tx.SumValues(inputs)
	fee := b.policy.FeeFor(len(inputs), 1, 0)
	if total < fee+b.policy.Dust {
		return nil, fmt.Errorf("%w: %d sat cannot cover fee %d plus dust", tx.ErrInsufficientFunds, total, fee)
	}
	out, err := tx.PayTo(v.Receiver, total-fee)
	if err != nil {
		return nil, err
	}

	d := b.draft(inputs, nil, out)
	d.Fee = fee
	d.Change = nil
	return b.finish("sweep", d, false)
}

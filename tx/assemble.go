package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	sighash "github.com/bsv-blockchain/go-sdk/transaction/sighash"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/libslp-go/address"
)

// Output is a spendable output of a draft.
type Output struct {
	Script []byte
	Value  uint64
}

// PayTo builds an output paying value to addr (cashaddr or legacy).
func PayTo(addr string, value uint64) (*Output, error) {
	s, err := address.LockingScript(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	return &Output{Script: []byte(*s), Value: value}, nil
}

// Draft is an unsigned transaction layout.
//
//	inputs:  Inputs, in order (signature indices are positional)
//	output 0:     OP_RETURN (value 0), when OpReturn is set
//	output 1..n:  Outputs, in order
//	output n+1:   change -> Change, when the remainder is non-zero
type Draft struct {
	Inputs   []*Coin
	OpReturn []byte
	Outputs  []*Output
	Change   []byte // locking script; nil requires an exact balance
	Fee      uint64
	Dust     uint64 // minimum spendable output; zero uses DustLimit
}

// SignedTx is the result of assembling a draft.
type SignedTx struct {
	Hex    string // lowercase wire hex
	TxID   string // display hex
	Fee    uint64
	Change uint64
	Tx     *transaction.Transaction
}

// ChangeValue returns sum(inputs) - sum(outputs) - fee.
func (d *Draft) ChangeValue() (uint64, error) {
	in := SumValues(d.Inputs)
	var out uint64
	for _, o := range d.Outputs {
		out += o.Value
	}
	if in < out+d.Fee {
		return 0, fmt.Errorf("%w: %w: need %d sat, have %d sat",
			ErrInsufficientFunds, ErrNegativeChange, out+d.Fee, in)
	}
	return in - out - d.Fee, nil
}

func (d *Draft) validate() error {
	if len(d.Inputs) == 0 {
		return fmt.Errorf("%w: draft has no inputs", ErrInvalidParams)
	}
	dust := d.Dust
	if dust == 0 {
		dust = DustLimit
	}
	for i, c := range d.Inputs {
		if c == nil {
			return fmt.Errorf("%w: input[%d]", ErrNilParam, i)
		}
	}
	for i, o := range d.Outputs {
		if o == nil || len(o.Script) == 0 {
			return fmt.Errorf("%w: output[%d] has no script", ErrInvalidParams, i)
		}
		if o.Value < dust {
			return fmt.Errorf("%w: output[%d] is %d sat, minimum %d", ErrDustOutput, i, o.Value, dust)
		}
	}
	return nil
}

// Assemble orders, funds and signs the draft with key.
func (d *Draft) Assemble(key *ec.PrivateKey) (*SignedTx, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: draft", ErrNilParam)
	}
	if key == nil {
		return nil, fmt.Errorf("%w: signing key", ErrNilParam)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}

	change, err := d.ChangeValue()
	if err != nil {
		return nil, err
	}
	dust := d.Dust
	if dust == 0 {
		dust = DustLimit
	}
	if d.Change == nil && change != 0 {
		return nil, fmt.Errorf("%w: %d sat unallocated and no change script", ErrInvalidParams, change)
	}
	if change > 0 && change < dust {
		return nil, fmt.Errorf("%w: change of %d sat is below dust", ErrInsufficientFunds, change)
	}

	ctx, err := newSigningContext(key)
	if err != nil {
		return nil, err
	}

	sdkTx := transaction.NewTransaction()
	sdkTx.Version = TxVersion

	for i, c := range d.Inputs {
		h, err := chainhash.NewHashFromHex(c.TxID)
		if err != nil {
			return nil, fmt.Errorf("%w: input[%d] txid: %w", ErrInvalidParams, i, err)
		}
		sdkTx.AddInput(&transaction.TransactionInput{
			SourceTXID:       h,
			SourceTxOutIndex: c.Vout,
			SequenceNumber:   transaction.DefaultSequenceNumber,
		})
		lock := ctx.lockingScript
		if len(c.Script) > 0 {
			lock = script.NewFromBytes(c.Script)
		}
		sdkTx.Inputs[i].SetSourceTxOutput(&transaction.TransactionOutput{
			Satoshis:      c.Value,
			LockingScript: lock,
		})
	}

	if len(d.OpReturn) > 0 {
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      0,
			LockingScript: script.NewFromBytes(d.OpReturn),
		})
	}
	for _, o := range d.Outputs {
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      o.Value,
			LockingScript: script.NewFromBytes(o.Script),
		})
	}
	if change > 0 {
		sdkTx.AddOutput(&transaction.TransactionOutput{
			Satoshis:      change,
			LockingScript: script.NewFromBytes(d.Change),
		})
	}

	for i := range sdkTx.Inputs {
		if err := ctx.sign(sdkTx, uint32(i)); err != nil {
			return nil, err
		}
	}

	return &SignedTx{
		Hex:    sdkTx.Hex(),
		TxID:   sdkTx.TxID().String(),
		Fee:    d.Fee,
		Change: change,
		Tx:     sdkTx,
	}, nil
}

// signingContext carries the key material for one assembly.
type signingContext struct {
	key           *ec.PrivateKey
	pubKey        []byte
	lockingScript *script.Script
	flag          sighash.Flag
}

func newSigningContext(key *ec.PrivateKey) (*signingContext, error) {
	pub := key.PubKey()
	addr, err := script.NewAddressFromPublicKey(pub, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from pubkey: %w", ErrScriptBuild, err)
	}
	lock, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock script: %w", ErrScriptBuild, err)
	}
	return &signingContext{
		key:           key,
		pubKey:        pub.Compressed(),
		lockingScript: lock,
		flag:          sighash.AllForkID,
	}, nil
}

// sign computes the input's own signature hash (its source value and locking
// script) and writes <sig+flag> <pubkey> as its unlocking script.
func (s *signingContext) sign(sdkTx *transaction.Transaction, vin uint32) error {
	hash, err := sdkTx.CalcInputSignatureHash(vin, s.flag)
	if err != nil {
		return fmt.Errorf("%w: input %d sighash: %w", ErrSigningFailed, vin, err)
	}
	sig, err := s.key.Sign(hash)
	if err != nil {
		return fmt.Errorf("%w: input %d: %w", ErrSigningFailed, vin, err)
	}

	unlock := &script.Script{}
	if err := unlock.AppendPushData(append(sig.Serialize(), byte(s.flag))); err != nil {
		return fmt.Errorf("%w: push signature: %w", ErrSigningFailed, err)
	}
	if err := unlock.AppendPushData(s.pubKey); err != nil {
		return fmt.Errorf("%w: push pubkey: %w", ErrSigningFailed, err)
	}
	sdkTx.Inputs[vin].UnlockingScript = unlock
	return nil
}

package wallet

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/libslp-go/address"
	"github.com/bitfsorg/libslp-go/slp"
	"github.com/bitfsorg/libslp-go/tx"
)

// Snapshot is the read-only view of a wallet that token actions are built
// from. Callers refresh and re-supply it between actions.
type Snapshot struct {
	Address       string // cashaddr
	LegacyAddress string
	Key           *ec.PrivateKey
	Plain         []*tx.Coin
	Tokens        []*tx.Coin

	script []byte
}

// NewSnapshot copies coins into a Snapshot for key. Coins flagged as tokens
// land in Tokens regardless of which slice they arrive in.
func NewSnapshot(kp *KeyPair, coins ...[]*tx.Coin) (*Snapshot, error) {
	if kp == nil || kp.PrivateKey == nil {
		return nil, fmt.Errorf("%w: key pair", ErrNilParam)
	}
	addr, err := address.Decode(kp.CashAddr)
	if err != nil {
		return nil, fmt.Errorf("wallet: snapshot address: %w", err)
	}
	lock, err := addr.LockingScript()
	if err != nil {
		return nil, fmt.Errorf("wallet: snapshot script: %w", err)
	}

	s := &Snapshot{
		Address:       kp.CashAddr,
		LegacyAddress: kp.Legacy,
		Key:           kp.PrivateKey,
		script:        []byte(*lock),
	}
	for _, set := range coins {
		for _, c := range set {
			if c == nil {
				continue
			}
			cp := *c
			if cp.IsToken {
				s.Tokens = append(s.Tokens, &cp)
			} else {
				s.Plain = append(s.Plain, &cp)
			}
		}
	}
	return s, nil
}

// LockingScript returns the P2PKH script for the snapshot's own address.
func (s *Snapshot) LockingScript() []byte {
	return append([]byte(nil), s.script...)
}

// TokensByType returns the token coins of type t, batons included.
func (s *Snapshot) TokensByType(t slp.TokenType) []*tx.Coin {
	var out []*tx.Coin
	for _, c := range s.Tokens {
		if c.TokenType == t {
			out = append(out, c)
		}
	}
	return out
}

// Balance returns the satoshi total of plain coins.
func (s *Snapshot) Balance() uint64 {
	return tx.SumValues(s.Plain)
}

// TokenBalances sums token quantities per token id, batons excluded.
func (s *Snapshot) TokenBalances() map[string]uint64 {
	out := make(map[string]uint64)
	for _, c := range s.Tokens {
		if !c.IsMintBaton {
			out[c.TokenID] += c.TokenQty
		}
	}
	return out
}

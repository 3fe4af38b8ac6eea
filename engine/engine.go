// Package engine runs token actions end to end: it locks the wallet, loads
// its key, refreshes the coin snapshot, builds and signs the transaction and
// hands it to the broadcaster.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bitfsorg/libslp-go/action"
	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/network"
	"github.com/bitfsorg/libslp-go/tx"
	"github.com/bitfsorg/libslp-go/wallet"
)

// KeyStore yields wallet records and their unlocked keys. *wallet.Store
// implements it.
type KeyStore interface {
	Get(name string) (*wallet.Record, error)
	Unlock(name, password string) (*wallet.KeyPair, *wallet.NetworkConfig, error)
}

var _ KeyStore = (*wallet.Store)(nil)

// Receipt reports a broadcast transaction.
type Receipt struct {
	TxID     string   `json:"txid"`
	Hex      string   `json:"hex"`
	Fee      uint64   `json:"fee"`
	Change   uint64   `json:"change"`
	TokenID  string   `json:"tokenId,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Engine serializes actions per wallet and drives them through build and
// broadcast. Keys and Source are required; Broadcaster is only needed by Run
// and Sweep.
type Engine struct {
	Keys        KeyStore
	Source      network.UTXOSource
	Broadcaster network.Broadcaster
	Policy      tx.Policy
	LockDir     string // directory for per-wallet lock files; empty disables file locks
	NoWait      bool   // fail with ErrWalletBusy instead of waiting for a lock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Run builds spec for the named wallet and broadcasts it. The wallet lock
// is held until the broadcast returns. Failures before signing return the
// builder error unchanged; a failed broadcast returns a *BroadcastError that
// matches ErrBroadcastAfterSign.
func (e *Engine) Run(ctx context.Context, walletName, password string, spec action.Spec) (*Receipt, error) {
	if e.Keys == nil || e.Source == nil {
		return nil, fmt.Errorf("%w: key store and utxo source are required", ErrNotConfigured)
	}
	unlock, err := e.lock(walletName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	res, err := e.unlockAndBuild(ctx, walletName, password, spec)
	if err != nil {
		return nil, err
	}
	return e.broadcast(ctx, walletName, res)
}

// Build runs every step of Run except the broadcast.
func (e *Engine) Build(ctx context.Context, walletName, password string, spec action.Spec) (*action.Result, error) {
	if e.Keys == nil || e.Source == nil {
		return nil, fmt.Errorf("%w: key store and utxo source are required", ErrNotConfigured)
	}
	unlock, err := e.lock(walletName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return e.unlockAndBuild(ctx, walletName, password, spec)
}

// unlockAndBuild expects the wallet lock to be held.
func (e *Engine) unlockAndBuild(ctx context.Context, walletName, password string, spec action.Spec) (*action.Result, error) {
	kp, _, err := e.Keys.Unlock(walletName, password)
	if err != nil {
		return nil, err
	}
	return e.build(ctx, walletName, kp, spec)
}

// Sweep moves every plain coin controlled by wif into the named wallet.
func (e *Engine) Sweep(ctx context.Context, walletName, wif string) (*Receipt, error) {
	if e.Keys == nil || e.Source == nil {
		return nil, fmt.Errorf("%w: key store and utxo source are required", ErrNotConfigured)
	}
	unlock, err := e.lock(walletName)
	if err != nil {
		return nil, err
	}
	defer unlock()

	rec, err := e.Keys.Get(walletName)
	if err != nil {
		return nil, err
	}
	net, err := wallet.GetNetwork(rec.Network)
	if err != nil {
		return nil, err
	}
	from, err := wallet.KeyFromWIF(wif, net)
	if err != nil {
		return nil, err
	}

	res, err := e.build(ctx, walletName, from, action.Sweep{Receiver: rec.CashAddress})
	if err != nil {
		return nil, err
	}
	return e.broadcast(ctx, walletName, res)
}

// Snapshot lists the coins of kp's address.
func (e *Engine) Snapshot(ctx context.Context, kp *wallet.KeyPair) (*wallet.Snapshot, error) {
	if kp == nil {
		return nil, fmt.Errorf("%w: key pair", wallet.ErrNilParam)
	}
	coins, err := e.Source.ListCoins(ctx, kp.CashAddr)
	if err != nil {
		return nil, fmt.Errorf("engine: refresh utxos for %s: %w", kp.CashAddr, err)
	}
	return wallet.NewSnapshot(kp, coins)
}

// Balance returns the snapshot of a wallet without unlocking its key.
func (e *Engine) Balance(ctx context.Context, walletName string) (*wallet.Snapshot, error) {
	if e.Keys == nil || e.Source == nil {
		return nil, fmt.Errorf("%w: key store and utxo source are required", ErrNotConfigured)
	}
	rec, err := e.Keys.Get(walletName)
	if err != nil {
		return nil, err
	}
	coins, err := e.Source.ListCoins(ctx, rec.CashAddress)
	if err != nil {
		return nil, fmt.Errorf("engine: refresh utxos for %s: %w", rec.CashAddress, err)
	}
	snap := &wallet.Snapshot{Address: rec.CashAddress, LegacyAddress: rec.LegacyAddress}
	for _, c := range coins {
		if c.IsToken {
			snap.Tokens = append(snap.Tokens, c)
		} else {
			snap.Plain = append(snap.Plain, c)
		}
	}
	return snap, nil
}

func (e *Engine) build(ctx context.Context, walletName string, kp *wallet.KeyPair, spec action.Spec) (*action.Result, error) {
	start := time.Now()
	logger := log.WithWallet(walletName)
	logger.Info().Str("action", fmt.Sprintf("%T", spec)).Msg("action started")

	snap, err := e.Snapshot(ctx, kp)
	if err != nil {
		return nil, err
	}
	res, err := action.Build(spec, snap, e.Policy)
	if err != nil {
		logger.Warn().Err(err).Msg("action rejected")
		return nil, err
	}
	for _, w := range res.Warnings {
		logger.Warn().Msg(w)
	}
	logger.Info().
		Str("txid", res.TxID).
		Uint64("fee", res.Fee).
		Dur("elapsed", time.Since(start)).
		Msg("transaction signed")
	return res, nil
}

func (e *Engine) broadcast(ctx context.Context, walletName string, res *action.Result) (*Receipt, error) {
	if e.Broadcaster == nil {
		return nil, &BroadcastError{TxID: res.TxID, Hex: res.Hex, Err: fmt.Errorf("%w: no broadcaster", ErrNotConfigured)}
	}
	logger := log.WithWallet(walletName)

	txid, err := e.Broadcaster.BroadcastTx(ctx, res.Hex)
	if err != nil {
		logger.Error().Err(err).Str("txid", res.TxID).Msg("broadcast failed")
		return nil, &BroadcastError{TxID: res.TxID, Hex: res.Hex, Err: err}
	}
	if txid != res.TxID {
		logger.Warn().Str("expected", res.TxID).Str("reported", txid).Msg("broadcast txid mismatch")
	}
	logger.Info().Str("txid", res.TxID).Msg("transaction broadcast")

	return &Receipt{
		TxID:     res.TxID,
		Hex:      res.Hex,
		Fee:      res.Fee,
		Change:   res.Change,
		TokenID:  res.TokenID,
		Warnings: res.Warnings,
	}, nil
}

// lock serializes actions on walletName: first in-process, then across
// processes through a lock file in LockDir.
func (e *Engine) lock(walletName string) (func(), error) {
	e.mu.Lock()
	if e.locks == nil {
		e.locks = make(map[string]*sync.Mutex)
	}
	m, ok := e.locks[walletName]
	if !ok {
		m = &sync.Mutex{}
		e.locks[walletName] = m
	}
	e.mu.Unlock()

	if e.NoWait {
		if !m.TryLock() {
			return nil, fmt.Errorf("%w: %s", ErrWalletBusy, walletName)
		}
	} else {
		m.Lock()
	}

	if e.LockDir == "" {
		return m.Unlock, nil
	}
	if err := os.MkdirAll(e.LockDir, 0700); err != nil {
		m.Unlock()
		return nil, fmt.Errorf("engine: create lock dir: %w", err)
	}
	f, err := lockFile(filepath.Join(e.LockDir, walletName+".lock"), !e.NoWait)
	if err != nil {
		m.Unlock()
		return nil, err
	}
	return func() {
		unlockFile(f)
		m.Unlock()
	}, nil
}

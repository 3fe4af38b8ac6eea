package network

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/bsv-blockchain/go-sdk/transaction"
)

var _ Broadcaster = (*RPCClient)(nil)

// bchToSat converts a BCH amount as returned by the node to satoshis.
func bchToSat(bch float64) uint64 {
	return uint64(math.Round(bch * 1e8))
}

// listUnspentResult maps the fields returned by listunspent.
type listUnspentResult struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Amount        float64 `json:"amount"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Address       string  `json:"address"`
	Confirmations int64   `json:"confirmations"`
}

// ListUnspent returns the node wallet's unspent outputs for address via
// `listunspent 0 9999999 ["address"]`. The node is not SLP-aware, so these
// outputs carry no token annotations and must not fund token actions.
func (c *RPCClient) ListUnspent(ctx context.Context, address string) ([]*UTXO, error) {
	params := []interface{}{0, 9999999, []string{address}}
	var results []listUnspentResult
	if err := c.Call(ctx, "listunspent", params, &results); err != nil {
		return nil, err
	}

	utxos := make([]*UTXO, len(results))
	for i, r := range results {
		utxos[i] = &UTXO{
			TxID:          r.TxID,
			Vout:          r.Vout,
			Amount:        bchToSat(r.Amount),
			ScriptPubKey:  r.ScriptPubKey,
			Address:       r.Address,
			Confirmations: r.Confirmations,
		}
	}
	return utxos, nil
}

// BroadcastTx submits a raw transaction via sendrawtransaction and returns
// the txid. Node rejections wrap ErrBroadcastRejected.
func (c *RPCClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	var txid string
	err := c.Call(ctx, "sendrawtransaction", []interface{}{rawTxHex}, &txid)
	if err == nil {
		return txid, nil
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		if rpcErr.Code == rpcVerifyAlreadyInChain {
			// Already mined: report the txid the caller computed.
			if t, perr := transaction.NewTransactionFromHex(rawTxHex); perr == nil {
				return t.TxID().String(), nil
			}
		}
		return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
	}
	return "", err
}

// GetRawTx returns the raw transaction bytes for txid.
func (c *RPCClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	var rawHex string
	if err := c.Call(ctx, "getrawtransaction", []interface{}{txid, false}, &rawHex); err != nil {
		return nil, notFound(err, txid)
	}
	data, err := hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tx hex: %w", ErrInvalidResponse, err)
	}
	return data, nil
}

// GetTransaction fetches and parses txid.
func (c *RPCClient) GetTransaction(ctx context.Context, txid string) (*transaction.Transaction, error) {
	raw, err := c.GetRawTx(ctx, txid)
	if err != nil {
		return nil, err
	}
	t, err := transaction.NewTransactionFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse tx %s: %w", ErrInvalidResponse, txid, err)
	}
	return t, nil
}

type verboseTxResult struct {
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
}

// GetTxStatus returns the confirmation status of txid.
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	var result verboseTxResult
	if err := c.Call(ctx, "getrawtransaction", []interface{}{txid, true}, &result); err != nil {
		return nil, notFound(err, txid)
	}
	return &TxStatus{
		Confirmed:     result.Confirmations > 0,
		Confirmations: result.Confirmations,
		BlockHash:     result.BlockHash,
		BlockHeight:   result.BlockHeight,
	}, nil
}

// GetBestBlockHeight returns the height of the chain tip.
func (c *RPCClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}

func notFound(err error, txid string) error {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Code == rpcInvalidAddressOrKey {
		return fmt.Errorf("%w: %s: %w", ErrTxNotFound, txid, err)
	}
	return err
}

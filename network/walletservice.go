package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/slp"
	"github.com/bitfsorg/libslp-go/tx"
)

// maxResponseSize caps how much of a response body is decoded.
const maxResponseSize = 10 << 20

var _ WalletService = (*WalletServiceClient)(nil)

// WalletServiceClient talks to an SLP-aware wallet service over its REST
// API. Every endpoint takes a JSON POST body and answers with a "success"
// flag plus the payload.
type WalletServiceClient struct {
	baseURL string
	client  *http.Client
}

// NewWalletServiceClient creates a client for the service at cfg.URL.
func NewWalletServiceClient(cfg ServiceConfig) *WalletServiceClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WalletServiceClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

type serviceStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s serviceStatus) err() error {
	if s.Success {
		return nil
	}
	msg := s.Message
	if msg == "" {
		msg = s.Error
	}
	if msg == "" {
		msg = "request failed"
	}
	return fmt.Errorf("%w: %s", ErrServiceError, msg)
}

// post sends body to path and decodes the reply into out. out must embed
// serviceStatus so that success=false is detected.
func (c *WalletServiceClient) post(ctx context.Context, path string, body interface{}, out interface{ err() error }) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("network: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Network.Debug().Str("path", path).Msg("wallet service request")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrConnectionFailed, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, truncate(raw, 256))
		}
		return fmt.Errorf("%w: %s: %w", ErrInvalidResponse, path, err)
	}
	if err := out.err(); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrConnectionFailed, resp.StatusCode)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

type bchUtxo struct {
	TxHash string `json:"tx_hash"`
	TxPos  uint32 `json:"tx_pos"`
	Value  uint64 `json:"value"`
	Height int64  `json:"height"`
}

// slpUtxo is a token output as classified by the indexer. Outpoints use the
// same tx_hash/tx_pos keys as plain outputs.
type slpUtxo struct {
	TxHash    string `json:"tx_hash"`
	TxPos     uint32 `json:"tx_pos"`
	Value     uint64 `json:"value"`
	TokenID   string `json:"tokenId"`
	TokenType uint8  `json:"tokenType"`
	UtxoType  string `json:"utxoType"` // "token", "group" or "minting-baton"
	Qty       string `json:"qty"`      // base units
	QtyStr    string `json:"qtyStr"`   // display units, used when qty is absent
	Decimals  uint8  `json:"decimals"`
}

const utxoTypeMintBaton = "minting-baton"

type slpBucket struct {
	Tokens     []slpUtxo `json:"tokens"`
	MintBatons []slpUtxo `json:"mintBatons"`
}

type utxoSet struct {
	Address  string    `json:"address"`
	BchUtxos []bchUtxo `json:"bchUtxos"`
	SlpUtxos struct {
		Type1 slpBucket `json:"type1"`
		Group slpBucket `json:"group"`
		NFT   slpBucket `json:"nft"`
	} `json:"slpUtxos"`
	NullUtxos []bchUtxo `json:"nullUtxos"`
}

type utxosResponse struct {
	serviceStatus
	Utxos []utxoSet `json:"utxos"`
}

// ListCoins returns the coins of address split into plain and token coins.
// Outputs the indexer could not classify (nullUtxos) are left out so they
// are never spent as plain BCH.
func (c *WalletServiceClient) ListCoins(ctx context.Context, address string) ([]*tx.Coin, error) {
	var resp utxosResponse
	if err := c.post(ctx, "/bch/utxos", map[string]string{"address": address}, &resp); err != nil {
		return nil, err
	}

	var coins []*tx.Coin
	for _, set := range resp.Utxos {
		for _, u := range set.BchUtxos {
			coins = append(coins, &tx.Coin{TxID: u.TxHash, Vout: u.TxPos, Value: u.Value})
		}
		groups := [][]slpUtxo{
			set.SlpUtxos.Type1.Tokens,
			set.SlpUtxos.Type1.MintBatons,
			set.SlpUtxos.Group.Tokens,
			set.SlpUtxos.Group.MintBatons,
			set.SlpUtxos.NFT.Tokens,
		}
		for _, g := range groups {
			for _, u := range g {
				coin, err := u.coin()
				if err != nil {
					return nil, err
				}
				coins = append(coins, coin)
			}
		}
		if n := len(set.NullUtxos); n > 0 {
			log.Network.Debug().Int("count", n).Str("address", set.Address).Msg("skipping unclassified utxos")
		}
	}
	return coins, nil
}

func (u slpUtxo) coin() (*tx.Coin, error) {
	if u.TxHash == "" {
		return nil, fmt.Errorf("%w: token utxo without tx_hash", ErrInvalidResponse)
	}
	tokenType := slp.TokenType(u.TokenType)
	if !tokenType.Valid() {
		return nil, fmt.Errorf("%w: token utxo %s:%d has type %d", ErrInvalidResponse, u.TxHash, u.TxPos, u.TokenType)
	}
	c := &tx.Coin{
		TxID:        u.TxHash,
		Vout:        u.TxPos,
		Value:       u.Value,
		IsToken:     true,
		TokenID:     u.TokenID,
		TokenType:   tokenType,
		IsMintBaton: u.UtxoType == utxoTypeMintBaton,
		Decimals:    u.Decimals,
	}
	if c.IsMintBaton {
		return c, nil
	}
	switch {
	case u.Qty != "":
		qty, err := strconv.ParseUint(u.Qty, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: token utxo %s:%d qty %q", ErrInvalidResponse, u.TxHash, u.TxPos, u.Qty)
		}
		c.TokenQty = qty
	case u.QtyStr != "":
		qty, err := slp.ParseQuantity(u.QtyStr, u.Decimals)
		if err != nil {
			return nil, fmt.Errorf("%w: token utxo %s:%d qtyStr %q", ErrInvalidResponse, u.TxHash, u.TxPos, u.QtyStr)
		}
		c.TokenQty = qty
	}
	return c, nil
}

type broadcastResponse struct {
	serviceStatus
	TxID string `json:"txid"`
}

// BroadcastTx submits rawTxHex. Service-side rejections wrap ErrBroadcastRejected.
func (c *WalletServiceClient) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	var resp broadcastResponse
	err := c.post(ctx, "/bch/broadcast", map[string]string{"hex": rawTxHex}, &resp)
	if err != nil {
		if !resp.Success && resp.Message+resp.Error != "" {
			return "", fmt.Errorf("%w: %w", ErrBroadcastRejected, err)
		}
		return "", err
	}
	if resp.TxID == "" {
		return "", fmt.Errorf("%w: broadcast returned no txid", ErrInvalidResponse)
	}
	return resp.TxID, nil
}

type balanceResponse struct {
	serviceStatus
	Balance Balance `json:"balance"`
}

// GetBalance returns the satoshi balance of address.
func (c *WalletServiceClient) GetBalance(ctx context.Context, address string) (*Balance, error) {
	var resp balanceResponse
	if err := c.post(ctx, "/bch/balance", map[string]string{"address": address}, &resp); err != nil {
		return nil, err
	}
	return &resp.Balance, nil
}

type tokenDataResponse struct {
	serviceStatus
	TokenData
}

// GetTokenData implements TokenDataSource.
func (c *WalletServiceClient) GetTokenData(ctx context.Context, tokenID string, withTxHistory bool) (*TokenData, error) {
	body := map[string]interface{}{"tokenId": tokenID, "withTxHistory": withTxHistory}
	var resp tokenDataResponse
	if err := c.post(ctx, "/slp/token", body, &resp); err != nil {
		return nil, err
	}
	if resp.GenesisData == nil {
		return nil, fmt.Errorf("%w: no genesis data for token %s", ErrInvalidResponse, tokenID)
	}
	return &resp.TokenData, nil
}

type cidResponse struct {
	serviceStatus
	JSON json.RawMessage `json:"json"`
}

// ResolveCID implements ContentResolver. The cid must not carry the ipfs:// scheme.
func (c *WalletServiceClient) ResolveCID(ctx context.Context, cid string) (json.RawMessage, error) {
	var resp cidResponse
	if err := c.post(ctx, "/ipfs/cid2json", map[string]string{"cid": cid}, &resp); err != nil {
		return nil, err
	}
	if len(resp.JSON) == 0 || string(resp.JSON) == "null" {
		return nil, fmt.Errorf("%w: %s", ErrContentNotFound, cid)
	}
	return resp.JSON, nil
}

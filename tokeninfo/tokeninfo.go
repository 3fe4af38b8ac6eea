// Package tokeninfo builds the token-info and token-tx-history reports from
// indexer data and IPFS metadata.
package tokeninfo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/network"
	"github.com/bitfsorg/libslp-go/slp"
)

// NotAvailable is reported in place of metadata that cannot be resolved.
const NotAvailable = "not available"

// ErrNoGenesisData indicates the indexer returned no genesis data.
var ErrNoGenesisData = errors.New("tokeninfo: no genesis data")

// Summary holds human-readable supply figures scaled by the token decimals.
type Summary struct {
	TokensInCirculation decimal.Decimal `json:"tokensInCirculation"`
	TotalBurned         decimal.Decimal `json:"totalBurned"`
	TotalMinted         decimal.Decimal `json:"totalMinted"`
}

// Report is the full token-info output.
type Report struct {
	DataSummary   Summary            `json:"dataSummary"`
	TokenData     *network.TokenData `json:"tokenData"`
	MutableData   json.RawMessage    `json:"mutableData"`
	ImmutableData json.RawMessage    `json:"immutableData"`
}

// History is the token-tx-history output.
type History struct {
	Transactions []network.TokenTx `json:"transactions"`
}

// Service answers token queries.
type Service struct {
	Tokens  network.TokenDataSource
	Content network.ContentResolver
}

// Info gathers genesis data, the supply summary and both metadata documents.
func (s *Service) Info(ctx context.Context, tokenID string) (*Report, error) {
	data, err := s.Tokens.GetTokenData(ctx, tokenID, false)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo: token %s: %w", tokenID, err)
	}
	sum, err := Summarize(data.GenesisData)
	if err != nil {
		return nil, err
	}
	return &Report{
		DataSummary:   sum,
		TokenData:     data,
		MutableData:   s.Document(ctx, data.MutableData),
		ImmutableData: s.Document(ctx, data.ImmutableData),
	}, nil
}

// TxHistory returns the transaction history recorded in the genesis data.
func (s *Service) TxHistory(ctx context.Context, tokenID string) (*History, error) {
	data, err := s.Tokens.GetTokenData(ctx, tokenID, true)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo: token %s: %w", tokenID, err)
	}
	if data.GenesisData == nil {
		return nil, ErrNoGenesisData
	}
	txs := data.GenesisData.Txs
	if txs == nil {
		txs = []network.TokenTx{}
	}
	return &History{Transactions: txs}, nil
}

// Document resolves an ipfs:// URI to its JSON document. Anything else, or
// any resolution failure, yields the JSON string "not available".
func (s *Service) Document(ctx context.Context, uri string) json.RawMessage {
	notAvailable, _ := json.Marshal(NotAvailable)

	cid, ok := slp.StripIPFSScheme(strings.TrimSpace(uri))
	if !ok || cid == "" || s.Content == nil {
		return notAvailable
	}
	doc, err := s.Content.ResolveCID(ctx, cid)
	if err != nil {
		log.Storage.Debug().Err(err).Str("cid", cid).Msg("metadata unavailable")
		return notAvailable
	}
	return doc
}

// Summarize scales the base-unit supply figures of gd by its decimals.
func Summarize(gd *network.GenesisData) (Summary, error) {
	if gd == nil {
		return Summary{}, ErrNoGenesisData
	}
	circ, err := scale(gd.TokensInCirculationStr, gd.Decimals)
	if err != nil {
		return Summary{}, fmt.Errorf("tokeninfo: tokensInCirculationStr: %w", err)
	}
	burned, err := scale(gd.TotalBurned, gd.Decimals)
	if err != nil {
		return Summary{}, fmt.Errorf("tokeninfo: totalBurned: %w", err)
	}
	minted, err := scale(gd.TotalMinted, gd.Decimals)
	if err != nil {
		return Summary{}, fmt.Errorf("tokeninfo: totalMinted: %w", err)
	}
	return Summary{TokensInCirculation: circ, TotalBurned: burned, TotalMinted: minted}, nil
}

func scale(base string, decimals uint8) (decimal.Decimal, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return decimal.Zero, nil
	}
	bi, ok := new(big.Int).SetString(base, 10)
	if !ok || bi.Sign() < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", slp.ErrInvalidQuantity, base)
	}
	return slp.ScaleQuantity(bi, decimals), nil
}

package network

import (
	"context"
	"encoding/json"

	"github.com/bitfsorg/libslp-go/tx"
)

var _ WalletService = (*MockService)(nil)

// MockService is a test double for WalletService. Each method calls the
// matching function field, which must be set before use.
type MockService struct {
	ListCoinsFn    func(ctx context.Context, address string) ([]*tx.Coin, error)
	BroadcastTxFn  func(ctx context.Context, rawTxHex string) (string, error)
	GetTokenDataFn func(ctx context.Context, tokenID string, withTxHistory bool) (*TokenData, error)
	ResolveCIDFn   func(ctx context.Context, cid string) (json.RawMessage, error)
}

func (m *MockService) ListCoins(ctx context.Context, address string) ([]*tx.Coin, error) {
	return m.ListCoinsFn(ctx, address)
}
func (m *MockService) BroadcastTx(ctx context.Context, rawTxHex string) (string, error) {
	return m.BroadcastTxFn(ctx, rawTxHex)
}
func (m *MockService) GetTokenData(ctx context.Context, tokenID string, withTxHistory bool) (*TokenData, error) {
	return m.GetTokenDataFn(ctx, tokenID, withTxHistory)
}
func (m *MockService) ResolveCID(ctx context.Context, cid string) (json.RawMessage, error) {
	return m.ResolveCIDFn(ctx, cid)
}

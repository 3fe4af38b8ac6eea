package tx

import (
	"fmt"
	"sort"
)

// SelectFundingCoin returns the non-token coin with the largest value.
// Ties resolve to the first coin encountered.
func SelectFundingCoin(coins []*Coin) (*Coin, error) {
	var best *Coin
	for _, c := range coins {
		if c == nil || c.IsToken {
			continue
		}
		if best == nil || c.Value > best.Value {
			best = c
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no BCH UTXOs available to pay for transaction", ErrInsufficientFunds)
	}
	return best, nil
}

// SelectFundingCoins accumulates non-token coins, largest first, until their
// total reaches target.
func SelectFundingCoins(coins []*Coin, target uint64) ([]*Coin, uint64, error) {
	candidates := make([]*Coin, 0, len(coins))
	for _, c := range coins {
		if c != nil && !c.IsToken {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})

	var selected []*Coin
	var total uint64
	for _, c := range candidates {
		if total >= target && len(selected) > 0 {
			break
		}
		selected = append(selected, c)
		total += c.Value
	}
	if len(selected) == 0 || total < target {
		return nil, 0, fmt.Errorf("%w: need %d sat, have %d sat", ErrInsufficientFunds, target, total)
	}
	return selected, total, nil
}

// SelectMintBaton returns the first mint baton for tokenID.
func SelectMintBaton(coins []*Coin, tokenID string) (*Coin, error) {
	for _, c := range coins {
		if c != nil && c.IsMintBaton && c.TokenID == tokenID {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: a minting baton for token ID %s could not be found in the wallet", ErrBatonNotFound, tokenID)
}

// SelectGroupToken returns the first group token coin for tokenID holding at
// least minQty tokens.
func SelectGroupToken(coins []*Coin, tokenID string, minQty uint64) (*Coin, error) {
	for _, c := range coins {
		if c != nil && c.IsGroupToken() && c.TokenID == tokenID && c.TokenQty >= minQty {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: group token with token ID %s not found in wallet", ErrGroupTokenNotFound, tokenID)
}

// SelectTokenCoins accumulates token coins of tokenID, largest quantity
// first, until they hold at least amount. Batons are never selected.
func SelectTokenCoins(coins []*Coin, tokenID string, amount uint64) ([]*Coin, uint64, error) {
	candidates := make([]*Coin, 0, len(coins))
	for _, c := range coins {
		if c != nil && c.IsToken && !c.IsMintBaton && c.TokenID == tokenID {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TokenQty > candidates[j].TokenQty
	})

	var selected []*Coin
	var total uint64
	for _, c := range candidates {
		if total >= amount && len(selected) > 0 {
			break
		}
		selected = append(selected, c)
		total += c.TokenQty
	}
	if len(selected) == 0 || total < amount {
		return nil, 0, fmt.Errorf("%w: token %s: need %d, have %d", ErrInsufficientTokens, tokenID, amount, total)
	}
	return selected, total, nil
}

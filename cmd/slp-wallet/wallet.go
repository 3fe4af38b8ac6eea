package main

import (
	"math/big"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libslp-go/action"
	"github.com/bitfsorg/libslp-go/address"
	"github.com/bitfsorg/libslp-go/wallet"
)

var errWalletName = errors.New("You must specify a wallet name with the -n flag.")

func walletCreate(g *globalFlags, conf *walletCreateConfig) error {
	if conf.Name == "" {
		return errWalletName
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	net, err := wallet.GetNetwork(env.cfg.Network)
	if err != nil {
		return err
	}
	store, err := env.walletStore()
	if err != nil {
		return err
	}
	if _, err := store.Get(conf.Name); err == nil {
		return errors.Wrap(wallet.ErrWalletExists, conf.Name)
	}
	password, err := getNewPassword()
	if err != nil {
		return err
	}
	rec, mnemonic, err := store.Create(conf.Name, conf.Description, password, net)
	if err != nil {
		return errors.Wrap(err, "create wallet")
	}
	return printJSON(struct {
		Name          string `json:"name"`
		Network       string `json:"network"`
		CashAddress   string `json:"cashAddress"`
		LegacyAddress string `json:"legacyAddress"`
		HDPath        string `json:"hdPath"`
		Mnemonic      string `json:"mnemonic"`
	}{rec.Name, rec.Network, rec.CashAddress, rec.LegacyAddress, rec.HDPath, mnemonic})
}

type walletSummary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Network     string    `json:"network"`
	CashAddress string    `json:"cashAddress"`
	CreatedAt   time.Time `json:"createdAt"`
}

func walletList(g *globalFlags, _ *walletListConfig) error {
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	store, err := env.walletStore()
	if err != nil {
		return err
	}
	recs, err := store.List()
	if err != nil {
		return errors.Wrap(err, "list wallets")
	}
	out := make([]walletSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, walletSummary{r.Name, r.Description, r.Network, r.CashAddress, r.CreatedAt})
	}
	return printJSON(out)
}

func walletAddrs(g *globalFlags, conf *walletAddrsConfig) error {
	if conf.Name == "" {
		return errWalletName
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	store, err := env.walletStore()
	if err != nil {
		return err
	}
	rec, err := store.Get(conf.Name)
	if err != nil {
		return err
	}
	slpAddr, err := address.ToSLPAddr(rec.CashAddress)
	if err != nil {
		return err
	}
	return printJSON(struct {
		CashAddress   string `json:"cashAddress"`
		SLPAddress    string `json:"slpAddress"`
		LegacyAddress string `json:"legacyAddress"`
		HDPath        string `json:"hdPath"`
	}{rec.CashAddress, slpAddr, rec.LegacyAddress, rec.HDPath})
}

type tokenBalance struct {
	TokenID string          `json:"tokenId"`
	Qty     decimal.Decimal `json:"qty"`
	Batons  int             `json:"mintBatons,omitempty"`
}

type balanceReport struct {
	CashAddress   string          `json:"cashAddress"`
	LegacyAddress string          `json:"legacyAddress"`
	Satoshis      uint64          `json:"satoshis"`
	BCH           decimal.Decimal `json:"bch"`
	Tokens        []tokenBalance  `json:"tokens"`
}

func walletBalance(g *globalFlags, conf *walletBalanceConfig) error {
	if conf.Name == "" {
		return errWalletName
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	eng, err := env.engine()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	snap, err := eng.Balance(ctx, conf.Name)
	if err != nil {
		return err
	}
	return printJSON(summarizeBalance(snap))
}

// summarizeBalance groups token coins by token id and scales quantities by
// the decimals the indexer reported for each coin.
func summarizeBalance(snap *wallet.Snapshot) balanceReport {
	sats := snap.Balance()
	r := balanceReport{
		CashAddress:   snap.Address,
		LegacyAddress: snap.LegacyAddress,
		Satoshis:      sats,
		BCH:           decimal.NewFromBigInt(new(big.Int).SetUint64(sats), -8),
		Tokens:        []tokenBalance{},
	}
	byID := make(map[string]*tokenBalance)
	for _, c := range snap.Tokens {
		tb, ok := byID[c.TokenID]
		if !ok {
			tb = &tokenBalance{TokenID: c.TokenID}
			byID[c.TokenID] = tb
		}
		if c.IsMintBaton {
			tb.Batons++
			continue
		}
		qty := decimal.NewFromBigInt(new(big.Int).SetUint64(c.TokenQty), -int32(c.Decimals))
		tb.Qty = tb.Qty.Add(qty)
	}
	for _, tb := range byID {
		r.Tokens = append(r.Tokens, *tb)
	}
	sort.Slice(r.Tokens, func(i, j int) bool { return r.Tokens[i].TokenID < r.Tokens[j].TokenID })
	return r
}

func walletSweep(g *globalFlags, conf *walletSweepConfig) error {
	flags := action.SweepFlags{WalletName: conf.Name, WIF: conf.WIF}
	if err := flags.Validate(); err != nil {
		return err
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	eng, err := env.engine()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	receipt, err := eng.Sweep(ctx, conf.Name, conf.WIF)
	if err != nil {
		return err
	}
	return printJSON(receipt)
}

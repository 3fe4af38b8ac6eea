package main

import (
	"fmt"

	"github.com/bitfsorg/libslp-go/action"
)

// runAction unlocks walletName, builds spec and broadcasts the result.
func runAction(g *globalFlags, walletName string, spec action.Spec) error {
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	eng, err := env.engine()
	if err != nil {
		return err
	}
	password, err := getPassword(fmt.Sprintf("Password for wallet %s: ", walletName))
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	receipt, err := eng.Run(ctx, walletName, password, spec)
	if err != nil {
		return err
	}
	return printJSON(receipt)
}

func sendBCH(g *globalFlags, conf *sendBCHConfig) error {
	spec, err := action.SendBCHFlags{WalletName: conf.Name, Addr: conf.Addr, Qty: conf.Qty}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func sendTokens(g *globalFlags, conf *sendTokensConfig) error {
	spec, err := action.SendTokensFlags{
		WalletName: conf.Name,
		Addr:       conf.Addr,
		Qty:        conf.Qty,
		TokenID:    conf.TokenID,
	}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenCreateFungible(g *globalFlags, conf *tokenCreateFungibleConfig) error {
	spec, err := action.CreateFungibleFlags{
		WalletName: conf.Name,
		TokenName:  conf.Token,
		Ticker:     conf.Ticker,
		Decimals:   conf.Decimals,
		Qty:        conf.Qty,
		URL:        conf.URL,
		Hash:       conf.Hash,
		Baton:      conf.Baton,
	}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenCreateGroup(g *globalFlags, conf *tokenCreateGroupConfig) error {
	spec, err := action.CreateGroupFlags{
		WalletName: conf.Name,
		TokenName:  conf.Token,
		Ticker:     conf.Ticker,
		Qty:        conf.Qty,
		URL:        conf.URL,
		Hash:       conf.Hash,
	}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenCreateNFT(g *globalFlags, conf *tokenCreateNFTConfig) error {
	spec, err := action.CreateNFTFlags{
		WalletName: conf.Name,
		TokenName:  conf.Token,
		Ticker:     conf.Ticker,
		TokenID:    conf.GroupID,
		URL:        conf.URL,
		Hash:       conf.Hash,
	}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenMint(g *globalFlags, conf *tokenMintConfig) error {
	spec, err := action.MintFlags{
		WalletName: conf.Name,
		Qty:        conf.Qty,
		TokenID:    conf.TokenID,
		Receiver:   conf.Receiver,
	}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenMDATx(g *globalFlags, conf *tokenMDATxConfig) error {
	spec, err := action.MutableDataInitFlags{WalletName: conf.Name, MDA: conf.MDA}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

func tokenUpdate(g *globalFlags, conf *tokenUpdateConfig) error {
	spec, err := action.MutableDataUpdateFlags{WalletName: conf.Name, CID: conf.CID}.Parse()
	if err != nil {
		return err
	}
	return runAction(g, conf.Name, spec)
}

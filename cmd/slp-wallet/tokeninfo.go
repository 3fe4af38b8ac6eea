package main

import (
	"github.com/bitfsorg/libslp-go/action"
)

func tokenInfo(g *globalFlags, conf *tokenInfoConfig) error {
	if err := action.ValidateTokenID(conf.TokenID); err != nil {
		return err
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signalContext()
	defer cancel()
	report, err := env.tokenInfo().Info(ctx, conf.TokenID)
	if err != nil {
		return err
	}
	return printJSON(report)
}

func tokenTxHistory(g *globalFlags, conf *tokenTxHistoryConfig) error {
	if err := action.ValidateTokenID(conf.TokenID); err != nil {
		return err
	}
	env, err := loadEnv(g)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, cancel := signalContext()
	defer cancel()
	history, err := env.tokenInfo().TxHistory(ctx, conf.TokenID)
	if err != nil {
		return err
	}
	return printJSON(history)
}

// Command slp-wallet creates and moves SLP tokens from the command line.
package main

import "github.com/pkg/errors"

func main() {
	subCmd, global, config := parseCommandLine()

	var err error
	switch subCmd {
	case walletCreateSubCmd:
		err = walletCreate(global, config.(*walletCreateConfig))
	case walletListSubCmd:
		err = walletList(global, config.(*walletListConfig))
	case walletAddrsSubCmd:
		err = walletAddrs(global, config.(*walletAddrsConfig))
	case walletBalanceSubCmd:
		err = walletBalance(global, config.(*walletBalanceConfig))
	case walletSweepSubCmd:
		err = walletSweep(global, config.(*walletSweepConfig))
	case sendBCHSubCmd:
		err = sendBCH(global, config.(*sendBCHConfig))
	case sendTokensSubCmd:
		err = sendTokens(global, config.(*sendTokensConfig))
	case tokenInfoSubCmd:
		err = tokenInfo(global, config.(*tokenInfoConfig))
	case tokenTxHistorySubCmd:
		err = tokenTxHistory(global, config.(*tokenTxHistoryConfig))
	case tokenCreateFungibleSubCmd:
		err = tokenCreateFungible(global, config.(*tokenCreateFungibleConfig))
	case tokenCreateGroupSubCmd:
		err = tokenCreateGroup(global, config.(*tokenCreateGroupConfig))
	case tokenCreateNFTSubCmd:
		err = tokenCreateNFT(global, config.(*tokenCreateNFTConfig))
	case tokenMintSubCmd:
		err = tokenMint(global, config.(*tokenMintConfig))
	case tokenMDATxSubCmd:
		err = tokenMDATx(global, config.(*tokenMDATxConfig))
	case tokenUpdateSubCmd:
		err = tokenUpdate(global, config.(*tokenUpdateConfig))
	default:
		err = errors.Errorf("Unknown sub-command '%s'", subCmd)
	}

	if err != nil {
		printErrorAndExit(err)
	}
}

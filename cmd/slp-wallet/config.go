package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	walletCreateSubCmd        = "wallet-create"
	walletListSubCmd          = "wallet-list"
	walletAddrsSubCmd         = "wallet-addrs"
	walletBalanceSubCmd       = "wallet-balance"
	walletSweepSubCmd         = "wallet-sweep"
	sendBCHSubCmd             = "send-bch"
	sendTokensSubCmd          = "send-tokens"
	tokenInfoSubCmd           = "token-info"
	tokenTxHistorySubCmd      = "token-tx-history"
	tokenCreateFungibleSubCmd = "token-create-fungible"
	tokenCreateGroupSubCmd    = "token-create-group"
	tokenCreateNFTSubCmd      = "token-create-nft"
	tokenMintSubCmd           = "token-mint"
	tokenMDATxSubCmd          = "token-mda-tx"
	tokenUpdateSubCmd         = "token-update"
)

// globalFlags override the configuration file for a single invocation.
type globalFlags struct {
	DataDir  string `long:"datadir" description:"Directory holding wallets, config and caches (default ~/.slp-wallet)"`
	Network  string `long:"network" description:"mainnet, testnet or regtest"`
	RESTURL  string `long:"rest-url" description:"SLP wallet service URL"`
	RPCURL   string `long:"rpc-url" description:"Full node JSON-RPC URL used for broadcasting"`
	RPCUser  string `long:"rpc-user" description:"Full node RPC user"`
	RPCPass  string `long:"rpc-pass" description:"Full node RPC password"`
	LogLevel string `long:"loglevel" description:"debug, info, warn or error"`
	JSONLogs bool   `long:"json-logs" description:"Write logs as JSON"`
	NoWait   bool   `long:"no-wait" description:"Fail instead of waiting when the wallet is busy"`
}

type walletCreateConfig struct {
	Name        string `long:"name" short:"n" description:"Name of the new wallet"`
	Description string `long:"description" short:"d" description:"Free-form description"`
}

type walletListConfig struct{}

type walletAddrsConfig struct {
	Name string `long:"name" short:"n" description:"Wallet name"`
}

type walletBalanceConfig struct {
	Name string `long:"name" short:"n" description:"Wallet name"`
}

type walletSweepConfig struct {
	Name string `long:"name" short:"n" description:"Wallet receiving the swept funds"`
	WIF  string `long:"wif" short:"w" description:"WIF private key to sweep"`
}

type sendBCHConfig struct {
	Name string `long:"name" short:"n" description:"Wallet name"`
	Addr string `long:"addr" short:"a" description:"Receiving cashaddr"`
	Qty  string `long:"qty" short:"q" description:"Amount in BCH (e.g. 0.0001)"`
}

type sendTokensConfig struct {
	Name    string `long:"name" short:"n" description:"Wallet name"`
	Addr    string `long:"addr" short:"a" description:"Receiving cashaddr"`
	Qty     string `long:"qty" short:"q" description:"Amount of tokens in display units"`
	TokenID string `long:"token-id" short:"t" description:"Token ID"`
}

type tokenInfoConfig struct {
	TokenID string `long:"token-id" short:"t" description:"Token ID"`
}

type tokenTxHistoryConfig struct {
	TokenID string `long:"token-id" short:"t" description:"Token ID"`
}

type tokenCreateFungibleConfig struct {
	Name     string `long:"name" short:"n" description:"Wallet name"`
	Token    string `long:"token-name" short:"m" description:"Token name"`
	Ticker   string `long:"ticker" short:"t" description:"Token ticker"`
	Decimals string `long:"decimals" short:"d" description:"Decimal places (0-9)"`
	Qty      string `long:"qty" short:"q" description:"Initial supply in display units"`
	URL      string `long:"url" short:"u" description:"Document URL"`
	Hash     string `long:"hash" description:"Document SHA-256 hash (64 hex characters)"`
	Baton    bool   `long:"baton" short:"b" description:"Keep a mint baton for future minting"`
}

type tokenCreateGroupConfig struct {
	Name   string `long:"name" short:"n" description:"Wallet name"`
	Token  string `long:"token-name" short:"m" description:"Token name"`
	Ticker string `long:"ticker" short:"t" description:"Token ticker"`
	Qty    string `long:"qty" short:"q" description:"Initial supply (default 1)"`
	URL    string `long:"url" short:"u" description:"Document URL"`
	Hash   string `long:"hash" description:"Document SHA-256 hash (64 hex characters)"`
}

type tokenCreateNFTConfig struct {
	Name    string `long:"name" short:"n" description:"Wallet name"`
	Token   string `long:"token-name" short:"m" description:"Token name"`
	Ticker  string `long:"ticker" short:"t" description:"Token ticker"`
	GroupID string `long:"group-id" short:"i" description:"Group token ID to burn"`
	URL     string `long:"url" short:"u" description:"Document URL"`
	Hash    string `long:"hash" description:"Document SHA-256 hash (64 hex characters)"`
}

type tokenMintConfig struct {
	Name     string `long:"name" short:"n" description:"Wallet name"`
	Qty      string `long:"qty" short:"q" description:"Amount to mint in display units"`
	TokenID  string `long:"token-id" short:"t" description:"Token ID"`
	Receiver string `long:"receiver" short:"r" description:"Baton receiver: empty keeps it, \"null\" burns it, or a cashaddr"`
}

type tokenMDATxConfig struct {
	Name string `long:"name" short:"n" description:"Wallet name"`
	MDA  string `long:"mda" short:"a" description:"Mutable data address"`
}

type tokenUpdateConfig struct {
	Name string `long:"name" short:"n" description:"Wallet controlling the mutable data address"`
	CID  string `long:"cid" short:"c" description:"IPFS CID of the new metadata"`
}

func parseCommandLine() (subCommand string, global *globalFlags, config interface{}) {
	global = &globalFlags{}
	parser := flags.NewParser(global, flags.PrintErrors|flags.HelpFlag)

	commands := []struct {
		name, short, long string
		data              interface{}
	}{
		{walletCreateSubCmd, "Create a new wallet", "Generates a mnemonic, derives m/44'/245'/0'/0/0 and stores it encrypted", &walletCreateConfig{}},
		{walletListSubCmd, "List wallets", "Lists every wallet in the data directory", &walletListConfig{}},
		{walletAddrsSubCmd, "Show wallet addresses", "Shows the cash, simpleledger and legacy addresses of a wallet", &walletAddrsConfig{}},
		{walletBalanceSubCmd, "Show wallet balance", "Shows the BCH and token balances of a wallet", &walletBalanceConfig{}},
		{walletSweepSubCmd, "Sweep a private key", "Moves every BCH coin of a WIF key into a wallet", &walletSweepConfig{}},
		{sendBCHSubCmd, "Send BCH", "Sends BCH to an address", &sendBCHConfig{}},
		{sendTokensSubCmd, "Send tokens", "Sends SLP tokens to an address", &sendTokensConfig{}},
		{tokenInfoSubCmd, "Show token information", "Shows genesis data, supply and metadata of a token", &tokenInfoConfig{}},
		{tokenTxHistorySubCmd, "Show token history", "Lists the transactions of a token", &tokenTxHistoryConfig{}},
		{tokenCreateFungibleSubCmd, "Create a fungible token", "Issues a new Type 1 token", &tokenCreateFungibleConfig{}},
		{tokenCreateGroupSubCmd, "Create an NFT group", "Issues a new NFT group token", &tokenCreateGroupConfig{}},
		{tokenCreateNFTSubCmd, "Create an NFT", "Burns one group token to issue a child NFT", &tokenCreateNFTConfig{}},
		{tokenMintSubCmd, "Mint tokens", "Mints more supply with the token's mint baton", &tokenMintConfig{}},
		{tokenMDATxSubCmd, "Create a mutable data address link", "Sends dust to a mutable data address so it can be referenced at genesis", &tokenMDATxConfig{}},
		{tokenUpdateSubCmd, "Update mutable data", "Publishes a new metadata CID from the mutable data address", &tokenUpdateConfig{}},
	}
	byName := make(map[string]interface{}, len(commands))
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			printErrorAndExit(errors.Wrapf(err, "register %s", c.name))
		}
		byName[c.name] = c.data
	}

	_, err := parser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if parser.Command.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	name := parser.Command.Active.Name
	return name, global, byName[name]
}

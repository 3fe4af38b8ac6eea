package action

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bitfsorg/libslp-go/address"
	"github.com/bitfsorg/libslp-go/slp"
)

// Messages reported for missing or malformed flags.
const (
	msgWalletName   = "You must specify a wallet name with the -n flag."
	msgTokenName    = "You must specify a name for the token with the -m flag."
	msgTicker       = "You must specify a ticker for the token with the -t flag."
	msgDecimals     = "You must specify the decimals of the token the -d flag."
	msgQty          = "You must specify a quantity of tokens to create with the -q flag."
	msgGroupID      = "You must specify a tokenId ( Group token to burn ) for the NFT with the -i flag."
	msgMintTokenID  = "You must specify a tokenId ( Group token to burn ) for the NFT with the -t flag."
	msgTokenID      = "You must specify a token ID with the -t flag"
	msgMDA          = "You must specify a mutable data address with the -a flag."
	msgCID          = "You must specify a CID with the -c flag."
	msgReceiver     = "You must specify an address to send to with the -a flag."
	msgSendQty      = "You must specify a quantity to send with the -q flag."
	msgWIF          = "You must specify a WIF private key to sweep with the -w flag."
	msgDocumentHash = "Document hash must be 64 hex characters."
	msgMetadata     = "Token metadata does not fit in an OP_RETURN output."
)

// CreateFungibleFlags are the raw inputs of token-create-fungible.
type CreateFungibleFlags struct {
	WalletName string
	TokenName  string
	Ticker     string
	Decimals   string
	Qty        string
	URL        string
	Hash       string
	Baton      bool
}

// Parse validates the flags. No I/O happens here.
func (f CreateFungibleFlags) Parse() (CreateFungible, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return CreateFungible{}, err
	}
	if f.TokenName == "" {
		return CreateFungible{}, invalid(msgTokenName)
	}
	if f.Ticker == "" {
		return CreateFungible{}, invalid(msgTicker)
	}
	if strings.TrimSpace(f.Decimals) == "" {
		return CreateFungible{}, invalidWith(msgDecimals, slp.ErrInvalidDecimals)
	}
	decimals, err := slp.ParseDecimals(f.Decimals)
	if err != nil {
		return CreateFungible{}, invalidWith(msgDecimals, err)
	}
	qty, err := slp.ParseQuantity(f.Qty, decimals)
	if err != nil {
		return CreateFungible{}, invalidWith(msgQty, err)
	}
	hash, err := parseDocumentHash(f.Hash)
	if err != nil {
		return CreateFungible{}, err
	}
	g := slp.Genesis{
		TokenType:    slp.TokenTypeFungible,
		Ticker:       f.Ticker,
		Name:         f.TokenName,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		Decimals:     decimals,
		Quantity:     qty,
	}
	if f.Baton {
		g.BatonVout = slp.MintBatonVout
	}
	if err := checkGenesis(g); err != nil {
		return CreateFungible{}, err
	}
	return CreateFungible{
		Name:         f.TokenName,
		Ticker:       f.Ticker,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		Decimals:     decimals,
		Quantity:     qty,
		Baton:        f.Baton,
	}, nil
}

// CreateGroupFlags are the raw inputs of token-create-group.
type CreateGroupFlags struct {
	WalletName string
	TokenName  string
	Ticker     string
	Qty        string // defaults to 1
	URL        string
	Hash       string
}

// Parse validates the flags.
func (f CreateGroupFlags) Parse() (CreateGroup, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return CreateGroup{}, err
	}
	if f.TokenName == "" {
		return CreateGroup{}, invalid(msgTokenName)
	}
	if f.Ticker == "" {
		return CreateGroup{}, invalid(msgTicker)
	}
	var qty uint64 = 1
	if strings.TrimSpace(f.Qty) != "" {
		var err error
		if qty, err = slp.ParseQuantity(f.Qty, 0); err != nil {
			return CreateGroup{}, invalidWith(msgQty, err)
		}
	}
	hash, err := parseDocumentHash(f.Hash)
	if err != nil {
		return CreateGroup{}, err
	}
	err = checkGenesis(slp.Genesis{
		TokenType:    slp.TokenTypeNFTGroup,
		Ticker:       f.Ticker,
		Name:         f.TokenName,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		BatonVout:    slp.MintBatonVout,
		Quantity:     qty,
	})
	if err != nil {
		return CreateGroup{}, err
	}
	return CreateGroup{
		Name:         f.TokenName,
		Ticker:       f.Ticker,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		Quantity:     qty,
	}, nil
}

// CreateNFTFlags are the raw inputs of token-create-nft.
type CreateNFTFlags struct {
	WalletName string
	TokenName  string
	Ticker     string
	TokenID    string // group token to burn
	URL        string
	Hash       string
}

// Parse validates the flags.
func (f CreateNFTFlags) Parse() (CreateNFT, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return CreateNFT{}, err
	}
	if f.TokenName == "" {
		return CreateNFT{}, invalid(msgTokenName)
	}
	if f.Ticker == "" {
		return CreateNFT{}, invalid(msgTicker)
	}
	if f.TokenID == "" {
		return CreateNFT{}, invalid(msgGroupID)
	}
	if _, err := slp.DecodeTokenID(f.TokenID); err != nil {
		return CreateNFT{}, invalidWith(msgGroupID, err)
	}
	hash, err := parseDocumentHash(f.Hash)
	if err != nil {
		return CreateNFT{}, err
	}
	err = checkGenesis(slp.Genesis{
		TokenType:    slp.TokenTypeNFTChild,
		Ticker:       f.Ticker,
		Name:         f.TokenName,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		Quantity:     1,
	})
	if err != nil {
		return CreateNFT{}, err
	}
	return CreateNFT{
		Name:         f.TokenName,
		Ticker:       f.Ticker,
		DocumentURL:  f.URL,
		DocumentHash: hash,
		GroupID:      strings.ToLower(f.TokenID),
	}, nil
}

// MintFlags are the raw inputs of token-mint.
type MintFlags struct {
	WalletName string
	Qty        string
	TokenID    string
	Receiver   string // "" keeps the baton, "null" burns it
}

// Parse validates the flags.
func (f MintFlags) Parse() (Mint, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return Mint{}, err
	}
	amount, err := parseAmount(f.Qty, msgQty)
	if err != nil {
		return Mint{}, err
	}
	if f.TokenID == "" {
		return Mint{}, invalid(msgMintTokenID)
	}
	if _, err := slp.DecodeTokenID(f.TokenID); err != nil {
		return Mint{}, invalidWith(msgMintTokenID, err)
	}
	receiver, err := ParseBatonReceiver(f.Receiver)
	if err != nil {
		return Mint{}, err
	}
	return Mint{TokenID: strings.ToLower(f.TokenID), Amount: amount, Receiver: receiver}, nil
}

// SendTokensFlags are the raw inputs of send-tokens.
type SendTokensFlags struct {
	WalletName string
	Addr       string
	Qty        string
	TokenID    string
}

// Parse validates the flags.
func (f SendTokensFlags) Parse() (SendTokens, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return SendTokens{}, err
	}
	if err := requireAddress(f.Addr); err != nil {
		return SendTokens{}, err
	}
	amount, err := parseAmount(f.Qty, msgSendQty)
	if err != nil {
		return SendTokens{}, err
	}
	if amount.IsZero() {
		return SendTokens{}, invalidWith(msgSendQty, slp.ErrInvalidQuantity)
	}
	if f.TokenID == "" {
		return SendTokens{}, invalid(msgTokenID)
	}
	if _, err := slp.DecodeTokenID(f.TokenID); err != nil {
		return SendTokens{}, invalidWith(msgTokenID, err)
	}
	return SendTokens{TokenID: strings.ToLower(f.TokenID), Receiver: f.Addr, Amount: amount}, nil
}

// SendBCHFlags are the raw inputs of send-bch. Qty is in BCH.
type SendBCHFlags struct {
	WalletName string
	Addr       string
	Qty        string
}

// bchDecimals scales BCH amounts to satoshis.
const bchDecimals = 8

// Parse validates the flags.
func (f SendBCHFlags) Parse() (SendBCH, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return SendBCH{}, err
	}
	if err := requireAddress(f.Addr); err != nil {
		return SendBCH{}, err
	}
	sats, err := slp.ParseQuantity(f.Qty, bchDecimals)
	if err != nil || sats == 0 {
		if err == nil {
			err = slp.ErrInvalidQuantity
		}
		return SendBCH{}, invalidWith(msgSendQty, err)
	}
	return SendBCH{Receiver: f.Addr, Satoshis: sats}, nil
}

// MutableDataInitFlags are the raw inputs of token-mda-tx.
type MutableDataInitFlags struct {
	WalletName string
	MDA        string
}

// Parse validates the flags.
func (f MutableDataInitFlags) Parse() (MutableDataInit, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return MutableDataInit{}, err
	}
	if f.MDA == "" {
		return MutableDataInit{}, invalid(msgMDA)
	}
	if _, err := address.Decode(f.MDA); err != nil {
		return MutableDataInit{}, invalidWith(msgMDA, err)
	}
	return MutableDataInit{Address: f.MDA}, nil
}

// MutableDataUpdateFlags are the raw inputs of token-update.
type MutableDataUpdateFlags struct {
	WalletName string
	CID        string
}

// Parse validates the flags.
func (f MutableDataUpdateFlags) Parse() (MutableDataUpdate, error) {
	if err := requireWallet(f.WalletName); err != nil {
		return MutableDataUpdate{}, err
	}
	if strings.TrimSpace(f.CID) == "" {
		return MutableDataUpdate{}, invalid(msgCID)
	}
	return MutableDataUpdate{CID: strings.TrimSpace(f.CID)}, nil
}

// SweepFlags are the raw inputs of wallet-sweep.
type SweepFlags struct {
	WalletName string // wallet receiving the funds
	WIF        string
}

// Validate checks the flags. The receiver address comes from the wallet, so
// the Sweep spec itself is built by the caller.
func (f SweepFlags) Validate() error {
	if err := requireWallet(f.WalletName); err != nil {
		return err
	}
	if strings.TrimSpace(f.WIF) == "" {
		return invalid(msgWIF)
	}
	return nil
}

// ValidateTokenID checks the -t flag of token-info and token-tx-history.
func ValidateTokenID(tokenID string) error {
	if tokenID == "" {
		return invalid(msgTokenID)
	}
	if _, err := slp.DecodeTokenID(tokenID); err != nil {
		return invalidWith(msgTokenID, err)
	}
	return nil
}

// checkGenesis encodes g once so oversized or malformed metadata fails
// before any wallet I/O.
func checkGenesis(g slp.Genesis) error {
	if err := slp.ValidateTicker(g.Ticker); err != nil {
		return invalidWith(msgTicker, err)
	}
	if _, err := slp.EncodeGenesis(g); err != nil {
		return invalidWith(msgMetadata, err)
	}
	return nil
}

func requireWallet(name string) error {
	if name == "" {
		return invalid(msgWalletName)
	}
	return nil
}

func requireAddress(addr string) error {
	if addr == "" {
		return invalid(msgReceiver)
	}
	if _, err := address.Decode(addr); err != nil {
		return invalidWith(msgReceiver, err)
	}
	return nil
}

func parseAmount(s, msg string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, invalidWith(msg, slp.ErrInvalidQuantity)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, invalidWith(msg, slp.ErrInvalidQuantity)
	}
	return d, nil
}

func parseDocumentHash(h string) ([]byte, error) {
	raw, err := slp.DecodeDocumentHash(strings.TrimSpace(h))
	if err != nil {
		return nil, invalidWith(msgDocumentHash, err)
	}
	return raw, nil
}

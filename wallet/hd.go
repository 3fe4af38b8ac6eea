package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libslp-go/address"
)

const (
	PurposeBIP44 = 44
	CoinTypeSLP  = 245 // SLP token-aware wallets

	ExternalChain = 0
	InternalChain = 1

	// Hardened is the BIP32 hardened index offset.
	Hardened = 0x80000000
)

// HDWallet derives keys from a BIP39 seed.
type HDWallet struct {
	masterKey *bip32.ExtendedKey
	network   *NetworkConfig
}

// KeyPair holds a derived key and its addresses.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"-"`
	CashAddr   string         `json:"cashAddress"`
	Legacy     string         `json:"legacyAddress"`
	Path       string         `json:"hdPath"`
}

// NewHDWallet creates an HDWallet from a BIP39 seed. A nil network means mainnet.
func NewHDWallet(seed []byte, network *NetworkConfig) (*HDWallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}

	params := &chaincfg.TestNet
	if network.Address == address.Mainnet {
		params = &chaincfg.MainNet
	}

	masterKey, err := bip32.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &HDWallet{masterKey: masterKey, network: network}, nil
}

// Network returns the wallet's network configuration.
func (w *HDWallet) Network() *NetworkConfig {
	return w.network
}

// DeriveKey derives m/44'/245'/account'/chain/index.
func (w *HDWallet) DeriveKey(account, chain, index uint32) (*KeyPair, error) {
	if account >= Hardened || chain >= Hardened || index >= Hardened {
		return nil, fmt.Errorf("%w: index out of range", ErrDerivationFailed)
	}

	key := w.masterKey
	for depth, idx := range []uint32{PurposeBIP44 + Hardened, CoinTypeSLP + Hardened, account + Hardened, chain, index} {
		child, err := key.Child(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth+1, err)
		}
		key = child
	}

	path := fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", PurposeBIP44, CoinTypeSLP, account, chain, index)
	return extKeyToKeyPair(key, path, w.network)
}

// DefaultKey derives the wallet's single receive key, m/44'/245'/0'/0/0.
func (w *HDWallet) DefaultKey() (*KeyPair, error) {
	return w.DeriveKey(0, ExternalChain, 0)
}

func extKeyToKeyPair(extKey *bip32.ExtendedKey, path string, network *NetworkConfig) (*KeyPair, error) {
	privKey, err := extKey.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to extract EC private key: %w", ErrDerivationFailed, err)
	}
	return newKeyPair(privKey, path, network)
}

func newKeyPair(privKey *ec.PrivateKey, path string, network *NetworkConfig) (*KeyPair, error) {
	pub := privKey.PubKey()
	if pub == nil {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrDerivationFailed)
	}
	addr := address.FromPublicKey(pub, network.Address)
	legacy, err := addr.Legacy()
	if err != nil {
		return nil, fmt.Errorf("%w: legacy address: %w", ErrDerivationFailed, err)
	}
	return &KeyPair{
		PrivateKey: privKey,
		PublicKey:  pub,
		CashAddr:   addr.CashAddr(),
		Legacy:     legacy,
		Path:       path,
	}, nil
}

// KeyFromWIF decodes a WIF private key, e.g. one passed to wallet-sweep.
func KeyFromWIF(wif string, network *NetworkConfig) (*KeyPair, error) {
	if network == nil {
		network = &MainNet
	}
	priv, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWIF, err)
	}
	return newKeyPair(priv, "", network)
}

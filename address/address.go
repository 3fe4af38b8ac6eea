// Package address decodes Bitcoin Cash addresses in cashaddr and legacy
// base58 form and turns them into output locking scripts.
package address

import (
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"
	"github.com/gcash/bchd/chaincfg"
	"github.com/gcash/bchutil"
)

// Network identifies the chain an address belongs to.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Regtest Network = "regtest"
)

// Type is the kind of locking script an address pays to.
type Type byte

const (
	P2PKH Type = 0
	P2SH  Type = 1
)

// HashLen is the length of a HASH160 digest.
const HashLen = 20

// netParams carries the bchutil parameters of one network under both its
// cashaddr prefix and its simpleledger prefix.
type netParams struct {
	cash *chaincfg.Params
	slp  *chaincfg.Params
}

var params = map[Network]netParams{
	Mainnet: {cash: &chaincfg.MainNetParams, slp: slpParams(chaincfg.MainNetParams, "simpleledger")},
	Testnet: {cash: &chaincfg.TestNet3Params, slp: slpParams(chaincfg.TestNet3Params, "slptest")},
	Regtest: {cash: &chaincfg.RegressionNetParams, slp: slpParams(chaincfg.RegressionNetParams, "slpreg")},
}

// slpParams registers prefix with bchutil under a network name of its own so
// the same hash encodes and decodes with the token-aware prefix.
func slpParams(base chaincfg.Params, prefix string) *chaincfg.Params {
	p := base
	p.Name = "slp-" + base.Name
	bchutil.Prefixes[p.Name] = prefix
	return &p
}

// networks is the order unprefixed addresses are tried in.
var networks = []Network{Mainnet, Testnet, Regtest}

// ParseNetwork validates a network name.
func ParseNetwork(name string) (Network, error) {
	n := Network(strings.ToLower(name))
	if _, ok := params[n]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
	}
	return n, nil
}

// Address is a decoded P2PKH or P2SH address.
type Address struct {
	Hash    []byte
	Type    Type
	Network Network
}

// Decode parses a cashaddr or simpleledger address (with or without prefix)
// or a legacy base58 address.
func Decode(s string) (*Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	if i := strings.IndexByte(s, ':'); i >= 0 {
		if strings.ToLower(s) != s && strings.ToUpper(s) != s {
			return nil, fmt.Errorf("%w: mixed case", ErrInvalidAddress)
		}
		s = strings.ToLower(s)
		net, p, ok := paramsForPrefix(s[:i])
		if !ok {
			return nil, fmt.Errorf("%w: unknown prefix %q", ErrInvalidAddress, s[:i])
		}
		return decodeWith(s, net, p)
	}

	// Unprefixed: try cashaddr on every network, then legacy base58.
	if lower := strings.ToLower(s); lower == s || strings.ToUpper(s) == s {
		for _, net := range networks {
			if a, err := decodeWith(lower, net, params[net].cash); err == nil {
				return a, nil
			}
		}
	}
	for _, net := range []Network{Mainnet, Testnet} {
		decoded, err := bchutil.DecodeAddress(s, params[net].cash)
		if err != nil {
			continue
		}
		switch decoded.(type) {
		case *bchutil.LegacyAddressPubKeyHash, *bchutil.LegacyAddressScriptHash:
			return fromBchutil(decoded, net)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
}

func decodeWith(s string, net Network, p *chaincfg.Params) (*Address, error) {
	decoded, err := bchutil.DecodeAddress(s, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return fromBchutil(decoded, net)
}

func fromBchutil(decoded bchutil.Address, net Network) (*Address, error) {
	var typ Type
	switch decoded.(type) {
	case *bchutil.AddressPubKeyHash, *bchutil.LegacyAddressPubKeyHash:
		typ = P2PKH
	case *bchutil.AddressScriptHash, *bchutil.LegacyAddressScriptHash:
		typ = P2SH
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, decoded)
	}
	hash := decoded.ScriptAddress()
	if len(hash) != HashLen {
		return nil, fmt.Errorf("%w: hash is %d bytes", ErrUnsupportedType, len(hash))
	}
	return &Address{Hash: hash, Type: typ, Network: net}, nil
}

func paramsForPrefix(prefix string) (Network, *chaincfg.Params, bool) {
	for _, net := range networks {
		p := params[net]
		if bchutil.Prefixes[p.cash.Name] == prefix {
			return net, p.cash, true
		}
		if bchutil.Prefixes[p.slp.Name] == prefix {
			return net, p.slp, true
		}
	}
	return "", nil, false
}

// FromPublicKey returns the P2PKH address of a public key.
func FromPublicKey(pub *ec.PublicKey, net Network) *Address {
	return &Address{Hash: bsvhash.Hash160(pub.Compressed()), Type: P2PKH, Network: net}
}

// CashAddr returns the prefixed cashaddr form.
func (a *Address) CashAddr() string {
	return a.encode(a.netParams().cash)
}

// SLPAddr returns the prefixed simpleledger form of the same hash.
func (a *Address) SLPAddr() string {
	return a.encode(a.netParams().slp)
}

func (a *Address) netParams() netParams {
	p, ok := params[a.Network]
	if !ok {
		return params[Mainnet]
	}
	return p
}

func (a *Address) encode(p *chaincfg.Params) string {
	var (
		encoded bchutil.Address
		err     error
	)
	if a.Type == P2SH {
		encoded, err = bchutil.NewAddressScriptHashFromHash(a.Hash, p)
	} else {
		encoded, err = bchutil.NewAddressPubKeyHash(a.Hash, p)
	}
	if err != nil {
		return ""
	}
	body := encoded.EncodeAddress()
	if i := strings.IndexByte(body, ':'); i >= 0 {
		body = body[i+1:]
	}
	return bchutil.Prefixes[p.Name] + ":" + body
}

// Legacy returns the base58 form. Only P2PKH is supported.
func (a *Address) Legacy() (string, error) {
	if a.Type != P2PKH {
		return "", fmt.Errorf("%w: legacy encoding is P2PKH only", ErrUnsupportedType)
	}
	legacy, err := bchutil.NewLegacyAddressPubKeyHash(a.Hash, a.netParams().cash)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return legacy.EncodeAddress(), nil
}

// LockingScript builds the output script paying to this address.
func (a *Address) LockingScript() (*script.Script, error) {
	if len(a.Hash) != HashLen {
		return nil, fmt.Errorf("%w: hash must be %d bytes", ErrInvalidAddress, HashLen)
	}
	switch a.Type {
	case P2PKH:
		addr, err := script.NewAddressFromPublicKeyHash(a.Hash, a.Network == Mainnet)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
		}
		return p2pkh.Lock(addr)
	case P2SH:
		s := &script.Script{}
		*s = append(*s, script.OpHASH160)
		if err := s.AppendPushData(a.Hash); err != nil {
			return nil, err
		}
		*s = append(*s, script.OpEQUAL)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, a.Type)
	}
}

// LockingScript decodes s and returns its output script.
func LockingScript(s string) (*script.Script, error) {
	a, err := Decode(s)
	if err != nil {
		return nil, err
	}
	return a.LockingScript()
}

// ToLegacy converts any supported address string to legacy base58.
func ToLegacy(s string) (string, error) {
	a, err := Decode(s)
	if err != nil {
		return "", err
	}
	return a.Legacy()
}

// ToCashAddr converts any supported address string to prefixed cashaddr.
func ToCashAddr(s string) (string, error) {
	a, err := Decode(s)
	if err != nil {
		return "", err
	}
	return a.CashAddr(), nil
}

// ToSLPAddr converts any supported address string to prefixed simpleledger form.
func ToSLPAddr(s string) (string, error) {
	a, err := Decode(s)
	if err != nil {
		return "", err
	}
	return a.SLPAddr(), nil
}

package wallet

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitfsorg/libslp-go/address"
)

// NetworkConfig defines parameters for a Bitcoin Cash network.
type NetworkConfig struct {
	Name           string          `json:"name"`
	Address        address.Network `json:"address_network"`
	AddressVersion byte            `json:"address_version"`
	P2SHVersion    byte            `json:"p2sh_version"`
	RPCPort        uint16          `json:"rpc_port"`
	ExplorerURL    string          `json:"explorer_url"` // token explorer, "%s" is the token id
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{
		Name:           "mainnet",
		Address:        address.Mainnet,
		AddressVersion: 0x00,
		P2SHVersion:    0x05,
		RPCPort:        8332,
		ExplorerURL:    "https://explorer.tokentiger.com/?tokenid=%s",
	}

	TestNet = NetworkConfig{
		Name:           "testnet",
		Address:        address.Testnet,
		AddressVersion: 0x6f,
		P2SHVersion:    0xc4,
		RPCPort:        18332,
	}

	RegTest = NetworkConfig{
		Name:           "regtest",
		Address:        address.Regtest,
		AddressVersion: 0x6f,
		P2SHVersion:    0xc4,
		RPCPort:        18443,
	}
)

var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"regtest": &RegTest,
}

// GetNetwork returns a predefined network by name.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// TokenURL returns the explorer link for a token id, or "" when the network has none.
func (n *NetworkConfig) TokenURL(tokenID string) string {
	if n == nil || n.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf(n.ExplorerURL, tokenID)
}

// LoadCustomNetwork loads a NetworkConfig from a JSON file.
func LoadCustomNetwork(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: failed to read network config: %w", err)
	}

	var config NetworkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("wallet: failed to parse network config: %w", err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("wallet: network config must have a name")
	}
	if _, err := address.ParseNetwork(string(config.Address)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNetwork, err)
	}
	return &config, nil
}

package network

import (
	"fmt"
	"time"
)

// DefaultRESTURL is the public wallet service used when nothing else is configured.
const DefaultRESTURL = "https://free-bch.fullstack.cash"

// Environment variables read by ResolveConfig and ResolveServiceConfig.
const (
	EnvRPCURL  = "SLP_RPC_URL"
	EnvRPCUser = "SLP_RPC_USER"
	EnvRPCPass = "SLP_RPC_PASS"
	EnvRESTURL = "SLP_REST_URL"
)

// RPCConfig holds the connection parameters for a BCH node's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// ServiceConfig holds the connection parameters for the SLP wallet service.
type ServiceConfig struct {
	URL     string        `json:"url"`
	Timeout time.Duration `json:"timeout"`
}

// NetworkPresets contains default RPC configurations for local nodes.
// Mainnet has no preset and must be configured explicitly.
var NetworkPresets = map[string]RPCConfig{
	"regtest": {URL: "http://localhost:18443", User: "slp", Password: "slp"},
	"testnet": {URL: "http://localhost:18332", User: "slp", Password: "slp"},
}

// ResolveConfig merges RPC configuration from three sources with decreasing priority:
//  1. CLI flags
//  2. Environment variables (SLP_RPC_URL, SLP_RPC_USER, SLP_RPC_PASS)
//  3. Network presets (regtest/testnet only)
func ResolveConfig(flags *RPCConfig, env map[string]string, network string) (*RPCConfig, error) {
	result := RPCConfig{Network: network}
	if preset, ok := NetworkPresets[network]; ok {
		result = preset
		result.Network = network
	}

	overlay(&result.URL, env[EnvRPCURL])
	overlay(&result.User, env[EnvRPCUser])
	overlay(&result.Password, env[EnvRPCPass])

	if flags != nil {
		overlay(&result.URL, flags.URL)
		overlay(&result.User, flags.User)
		overlay(&result.Password, flags.Password)
	}

	if result.URL == "" {
		return nil, fmt.Errorf("network: %s requires explicit RPC configuration (set --rpc-url, %s, or config file)", network, EnvRPCURL)
	}
	return &result, nil
}

// ResolveServiceConfig picks the wallet service URL: flag, then SLP_REST_URL,
// then DefaultRESTURL.
func ResolveServiceConfig(flagURL string, env map[string]string) ServiceConfig {
	cfg := ServiceConfig{URL: DefaultRESTURL, Timeout: 30 * time.Second}
	overlay(&cfg.URL, env[EnvRESTURL])
	overlay(&cfg.URL, flagURL)
	return cfg
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the slp-wallet configuration file, a plain
// key = value text file kept in the data directory.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitfsorg/libslp-go/network"
	"github.com/bitfsorg/libslp-go/tx"
)

// Config holds the wallet settings.
type Config struct {
	DataDir  string
	Network  string
	LogLevel string
	LogFile  string

	RESTURL      string   // SLP-aware wallet service
	RPCURL       string   // optional full node for raw broadcast and tx lookups
	RPCUser      string
	RPCPass      string
	IPFSGateways []string // empty means the built-in gateway list

	Fee     uint64
	Dust    uint64
	FeeRate uint64
}

// DefaultDataDir returns ~/.slp-wallet, falling back to the working
// directory when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slp-wallet"
	}
	return filepath.Join(home, ".slp-wallet")
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// DefaultConfig returns a mainnet configuration with the standard fee policy.
func DefaultConfig() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Network:  "mainnet",
		LogLevel: "info",
		RESTURL:  network.DefaultRESTURL,
		Fee:      tx.DefaultFee,
		Dust:     tx.DustLimit,
		FeeRate:  tx.DefaultFeeRate,
	}
}

// Policy returns the transaction policy described by the fee settings.
func (c Config) Policy() tx.Policy {
	return tx.Policy{Fee: c.Fee, Dust: c.Dust, FeeRate: c.FeeRate}
}

// WalletDB returns the path of the wallet database.
func (c Config) WalletDB() string {
	return filepath.Join(c.DataDir, "wallets.db")
}

// CacheDB returns the path of the IPFS document cache.
func (c Config) CacheDB() string {
	return filepath.Join(c.DataDir, "cid2json.db")
}

// LockDir returns the directory holding per-wallet lock files.
func (c Config) LockDir() string {
	return filepath.Join(c.DataDir, "locks")
}

// LoadConfig reads path on top of DefaultConfig. Unknown keys are ignored so
// older binaries can read newer files.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d", err, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// parseKeyValue splits on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "resturl":
		c.RESTURL = value
	case "rpcurl":
		c.RPCURL = value
	case "rpcuser":
		c.RPCUser = value
	case "rpcpass":
		c.RPCPass = value
	case "ipfsgateways":
		c.IPFSGateways = splitList(value)
	case "fee":
		return parseUint(key, value, &c.Fee)
	case "dust":
		return parseUint(key, value, &c.Dust)
	case "feerate":
		return parseUint(key, value, &c.FeeRate)
	}
	return nil
}

func parseUint(key, value string, dst *uint64) error {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s = %q", ErrInvalidNumber, key, value)
	}
	*dst = n
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SaveConfig writes cfg to path, creating parent directories. The file is
// private to the user because it may carry RPC credentials.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# SLP Wallet Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	b.WriteString("\n# Services\n")
	fmt.Fprintf(&b, "restURL = %s\n", cfg.RESTURL)
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "rpcuser = %s\n", cfg.RPCUser)
	fmt.Fprintf(&b, "rpcpass = %s\n", cfg.RPCPass)
	fmt.Fprintf(&b, "ipfsgateways = %s\n", strings.Join(cfg.IPFSGateways, ","))
	b.WriteString("\n# Fee policy (satoshis, feerate in sat/KB)\n")
	fmt.Fprintf(&b, "fee = %d\n", cfg.Fee)
	fmt.Fprintf(&b, "dust = %d\n", cfg.Dust)
	fmt.Fprintf(&b, "feerate = %d\n", cfg.FeeRate)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

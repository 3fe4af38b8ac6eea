package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/bitfsorg/libslp-go/config"
	"github.com/bitfsorg/libslp-go/engine"
	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/network"
	"github.com/bitfsorg/libslp-go/storage"
	"github.com/bitfsorg/libslp-go/tokeninfo"
	"github.com/bitfsorg/libslp-go/wallet"
)

// appEnv holds the resources shared by sub-commands. Fields are opened on
// first use and released by close.
type appEnv struct {
	cfg    config.Config
	noWait bool

	store   *wallet.Store
	cache   *storage.BoltCache
	service *network.WalletServiceClient
}

// loadEnv reads the config file under the data directory, applies global
// flags on top and initializes logging.
func loadEnv(g *globalFlags) (*appEnv, error) {
	dataDir := g.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.DataDir = dataDir

	overlay(&cfg.Network, g.Network)
	overlay(&cfg.LogLevel, g.LogLevel)
	overlay(&cfg.RESTURL, os.Getenv(network.EnvRESTURL))
	overlay(&cfg.RESTURL, g.RESTURL)
	overlay(&cfg.RPCURL, g.RPCURL)
	overlay(&cfg.RPCUser, g.RPCUser)
	overlay(&cfg.RPCPass, g.RPCPass)

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if err := log.Init(cfg.LogLevel, g.JSONLogs, cfg.LogFile); err != nil {
		return nil, errors.Wrap(err, "init logging")
	}
	return &appEnv{cfg: cfg, noWait: g.NoWait}, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (e *appEnv) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	if e.cache != nil {
		_ = e.cache.Close()
	}
}

func (e *appEnv) walletStore() (*wallet.Store, error) {
	if e.store == nil {
		s, err := wallet.OpenStore(e.cfg.WalletDB())
		if err != nil {
			return nil, errors.Wrap(err, "open wallet store")
		}
		e.store = s
	}
	return e.store, nil
}

func (e *appEnv) walletService() *network.WalletServiceClient {
	if e.service == nil {
		e.service = network.NewWalletServiceClient(network.ResolveServiceConfig(e.cfg.RESTURL, nil))
	}
	return e.service
}

// broadcaster prefers a configured full node and falls back to the wallet
// service.
func (e *appEnv) broadcaster() (network.Broadcaster, error) {
	env := map[string]string{
		network.EnvRPCURL:  os.Getenv(network.EnvRPCURL),
		network.EnvRPCUser: os.Getenv(network.EnvRPCUser),
		network.EnvRPCPass: os.Getenv(network.EnvRPCPass),
	}
	if e.cfg.RPCURL == "" && env[network.EnvRPCURL] == "" {
		return e.walletService(), nil
	}
	rpcCfg, err := network.ResolveConfig(&network.RPCConfig{
		URL:      e.cfg.RPCURL,
		User:     e.cfg.RPCUser,
		Password: e.cfg.RPCPass,
	}, env, e.cfg.Network)
	if err != nil {
		return nil, errors.Wrap(err, "resolve rpc config")
	}
	log.CLI.Debug().Str("url", rpcCfg.URL).Msg("broadcasting through full node")
	return network.NewRPCClient(*rpcCfg), nil
}

func (e *appEnv) engine() (*engine.Engine, error) {
	store, err := e.walletStore()
	if err != nil {
		return nil, err
	}
	b, err := e.broadcaster()
	if err != nil {
		return nil, err
	}
	return &engine.Engine{
		Keys:        store,
		Source:      e.walletService(),
		Broadcaster: b,
		Policy:      e.cfg.Policy(),
		LockDir:     e.cfg.LockDir(),
		NoWait:      e.noWait,
	}, nil
}

// tokenInfo wires the indexer and the cached IPFS resolver. A cache that
// cannot be opened only costs speed, so it is skipped with a warning.
func (e *appEnv) tokenInfo() *tokeninfo.Service {
	svc := e.walletService()
	var cache storage.Cache
	if e.cache == nil {
		c, err := storage.OpenBoltCache(e.cfg.CacheDB())
		if err != nil {
			log.CLI.Warn().Err(err).Msg("document cache disabled")
		} else {
			e.cache = c
		}
	}
	if e.cache != nil {
		cache = e.cache
	}
	resolver := storage.NewResolver(cache, svc)
	if len(e.cfg.IPFSGateways) > 0 {
		resolver.Gateways = e.cfg.IPFSGateways
	}
	return &tokeninfo.Service{Tokens: svc, Content: resolver}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode output")
	}
	fmt.Println(string(out))
	return nil
}

func printErrorAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	var be *engine.BroadcastError
	if errors.As(err, &be) {
		fmt.Fprintf(os.Stderr, "The transaction was signed but not broadcast. Raw hex:\n%s\n", be.Hex)
	}
	os.Exit(1)
}

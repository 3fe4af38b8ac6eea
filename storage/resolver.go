package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bitfsorg/libslp-go/log"
	"github.com/bitfsorg/libslp-go/network"
)

var _ network.ContentResolver = (*Resolver)(nil)

// DefaultGateways are public IPFS HTTP gateways tried in order.
var DefaultGateways = []string{
	"https://ipfs.io",
	"https://dweb.link",
}

// Resolver fetches token metadata JSON by CID, trying sources in order:
//  1. the local Cache
//  2. IPFS HTTP gateways (GET {gateway}/ipfs/{cid})
//  3. the wallet service's cid2json endpoint
//
// Successful remote fetches are written back to the cache.
type Resolver struct {
	Cache    Cache                   // nil disables caching
	Gateways []string                // gateway base URLs
	Fallback network.ContentResolver // nil skips the service
	Client   *http.Client            // nil uses a 30s client
}

// NewResolver creates a Resolver with DefaultGateways.
func NewResolver(cache Cache, fallback network.ContentResolver) *Resolver {
	return &Resolver{
		Cache:    cache,
		Gateways: append([]string(nil), DefaultGateways...),
		Fallback: fallback,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ResolveCID returns the JSON document stored under cid. An ipfs:// prefix
// is accepted.
func (r *Resolver) ResolveCID(ctx context.Context, cid string) (json.RawMessage, error) {
	cid, err := NormalizeCID(cid)
	if err != nil {
		return nil, err
	}

	if r.Cache != nil {
		doc, err := r.Cache.Get(cid)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolver: cache: %w", err)
		}
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	for _, gw := range r.Gateways {
		doc, err := r.fetchFromGateway(ctx, client, gw, cid)
		if err == nil {
			r.remember(cid, doc)
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Storage.Debug().Err(err).Str("gateway", gw).Str("cid", cid).Msg("gateway fetch failed")
	}

	if r.Fallback != nil {
		doc, err := r.Fallback.ResolveCID(ctx, cid)
		if err == nil && json.Valid(doc) {
			r.remember(cid, doc)
			return doc, nil
		}
		if err != nil {
			log.Storage.Debug().Err(err).Str("cid", cid).Msg("service fetch failed")
		}
	}

	return nil, fmt.Errorf("resolver: %w: %s", ErrNotFound, cid)
}

func (r *Resolver) remember(cid string, doc []byte) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Put(cid, doc); err != nil {
		log.Storage.Warn().Err(err).Str("cid", cid).Msg("cache write failed")
	}
}

func (r *Resolver) fetchFromGateway(ctx context.Context, client *http.Client, baseURL, cid string) ([]byte, error) {
	url := strings.TrimRight(baseURL, "/") + "/ipfs/" + cid
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolver: gateway %s: %w", baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("resolver: gateway %s: HTTP %d", baseURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("resolver: gateway %s: read body: %w", baseURL, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("resolver: gateway %s: %w", baseURL, ErrNotJSON)
	}
	return data, nil
}

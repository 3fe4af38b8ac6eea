package storage

import (
	"fmt"
	"strings"
)

// Cache stores resolved metadata documents keyed by IPFS CID. CIDs are
// immutable, so entries never expire.
type Cache interface {
	// Put stores doc under cid.
	Put(cid string, doc []byte) error

	// Get returns the document for cid or ErrNotFound.
	Get(cid string) ([]byte, error)

	// Has reports whether cid is cached.
	Has(cid string) (bool, error)

	// Delete removes cid. Deleting a missing entry is not an error.
	Delete(cid string) error

	// List returns every cached CID.
	List() ([]string, error)
}

// NormalizeCID strips an ipfs:// prefix and validates the remainder.
// CIDv0 ("Qm...") and base32/base58 CIDv1 strings are alphanumeric.
func NormalizeCID(cid string) (string, error) {
	cid = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cid), "ipfs://"))
	if cid == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidCID)
	}
	for _, r := range cid {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "", fmt.Errorf("%w: %q", ErrInvalidCID, cid)
		}
	}
	return cid, nil
}

package slp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IPFSScheme prefixes content identifiers stored in token metadata.
const IPFSScheme = "ipfs://"

// MetadataWriter produces the OP_RETURN script that publishes a new
// content identifier for a token's mutable data.
type MetadataWriter interface {
	WriteCID(cid string) ([]byte, error)
}

// cidRecord is the JSON body of a mutable data update.
type cidRecord struct {
	CID string `json:"cid"`
	TS  int64  `json:"ts"`
}

// CIDWriter writes OP_RETURN <{"cid":"ipfs://<cid>","ts":<unix ms>}>.
type CIDWriter struct {
	Now func() time.Time
}

// WriteCID implements MetadataWriter.
func (w CIDWriter) WriteCID(cid string) ([]byte, error) {
	cid = strings.TrimSpace(cid)
	if cid == "" || cid == IPFSScheme {
		return nil, fmt.Errorf("%w: empty CID", ErrEncoding)
	}
	if !strings.HasPrefix(cid, IPFSScheme) {
		cid = IPFSScheme + cid
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	body, err := json.Marshal(cidRecord{CID: cid, TS: now().UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	b := newScriptBuilder()
	b.push(body)
	return b.finish()
}

// StripIPFSScheme returns the bare CID of an ipfs:// URI and whether the
// prefix was present.
func StripIPFSScheme(uri string) (string, bool) {
	if !strings.HasPrefix(uri, IPFSScheme) {
		return uri, false
	}
	return strings.TrimPrefix(uri, IPFSScheme), true
}

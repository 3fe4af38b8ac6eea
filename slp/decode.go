package slp

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// Decode parses an OP_RETURN script produced by this package back into a Payload.
func Decode(s []byte) (Payload, error) {
	pushes, err := splitPushes(s)
	if err != nil {
		return nil, err
	}
	if len(pushes) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrNotSLP)
	}

	if !bytes.Equal(pushes[0], LokadID) {
		if len(pushes) == 1 {
			return decodeJSONPayload(pushes[0])
		}
		return nil, fmt.Errorf("%w: missing lokad id", ErrNotSLP)
	}
	if len(pushes) < 3 || len(pushes[1]) != 1 {
		return nil, fmt.Errorf("%w: malformed header", ErrNotSLP)
	}

	tokenType := TokenType(pushes[1][0])
	fields := pushes[3:]
	switch string(pushes[2]) {
	case string(txTypeGenesis):
		if len(fields) != 7 {
			return nil, fmt.Errorf("%w: GENESIS has %d fields", ErrEncoding, len(fields))
		}
		g := Genesis{
			TokenType:   tokenType,
			Ticker:      string(fields[0]),
			Name:        string(fields[1]),
			DocumentURL: string(fields[2]),
		}
		if len(fields[3]) > 0 {
			g.DocumentHash = fields[3]
		}
		if len(fields[4]) != 1 {
			return nil, fmt.Errorf("%w: decimals field", ErrEncoding)
		}
		g.Decimals = fields[4][0]
		if len(fields[5]) == 1 {
			g.BatonVout = fields[5][0]
		}
		if g.Quantity, err = readUint64(fields[6]); err != nil {
			return nil, err
		}
		return g, nil

	case string(txTypeMint):
		if len(fields) != 3 || len(fields[0]) != TokenIDLen {
			return nil, fmt.Errorf("%w: malformed MINT", ErrEncoding)
		}
		m := Mint{
			TokenType:    tokenType,
			TokenID:      hex.EncodeToString(fields[0]),
			DestroyBaton: len(fields[1]) == 0,
		}
		if m.Quantity, err = readUint64(fields[2]); err != nil {
			return nil, err
		}
		return m, nil

	case string(txTypeSend):
		if len(fields) < 2 || len(fields[0]) != TokenIDLen {
			return nil, fmt.Errorf("%w: malformed SEND", ErrEncoding)
		}
		s := Send{TokenType: tokenType, TokenID: hex.EncodeToString(fields[0])}
		for _, f := range fields[1:] {
			q, err := readUint64(f)
			if err != nil {
				return nil, err
			}
			s.Quantities = append(s.Quantities, q)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: transaction type %q", ErrNotSLP, pushes[2])
	}
}

func decodeJSONPayload(body []byte) (Payload, error) {
	var rec struct {
		MDA string `json:"mda"`
		CID string `json:"cid"`
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSLP, err)
	}
	switch {
	case rec.MDA != "":
		return MutableDataLink{Address: rec.MDA}, nil
	case rec.CID != "":
		return MutableDataUpdate{CID: rec.CID}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized JSON payload", ErrNotSLP)
	}
}

func readUint64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: quantity must be 8 bytes, got %d", ErrEncoding, len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// splitPushes returns the data pushes following a leading OP_RETURN.
func splitPushes(s []byte) ([][]byte, error) {
	if len(s) == 0 || s[0] != script.OpRETURN {
		return nil, fmt.Errorf("%w: missing OP_RETURN", ErrNotSLP)
	}
	var pushes [][]byte
	for i := 1; i < len(s); {
		op := s[i]
		i++
		var n int
		switch {
		case op >= 0x01 && op <= 0x4b:
			n = int(op)
		case op == script.OpPUSHDATA1:
			if i+1 > len(s) {
				return nil, fmt.Errorf("%w: truncated push", ErrNotSLP)
			}
			n = int(s[i])
			i++
		case op == script.OpPUSHDATA2:
			if i+2 > len(s) {
				return nil, fmt.Errorf("%w: truncated push", ErrNotSLP)
			}
			n = int(s[i]) | int(s[i+1])<<8
			i += 2
		default:
			return nil, fmt.Errorf("%w: unexpected opcode 0x%02x", ErrNotSLP, op)
		}
		if i+n > len(s) {
			return nil, fmt.Errorf("%w: truncated push", ErrNotSLP)
		}
		pushes = append(pushes, s[i:i+n])
		i += n
	}
	return pushes, nil
}

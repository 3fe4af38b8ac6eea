package action

import (
	"github.com/bitfsorg/libslp-go/address"
)

// DestroyBatonSentinel is the receiver value that burns the mint baton.
const DestroyBatonSentinel = "null"

// BatonMode decides where a re-emitted mint baton goes.
type BatonMode int

const (
	BatonReturnToSelf BatonMode = iota
	BatonRedirect
	BatonDestroy
)

// String returns the mode name.
func (m BatonMode) String() string {
	switch m {
	case BatonReturnToSelf:
		return "return-to-self"
	case BatonRedirect:
		return "redirect"
	case BatonDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// BatonReceiver is the resolved destination of a mint baton.
// Address is set only for BatonRedirect.
type BatonReceiver struct {
	Mode    BatonMode
	Address string
}

// ParseBatonReceiver maps the receiver flag onto a BatonReceiver:
// "null" destroys the baton, "" returns it to the minting wallet, and any
// other value must be an address that receives it.
func ParseBatonReceiver(receiver string) (BatonReceiver, error) {
	switch receiver {
	case DestroyBatonSentinel:
		return BatonReceiver{Mode: BatonDestroy}, nil
	case "":
		return BatonReceiver{Mode: BatonReturnToSelf}, nil
	}
	if _, err := address.Decode(receiver); err != nil {
		return BatonReceiver{}, invalid("Invalid baton receiver address: " + receiver)
	}
	return BatonReceiver{Mode: BatonRedirect, Address: receiver}, nil
}

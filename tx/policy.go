package tx

const (
	// DustLimit is the value of every token, baton and marker output in satoshis.
	DustLimit = uint64(546)

	// DefaultFee is the fixed fee charged by single-funding token actions.
	DefaultFee = uint64(550)

	// DefaultFeeRate is the fee rate in sat/KB used for size-based estimates.
	DefaultFeeRate = uint64(1000)

	// TxVersion is the transaction version written by the assembler.
	TxVersion = 2
)

// Policy holds the fee and dust constants applied to a build.
type Policy struct {
	Fee     uint64 // fixed fee in satoshis
	Dust    uint64 // dust output value in satoshis
	FeeRate uint64 // sat/KB for multi-input estimates
}

// DefaultPolicy returns the 550/546 policy deployed wallets expect.
func DefaultPolicy() Policy {
	return Policy{Fee: DefaultFee, Dust: DustLimit, FeeRate: DefaultFeeRate}
}

// normalized fills zero fields with defaults.
func (p Policy) normalized() Policy {
	if p.Fee == 0 {
		p.Fee = DefaultFee
	}
	if p.Dust == 0 {
		p.Dust = DustLimit
	}
	if p.FeeRate == 0 {
		p.FeeRate = DefaultFeeRate
	}
	return p
}

// Normalized returns p with zero fields replaced by defaults.
func (p Policy) Normalized() Policy {
	return p.normalized()
}

// FeeFor returns the fixed fee, or the size-based estimate when that is larger.
func (p Policy) FeeFor(numInputs, numOutputs, opReturnLen int) uint64 {
	p = p.normalized()
	est := EstimateFee(EstimateTxSize(numInputs, numOutputs, opReturnLen), p.FeeRate)
	if est > p.Fee {
		return est
	}
	return p.Fee
}

// EstimateFee estimates the transaction fee for a given size and fee rate.
// Returns ceil(txSizeBytes * feeRate / 1000).
func EstimateFee(txSizeBytes int, feeRate uint64) uint64 {
	if feeRate == 0 {
		feeRate = DefaultFeeRate
	}
	fee := uint64(txSizeBytes) * feeRate
	return (fee + 999) / 1000
}

// EstimateTxSize estimates the size of a P2PKH transaction in bytes.
func EstimateTxSize(numInputs, numOutputs int, opReturnLen int) int {
	// Base: version(4) + locktime(4) + input count varint(1) + output count varint(1) = 10
	// Per input: prevhash(32) + previndex(4) + scriptlen varint(1) + script(~107 for P2PKH) + sequence(4) = 148
	// Per output: value(8) + scriptlen varint(1) + script(25 for P2PKH) = 34
	// OP_RETURN output: value(8) + scriptlen varint(1 or 3) + script
	size := 10 + numInputs*148 + numOutputs*34
	if opReturnLen > 0 {
		size += 9 + opReturnLen
		if opReturnLen > 252 {
			size += 2
		}
	}
	return size
}

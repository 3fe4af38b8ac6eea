package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrDecryptionFailed indicates wrong password or corrupted wallet data.
	ErrDecryptionFailed = errors.New("wallet: secret decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates secret checksum verification failed after decryption.
	ErrChecksumMismatch = errors.New("wallet: secret checksum mismatch")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrInvalidWIF indicates a private key string could not be decoded.
	ErrInvalidWIF = errors.New("wallet: invalid WIF private key")

	// ErrWalletNotFound indicates no wallet record exists under the name.
	ErrWalletNotFound = errors.New("wallet: wallet not found")

	// ErrWalletExists indicates the wallet name is already taken.
	ErrWalletExists = errors.New("wallet: wallet already exists")

	// ErrInvalidName indicates an empty or malformed wallet name.
	ErrInvalidName = errors.New("wallet: invalid wallet name")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("wallet: required parameter is nil")
)

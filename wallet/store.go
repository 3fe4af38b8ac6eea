package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

var bucketWallets = []byte("wallets")

// Record is a named wallet as persisted on disk. The mnemonic is only
// stored sealed under the wallet password.
type Record struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Network       string    `json:"network"`
	CashAddress   string    `json:"cashAddress"`
	LegacyAddress string    `json:"legacyAddress"`
	HDPath        string    `json:"hdPath"`
	CreatedAt     time.Time `json:"createdAt"`
	Sealed        []byte    `json:"sealed"`
}

// Store keeps wallet records in a bbolt database.
type Store struct {
	db *bbolt.DB
}

// OpenStore opens or creates the wallet database at dbPath.
func OpenStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("wallet: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("wallet: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketWallets)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("wallet: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Create generates a 12-word mnemonic and stores it as a new wallet.
// The mnemonic is returned once so the caller can show it to the user.
func (s *Store) Create(name, description, password string, network *NetworkConfig) (*Record, string, error) {
	mnemonic, err := GenerateMnemonic(Mnemonic12Words)
	if err != nil {
		return nil, "", err
	}
	rec, err := s.Import(name, description, password, mnemonic, network)
	if err != nil {
		return nil, "", err
	}
	return rec, mnemonic, nil
}

// Import stores an existing mnemonic under name.
func (s *Store) Import(name, description, password, mnemonic string, network *NetworkConfig) (*Record, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if network == nil {
		network = &MainNet
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, err
	}
	hd, err := NewHDWallet(seed, network)
	if err != nil {
		return nil, err
	}
	kp, err := hd.DefaultKey()
	if err != nil {
		return nil, err
	}
	sealed, err := SealSecret([]byte(mnemonic), password)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Name:          name,
		Description:   description,
		Network:       network.Name,
		CashAddress:   kp.CashAddr,
		LegacyAddress: kp.Legacy,
		HDPath:        kp.Path,
		CreatedAt:     time.Now().UTC(),
		Sealed:        sealed,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("wallet: encode record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketWallets)
		if b.Get([]byte(name)) != nil {
			return fmt.Errorf("%w: %q", ErrWalletExists, name)
		}
		return b.Put([]byte(name), data)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the record stored under name.
func (s *Store) Get(name string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketWallets).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every record ordered by name.
func (s *Store) List() ([]*Record, error) {
	var out []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketWallets).ForEach(func(_, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("wallet: decode record: %w", err)
			}
			out = append(out, &rec)
			return nil
		})
	})
	return out, err
}

// Delete removes the record stored under name.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketWallets)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
		}
		return b.Delete([]byte(name))
	})
}

// Unlock decrypts the named wallet and derives its signing key.
func (s *Store) Unlock(name, password string) (*KeyPair, *NetworkConfig, error) {
	rec, err := s.Get(name)
	if err != nil {
		return nil, nil, err
	}
	network, err := GetNetwork(rec.Network)
	if err != nil {
		return nil, nil, err
	}
	mnemonic, err := OpenSecret(rec.Sealed, password)
	if err != nil {
		return nil, nil, err
	}
	seed, err := SeedFromMnemonic(string(mnemonic), "")
	if err != nil {
		return nil, nil, err
	}
	hd, err := NewHDWallet(seed, network)
	if err != nil {
		return nil, nil, err
	}
	kp, err := hd.DefaultKey()
	if err != nil {
		return nil, nil, err
	}
	if kp.CashAddr != rec.CashAddress {
		return nil, nil, errors.New("wallet: derived address does not match stored record")
	}
	return kp, network, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

package keyring

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gagliardetto/solana-go"
)

// keyFile is the on-disk JSON format for one encrypted signing key.
type keyFile struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Address      string    `json:"address"` // base58 public key
	EncryptedKey []byte    `json:"encrypted_key"`
}

// Keystore manages encrypted ed25519 keys on disk, one file per key.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given
// directory. The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// keyPath returns the file path for a key by name.
func (ks *Keystore) keyPath(name string) string {
	return filepath.Join(ks.path, name+".key")
}

// Create encrypts and stores a signing key under name. The public key
// is recorded in the clear so addresses can be listed without the
// password.
func (ks *Keystore) Create(name string, priv ed25519.PrivateKey, password []byte, params EncryptionParams) (solana.PublicKey, error) {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); err == nil {
		return solana.PublicKey{}, fmt.Errorf("key %q already exists", name)
	}

	encrypted, err := Encrypt(priv.Seed(), password, params)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("encrypt key: %w", err)
	}

	addr := solana.PublicKeyFromBytes(priv.Public().(ed25519.PublicKey))
	kf := keyFile{
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		Address:      addr.String(),
		EncryptedKey: encrypted,
	}

	if err := ks.writeFile(path, &kf); err != nil {
		return solana.PublicKey{}, err
	}
	return addr, nil
}

// Load decrypts a key and returns the signing key.
func (ks *Keystore) Load(name string, password []byte) (ed25519.PrivateKey, error) {
	kf, err := ks.readFile(ks.keyPath(name))
	if err != nil {
		return nil, err
	}

	seed, err := Decrypt(kf.EncryptedKey, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt key %q: %w", name, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key %q: bad seed length %d", name, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}

// Address returns the public key stored for name without decrypting.
func (ks *Keystore) Address(name string) (solana.PublicKey, error) {
	kf, err := ks.readFile(ks.keyPath(name))
	if err != nil {
		return solana.PublicKey{}, err
	}
	addr, err := solana.PublicKeyFromBase58(kf.Address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("key %q: bad stored address: %w", name, err)
	}
	return addr, nil
}

// List returns the names of all key files in the keystore.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".key" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a key file.
func (ks *Keystore) Delete(name string) error {
	path := ks.keyPath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("key %q not found", name)
	}
	return os.Remove(path)
}

func (ks *Keystore) writeFile(path string, kf *keyFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path string) (*keyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported key file version: %d", kf.Version)
	}
	return &kf, nil
}

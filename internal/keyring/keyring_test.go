package keyring

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64, // 64 KiB (minimal)
		Iterations:  1,
		Parallelism: 1,
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	plaintext := []byte("secret key material")
	password := []byte("strong-password-123")

	encrypted, err := Encrypt(plaintext, password, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	decrypted, err := Decrypt(encrypted, password)
	if err != nil {
		t.Fatalf("Decrypt() error: %v", err)
	}

	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	encrypted, err := Encrypt([]byte("data"), []byte("right"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(encrypted, []byte("wrong")); err == nil {
		t.Fatal("Decrypt() with wrong password should fail")
	}
}

func TestDecrypt_Truncated(t *testing.T) {
	encrypted, err := Encrypt([]byte("data"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(encrypted[:10], []byte("pass")); err == nil {
		t.Fatal("Decrypt() of truncated data should fail")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	encrypted, err := Encrypt([]byte("data"), []byte("pass"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	encrypted[len(encrypted)-1] ^= 0xFF
	if _, err := Decrypt(encrypted, []byte("pass")); err == nil {
		t.Fatal("Decrypt() of tampered data should fail")
	}
}

func TestGenerateMnemonic(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	if words := len(strings.Fields(m)); words != 24 {
		t.Errorf("mnemonic has %d words, want 24", words)
	}
	if !ValidateMnemonic(m) {
		t.Error("generated mnemonic fails validation")
	}

	// Two calls never collide.
	m2, err := GenerateMnemonic()
	if err != nil {
		t.Fatal(err)
	}
	if m == m2 {
		t.Error("two generated mnemonics are equal")
	}
}

func TestValidateMnemonic_Invalid(t *testing.T) {
	for _, bad := range []string{
		"",
		"not a mnemonic",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
	} {
		if ValidateMnemonic(bad) {
			t.Errorf("ValidateMnemonic(%q) = true", bad)
		}
	}
}

func TestKeyFromMnemonic_Deterministic(t *testing.T) {
	m, err := GenerateMnemonic()
	if err != nil {
		t.Fatal(err)
	}

	k1, err := KeyFromMnemonic(m, "")
	if err != nil {
		t.Fatalf("KeyFromMnemonic() error: %v", err)
	}
	k2, err := KeyFromMnemonic(m, "")
	if err != nil {
		t.Fatal(err)
	}
	if !k1.Equal(k2) {
		t.Error("same mnemonic yielded different keys")
	}

	// Passphrase changes the key.
	k3, err := KeyFromMnemonic(m, "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if k1.Equal(k3) {
		t.Error("passphrase did not change the key")
	}

	if _, err := KeyFromMnemonic("garbage words", ""); err == nil {
		t.Error("invalid mnemonic accepted")
	}
}

func TestKeystore_CreateLoad(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystore() error: %v", err)
	}

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	password := []byte("pass")

	addr, err := ks.Create("alice", priv, password, fastParams())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// Duplicate names are rejected.
	if _, err := ks.Create("alice", priv, password, fastParams()); err == nil {
		t.Error("duplicate Create() should fail")
	}

	loaded, err := ks.Load("alice", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !loaded.Equal(priv) {
		t.Error("loaded key differs from stored key")
	}

	// Address is readable without the password.
	got, err := ks.Address("alice")
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if got != addr {
		t.Errorf("Address() = %s, want %s", got, addr)
	}

	if _, err := ks.Load("alice", []byte("wrong")); err == nil {
		t.Error("Load() with wrong password should fail")
	}
	if _, err := ks.Load("bob", password); err == nil {
		t.Error("Load() of missing key should fail")
	}
}

func TestKeystore_ListDelete(t *testing.T) {
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	names, err := ks.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("fresh keystore lists %d keys", len(names))
	}

	for _, name := range []string{"alice", "bob"} {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ks.Create(name, priv, []byte("pass"), fastParams()); err != nil {
			t.Fatalf("Create(%q) error: %v", name, err)
		}
	}

	names, err = ks.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 {
		t.Fatalf("List() = %v, want 2 entries", names)
	}

	if err := ks.Delete("alice"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := ks.Delete("alice"); err == nil {
		t.Error("double Delete() should fail")
	}

	names, err = ks.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 || names[0] != "bob" {
		t.Errorf("List() = %v, want [bob]", names)
	}
}

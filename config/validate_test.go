package config

import "testing"

func TestValidate_Defaults(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidate_BadStorage(t *testing.T) {
	cfg := Default()
	cfg.Storage = "leveldb"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestValidate_BadgerRequiresDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for badger storage without datadir")
	}

	cfg.Storage = StorageMemory
	if err := Validate(cfg); err != nil {
		t.Fatalf("memory storage should not require datadir: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Default()
	cfg.RPC.Port = 70000
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidate_EmptyStorageDefaultsToBadger(t *testing.T) {
	cfg := Default()
	cfg.Storage = ""
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Storage != StorageBadger {
		t.Errorf("Storage = %q, want badger", cfg.Storage)
	}
}

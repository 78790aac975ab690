package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultPointsAtSecureEndpoint(t *testing.T) {
	cfg := Default()

	if cfg.Host != "irc.chat.twitch.tv" || cfg.Port != "6697" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Nick != "" || cfg.Token != "" {
		t.Fatalf("identity must default to unset (anonymous)")
	}
}

func TestUpdateFromSkipsZeroValues(t *testing.T) {
	cfg := Default()
	cfg.UpdateFrom(Config{Nick: "alice", Channels: []string{"#a"}})

	if cfg.Nick != "alice" || len(cfg.Channels) != 1 {
		t.Fatalf("non-zero overrides must apply: %+v", cfg)
	}
	if cfg.Host != "irc.chat.twitch.tv" || cfg.LogLevel != "info" {
		t.Fatalf("zero overrides must not clobber defaults: %+v", cfg)
	}
}

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twitchwire.yaml")

	cfg, resolved, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file must be written: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("fresh load must equal defaults: %+v", cfg)
	}
}

func TestLoadReadsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twitchwire.yaml")
	body := "host: example.org\nnick: alice\nchannels:\n  - \"#a\"\n  - \"#b\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := Load(nil, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "example.org" || cfg.Nick != "alice" {
		t.Fatalf("file values must apply: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Channels, []string{"#a", "#b"}) {
		t.Fatalf("channels %v", cfg.Channels)
	}
	if cfg.Port != "6697" {
		t.Fatalf("unset keys must keep defaults: %+v", cfg)
	}
}

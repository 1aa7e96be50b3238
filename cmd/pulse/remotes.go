package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

// remotesFile is the on-disk shape of remotes.toml: every named server
// profile plus which one is active.
type remotesFile struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is one named server profile.
type Remote struct {
	URL     string `toml:"url"`
	Token   string `toml:"token,omitempty"`
	NATSURL string `toml:"nats_url,omitempty"`
}

// remoteConfigPath returns $XDG_STATE_HOME/pulse/remotes.toml, falling
// back to ~/.local/state/pulse/remotes.toml, creating the directory.
func remoteConfigPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "pulse")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

// loadRemotesConfig reads remotes.toml; a missing file is an empty config.
func loadRemotesConfig() (remotesFile, error) {
	path, err := remoteConfigPath()
	if err != nil {
		return remotesFile{}, err
	}
	var cfg remotesFile
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return remotesFile{Remotes: map[string]Remote{}}, nil
		}
		return remotesFile{}, err
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

func saveRemotesConfig(cfg remotesFile) error {
	path, err := remoteConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// The active profile is resolved once per process; every command that
// needs a URL or token reads this cache.
var activeRemote struct {
	once sync.Once
	Remote
}

func loadActiveRemote() Remote {
	activeRemote.once.Do(func() {
		cfg, err := loadRemotesConfig()
		if err != nil || cfg.Active == "" {
			return
		}
		if r, ok := cfg.Remotes[cfg.Active]; ok {
			activeRemote.Remote = r
		}
	})
	return activeRemote.Remote
}

func activeRemoteURL() string     { return loadActiveRemote().URL }
func activeRemoteToken() string   { return loadActiveRemote().Token }
func activeRemoteNATSURL() string { return loadActiveRemote().NATSURL }

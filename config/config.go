// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/thediveo/lxkns/log"
)

// DefaultPath is the default location of the settings file.
const DefaultPath = "settings.json"

// MaxTileThreads limits the loading and saving threads to the number of
// atlas tiles.
const MaxTileThreads = 64

// ErrSettings signals invalid settings.
var ErrSettings = errors.New("invalid settings")

// ThreadAmounts are the sizes of the worker pools of a scan cycle.
type ThreadAmounts struct {
	Ping   int `koanf:"ping_thread_amount"`
	Load   int `koanf:"load_thread_amount"`
	Result int `koanf:"result_thread_amount"`
	Save   int `koanf:"save_thread_amount"`
}

// Profile is a named set of settings.
type Profile struct {
	ThreadAmounts ThreadAmounts `koanf:"thread_amounts"`
}

// Settings consist of the built-in default profile and a user-defined
// profile, with a switch telling which one is in effect.
type Settings struct {
	UseDefault  bool    `koanf:"default_settings"`
	Default     Profile `koanf:"default"`
	UserDefined Profile `koanf:"user_defined"`
}

// DefaultThreadAmounts returns the built-in thread amounts.
func DefaultThreadAmounts() ThreadAmounts {
	return ThreadAmounts{Ping: 4, Load: 32, Result: 16, Save: 32}
}

// Defaults returns settings using the built-in default profile.
func Defaults() *Settings {
	return &Settings{
		UseDefault:  true,
		Default:     Profile{ThreadAmounts: DefaultThreadAmounts()},
		UserDefined: Profile{ThreadAmounts: DefaultThreadAmounts()},
	}
}

// Load reads the settings from the specified JSON file. Settings missing from
// the file take on their defaults; a missing file results in the default
// settings.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")
	if err := Defaults().into(k); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debugf("no settings file %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("cannot read settings file %s: %w", path, err)
	default:
		if err := k.Load(rawbytes.Provider(data), json.Parser()); err != nil {
			return nil, fmt.Errorf("cannot parse settings file %s: %s: %w", path, err.Error(), ErrSettings)
		}
	}
	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("cannot decode settings file %s: %s: %w", path, err.Error(), ErrSettings)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings file %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the settings as JSON to the specified file.
func (s *Settings) Save(path string) error {
	k := koanf.New(".")
	if err := s.into(k); err != nil {
		return err
	}
	data, err := k.Marshal(json.Parser())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// into sets all settings as keys of the specified koanf instance.
func (s *Settings) into(k *koanf.Koanf) error {
	if err := k.Set("default_settings", s.UseDefault); err != nil {
		return err
	}
	for name, profile := range map[string]Profile{
		"default":      s.Default,
		"user_defined": s.UserDefined,
	} {
		for key, value := range profile.ThreadAmounts.keys() {
			if err := k.Set(name+".thread_amounts."+key, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Active returns the thread amounts currently in effect.
func (s *Settings) Active() ThreadAmounts {
	if s.UseDefault {
		return s.Default.ThreadAmounts
	}
	return s.UserDefined.ThreadAmounts
}

// ActiveName returns the name of the profile currently in effect.
func (s *Settings) ActiveName() string {
	if s.UseDefault {
		return "default"
	}
	return "user_defined"
}

// UseDefaults switches to the default profile.
func (s *Settings) UseDefaults() {
	s.UseDefault = true
}

// SetUserDefined switches to the user-defined profile with the specified
// thread amounts, failing with [ErrSettings] if they are invalid.
func (s *Settings) SetUserDefined(t ThreadAmounts) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.UserDefined.ThreadAmounts = t
	s.UseDefault = false
	return nil
}

// Validate both profiles.
func (s *Settings) Validate() error {
	if err := s.Default.ThreadAmounts.Validate(); err != nil {
		return fmt.Errorf("default profile: %w", err)
	}
	if err := s.UserDefined.ThreadAmounts.Validate(); err != nil {
		return fmt.Errorf("user_defined profile: %w", err)
	}
	return nil
}

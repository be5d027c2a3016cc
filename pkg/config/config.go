// Package config loads typed configuration structs from the environment.
// When an env file is present it is exported into the process environment
// first, so envconfig sees one merged view. The file defaults to ./.env and
// can be pointed elsewhere with the -env flag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFile  string
	flagOnce sync.Once
)

// MustNew is New with a panic on failure. Startup configuration errors are
// not recoverable, so wiring code in main uses this form.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New fills a T from environment variables carrying the given prefix.
// Defaults and required markers come from the struct's envconfig tags.
func New[T any](prefix string) (*T, error) {
	if path := envFlagPath(); path != "" {
		if err := exportFile(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := exportFileIfExists(".env"); err != nil {
		return nil, fmt.Errorf("load default env file: %w", err)
	}

	conf := new(T)
	if err := envconfig.Process(prefix, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// envFlagPath registers the -env flag once and returns its value. Other
// packages or tests may have parsed flags already, so registration is
// guarded.
func envFlagPath() string {
	flagOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFile, "env", "", "path to an env file exported before config loads")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFile)
}

func exportFileIfExists(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case info.IsDir():
		return nil
	}
	return exportFile(path)
}

// exportFile copies every key in the file into the process environment with
// an upper-cased name, matching what envconfig expects.
func exportFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(key), fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}

// Package config provides type-safe environment variable loading with
// caching. Each configuration type is loaded once per process and cached for
// subsequent calls; a .env file, when present, is loaded before the first
// parse.
//
//	type SessionConfig struct {
//		Secrets string `env:"SESSION_SECRETS,required"`
//		Name    string `env:"SESSION_COOKIE_NAME" envDefault:"connect.sid"`
//	}
//
//	var cfg SessionConfig
//	config.MustLoad(&cfg)
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is returned when the argument is not a non-nil pointer to
// a struct.
var ErrInvalidConfig = errors.New("config target must be a non-nil struct pointer")

var (
	cache      sync.Map // reflect.Type -> struct value
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg, which must be a non-nil
// pointer to a struct with env tags. The first successful load of each type
// is cached; later calls for the same type return the cached value.
func Load(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrInvalidConfig
	}

	dotenvOnce.Do(func() {
		// Missing .env files are fine; explicit environment wins anyway.
		_ = godotenv.Load()
	})

	key := v.Elem().Type()
	if cached, ok := cache.Load(key); ok {
		v.Elem().Set(reflect.ValueOf(cached))
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse %s from environment: %w", key, err)
	}

	cache.Store(key, v.Elem().Interface())
	return nil
}

// MustLoad is Load that panics on failure, for use during startup.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}

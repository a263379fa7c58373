package credentials

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"

	"resala-backend/internal/logging"
)

// Source orders
const (
	OrderFileFirst = "file-first"
	OrderEnvFirst  = "env-first"
)

// Scopes requested for the spreadsheet client
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// ErrNotConfigured is returned by a source that has nothing to offer (missing file, unset variable)
var ErrNotConfigured = errors.New("credential source not configured")

// Options selects where service-account credentials come from
type Options struct {
	File   string // path to a service-account JSON file
	EnvVar string // name of an environment variable holding base64-encoded JSON
	Order  string // OrderFileFirst or OrderEnvFirst
}

// Loader resolves service-account credentials. Getenv and ReadFile default to the os package.
type Loader struct {
	Getenv   func(string) string
	ReadFile func(string) ([]byte, error)
}

// NewLoader creates a loader backed by the process environment and filesystem
func NewLoader() *Loader {
	return &Loader{Getenv: os.Getenv, ReadFile: os.ReadFile}
}

// Load tries each source in order and returns the first credentials found
func (l *Loader) Load(ctx context.Context, opts Options) (*google.Credentials, error) {
	data, source, err := l.LoadJSON(opts)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials from %s: %w", source, err)
	}
	return creds, nil
}

// LoadJSON returns the raw service-account JSON and a description of where it came from
func (l *Loader) LoadJSON(opts Options) ([]byte, string, error) {
	logger := logging.NewComponentLogger("credentials")

	type source struct {
		name string
		load func() ([]byte, error)
	}
	fileSource := source{"file " + opts.File, func() ([]byte, error) { return l.fromFile(opts.File) }}
	envSource := source{"env " + opts.EnvVar, func() ([]byte, error) { return l.fromEnv(opts.EnvVar) }}

	sources := []source{fileSource, envSource}
	switch opts.Order {
	case OrderEnvFirst:
		sources = []source{envSource, fileSource}
	case OrderFileFirst, "":
	default:
		return nil, "", fmt.Errorf("unknown credentials order: %q", opts.Order)
	}

	var attempts []string
	for _, src := range sources {
		data, err := src.load()
		if err == nil {
			logger.Info().Str("source", src.name).Msg("Loaded service account credentials")
			return data, src.name, nil
		}
		if !errors.Is(err, ErrNotConfigured) {
			return nil, "", fmt.Errorf("%s: %w", src.name, err)
		}
		attempts = append(attempts, src.name)
	}

	return nil, "", fmt.Errorf("no service account credentials found (tried %s): %w",
		strings.Join(attempts, ", "), ErrNotConfigured)
}

func (l *Loader) fromFile(path string) ([]byte, error) {
	if path == "" {
		return nil, ErrNotConfigured
	}
	data, err := l.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotConfigured
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

func (l *Loader) fromEnv(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrNotConfigured
	}
	encoded := strings.TrimSpace(l.Getenv(name))
	if encoded == "" {
		return nil, ErrNotConfigured
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 credentials: %w", err)
	}
	return data, nil
}

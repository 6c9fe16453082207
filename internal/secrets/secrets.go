package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
	"github.com/daniloc96/github-members-state/internal/config"
)

type secretGetter interface {
	GetSecretString(secretName string) (string, error)
}

// Manager wraps the Secrets Manager cache client.
type Manager struct {
	cache *secretcache.Cache
}

// NewManager creates a new Secrets Manager cache.
func NewManager() (*Manager, error) {
	cache, err := secretcache.New()
	if err != nil {
		return nil, err
	}
	return &Manager{cache: cache}, nil
}

// GetSecretString retrieves a secret value from Secrets Manager.
func (m *Manager) GetSecretString(secretName string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name is required")
	}
	return m.cache.GetSecretString(secretName)
}

var newSecretGetter = func() (secretGetter, error) {
	return NewManager()
}

// LoadSecretFromFile reads a secret value from a local file, trimming surrounding whitespace.
func LoadSecretFromFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ResolveGitHubToken returns the token to use for GitHub, in order of
// precedence: inline token, Secrets Manager secret, token file.
// An empty token with no error means anonymous access.
func ResolveGitHubToken(cfg config.GitHubConfig) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.TokenSecret != "" {
		getter, err := newSecretGetter()
		if err != nil {
			return "", fmt.Errorf("github token secret: %w", err)
		}
		token, err := getter.GetSecretString(cfg.TokenSecret)
		if err != nil {
			return "", fmt.Errorf("github token secret: %w", err)
		}
		return strings.TrimSpace(token), nil
	}
	if cfg.TokenFile != "" {
		token, err := LoadSecretFromFile(cfg.TokenFile)
		if err != nil {
			return "", fmt.Errorf("github token file: %w", err)
		}
		return token, nil
	}
	return "", nil
}

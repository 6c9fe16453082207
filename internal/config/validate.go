package config

import (
	"fmt"
	"regexp"
	"strings"
)

// GitHub organization logins: alphanumerics and single hyphens, at most maxOrgLength chars.
var orgPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)

const maxOrgLength = 39

var logFormats = map[string]struct{}{"json": {}, "text": {}, "pretty": {}}

// Validate ensures configuration is complete and well-formed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs []string

	requireNonEmpty := func(value string, field string) {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is required", field))
		}
	}

	requireNonEmpty(cfg.GitHub.Organization, "github.organization")
	if org := cfg.GitHub.Organization; org != "" && (len(org) > maxOrgLength || !orgPattern.MatchString(org)) {
		errs = append(errs, "github.organization must be a valid GitHub login")
	}
	if cfg.GitHub.PerPage < 1 || cfg.GitHub.PerPage > 100 {
		errs = append(errs, "github.per_page must be between 1 and 100")
	}

	// The public members endpoint works anonymously; everything else needs a token.
	if !cfg.GitHub.PublicOnly {
		if cfg.GitHub.Token == "" && cfg.GitHub.TokenSecret == "" && cfg.GitHub.TokenFile == "" {
			errs = append(errs, "github.token, github.token_secret or github.token_file is required unless github.public_only is set")
		}
		if cfg.IsLambda && cfg.GitHub.Token == "" {
			requireNonEmpty(cfg.GitHub.TokenSecret, "github.token_secret")
		}
	}

	if cfg.Log.Format != "" {
		if _, ok := logFormats[cfg.Log.Format]; !ok {
			errs = append(errs, "log.format must be one of json, text, pretty")
		}
	}

	if cfg.DynamoDB.Enabled {
		requireNonEmpty(cfg.DynamoDB.TableName, "dynamodb.table_name")
		requireNonEmpty(cfg.DynamoDB.Region, "dynamodb.region")
		if cfg.DynamoDB.TTLDays <= 0 {
			errs = append(errs, "dynamodb.ttl_days must be positive")
		}
	}

	if cfg.Metrics.Enabled {
		requireNonEmpty(cfg.Metrics.Namespace, "metrics.namespace")
		requireNonEmpty(cfg.Metrics.Region, "metrics.region")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	validLocal := Config{
		GitHub: GitHubConfig{
			Organization: "lemoncode",
			Token:        "ghp_test",
			PerPage:      100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	cases := []struct {
		name     string
		cfg      Config
		isLambda bool
		wantErr  bool
	}{
		{
			name:     "valid local config",
			cfg:      validLocal,
			isLambda: false,
			wantErr:  false,
		},
		{
			name: "missing organization",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Organization = ""
				return c
			}(),
			wantErr: true,
		},
		{
			name: "invalid organization",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Organization = "-bad--org"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "organization too long",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Organization = "a" + strings.Repeat("-b", 38)
				return c
			}(),
			wantErr: true,
		},
		{
			name: "organization at max length",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Organization = strings.Repeat("a", 39)
				return c
			}(),
			wantErr: false,
		},
		{
			name: "per page out of range",
			cfg: func() Config {
				c := validLocal
				c.GitHub.PerPage = 500
				return c
			}(),
			wantErr: true,
		},
		{
			name: "public only without token",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Token = ""
				c.GitHub.PublicOnly = true
				return c
			}(),
			wantErr: false,
		},
		{
			name: "missing token",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Token = ""
				return c
			}(),
			wantErr: true,
		},
		{
			name: "lambda missing secret",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Token = ""
				c.GitHub.TokenFile = "/tmp/token"
				return c
			}(),
			isLambda: true,
			wantErr:  true,
		},
		{
			name: "valid lambda config",
			cfg: func() Config {
				c := validLocal
				c.GitHub.Token = ""
				c.GitHub.TokenSecret = "github-token"
				return c
			}(),
			isLambda: true,
			wantErr:  false,
		},
		{
			name: "unknown log format",
			cfg: func() Config {
				c := validLocal
				c.Log.Format = "xml"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "dynamodb enabled without ttl",
			cfg: func() Config {
				c := validLocal
				c.DynamoDB = DynamoDBConfig{Enabled: true, TableName: "members-state", Region: "eu-west-1"}
				return c
			}(),
			wantErr: true,
		},
		{
			name: "metrics enabled without namespace",
			cfg: func() Config {
				c := validLocal
				c.Metrics = MetricsConfig{Enabled: true, Region: "eu-west-1"}
				return c
			}(),
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.IsLambda = tc.isLambda
			err := Validate(&cfg)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("github:\n  organization: from-file\n  per_page: 50\nlog:\n  format: pretty\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("GITHUB_TOKEN", "ghp_env")
	t.Setenv("GITHUB_ORG", "")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GitHub.Organization != "from-file" {
		t.Fatalf("expected organization from file, got %q", cfg.GitHub.Organization)
	}
	if cfg.GitHub.PerPage != 50 {
		t.Fatalf("expected per_page 50, got %d", cfg.GitHub.PerPage)
	}
	if cfg.GitHub.Token != "ghp_env" {
		t.Fatalf("expected token from env, got %q", cfg.GitHub.Token)
	}
	if cfg.Log.Format != "pretty" {
		t.Fatalf("expected pretty log format, got %q", cfg.Log.Format)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default server address, got %q", cfg.Server.Address)
	}
	if cfg.IsLambda {
		t.Fatalf("expected non-lambda config")
	}
}

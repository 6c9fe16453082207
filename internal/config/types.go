package config

// Config holds all configuration for the members service.
type Config struct {
	GitHub   GitHubConfig   `json:"github"`
	Log      LogConfig      `json:"log"`
	DynamoDB DynamoDBConfig `json:"dynamodb"`
	Metrics  MetricsConfig  `json:"metrics"`
	Server   ServerConfig   `json:"server"`
	IsLambda bool           `json:"-"`
}

// GitHubConfig holds GitHub settings.
type GitHubConfig struct {
	Organization string `json:"organization"`
	Token        string `json:"-"`
	TokenSecret  string `json:"token_secret,omitempty"`
	TokenFile    string `json:"token_file,omitempty"`
	PublicOnly   bool   `json:"public_only"`
	PerPage      int    `json:"per_page"`
}

// DynamoDBConfig holds DynamoDB settings for state snapshots.
type DynamoDBConfig struct {
	TableName string `json:"table_name"`
	Region    string `json:"region"`
	Endpoint  string `json:"endpoint,omitempty"`
	Enabled   bool   `json:"enabled"`
	TTLDays   int    `json:"ttl_days"`
}

// MetricsConfig holds CloudWatch settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
	Region    string `json:"region"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `json:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

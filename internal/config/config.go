package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port     string `yaml:"port"      env:"PORT"      env-default:"8080"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Upload limits
	MaxFileSize int64 `yaml:"max_file_size" env:"MAX_FILE_SIZE" env-default:"10485760"`

	// Staging of uploaded files while they are analyzed
	StorageBackend string `yaml:"storage_backend"  env:"STORAGE_BACKEND"  env-default:"local"`
	StorageTempDir string `yaml:"storage_temp_dir" env:"STORAGE_TEMP_DIR"`

	// S3
	S3Endpoint        string `yaml:"s3_endpoint"          env:"S3_ENDPOINT"          env-default:"localhost:9000"`
	S3AccessKeyID     string `yaml:"s3_access_key_id"     env:"S3_ACCESS_KEY_ID"     env-default:"minioadmin"`
	S3SecretAccessKey string `yaml:"s3_secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	S3BucketName      string `yaml:"s3_bucket_name"       env:"S3_BUCKET_NAME"       env-default:"uploads"`
	S3UseSSL          bool   `yaml:"s3_use_ssl"           env:"S3_USE_SSL"           env-default:"false"`

	NLP NLPConfig `yaml:"nlp"`

	// Analysis
	MaxConcurrentAnalyses int      `yaml:"max_concurrent_analyses"   env:"MAX_CONCURRENT_ANALYSES"   env-default:"0"`
	CMUDictPath           string   `yaml:"cmu_dict_path"             env:"CMU_DICT_PATH"`
	BoilerplateClasses    []string `yaml:"boilerplate_extra_classes" env:"BOILERPLATE_EXTRA_CLASSES" env-separator:","`

	// API rate limiting, 0 disables it
	APIRateLimit float64 `yaml:"api_rate_limit" env:"API_RATE_LIMIT" env-default:"0"`
	APIRateBurst int     `yaml:"api_rate_burst" env:"API_RATE_BURST" env-default:"20"`
}

// NLPConfig configures the remote NLP collaborator.
type NLPConfig struct {
	ServiceURL      string        `yaml:"service_url"      env:"NLP_SERVICE_URL"      env-default:"http://localhost:8000/analyze"`
	Timeout         time.Duration `yaml:"timeout"          env:"NLP_TIMEOUT"          env-default:"30s"`
	Enabled         bool          `yaml:"enabled"          env:"NLP_ENABLED"          env-default:"true"`
	Required        bool          `yaml:"required"         env:"NLP_REQUIRED"         env-default:"false"`
	SendReadability bool          `yaml:"send_readability" env:"NLP_SEND_READABILITY" env-default:"true"`
	RateLimit       float64       `yaml:"rate_limit"       env:"NLP_RATE_LIMIT"       env-default:"10"`
	RateBurst       int           `yaml:"rate_burst"       env:"NLP_RATE_BURST"       env-default:"5"`
	BreakerFailures uint32        `yaml:"breaker_failures" env:"NLP_BREAKER_FAILURES" env-default:"5"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout"  env:"NLP_BREAKER_TIMEOUT"  env-default:"30s"`
}

// Load reads CONFIG_PATH (or ./config.yaml when present) and then the environment.
// Environment variables win over file values.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be > 0 (got %d)", c.MaxFileSize)
	}

	switch c.StorageBackend {
	case "local", "s3":
	default:
		return fmt.Errorf("storage_backend must be local or s3 (got %q)", c.StorageBackend)
	}

	if c.MaxConcurrentAnalyses < 0 {
		return fmt.Errorf("max_concurrent_analyses must be >= 0 (got %d)", c.MaxConcurrentAnalyses)
	}

	if c.APIRateLimit < 0 {
		return fmt.Errorf("api_rate_limit must be >= 0 (got %v)", c.APIRateLimit)
	}

	if c.NLP.Enabled {
		if err := c.NLP.validate(); err != nil {
			return fmt.Errorf("nlp: %w", err)
		}
	}

	return nil
}

func (n *NLPConfig) validate() error {
	u, err := url.Parse(n.ServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service_url must be an absolute URL (got %q)", n.ServiceURL)
	}
	if n.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", n.Timeout)
	}
	if n.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be > 0 (got %v)", n.RateLimit)
	}
	if n.RateBurst <= 0 {
		return fmt.Errorf("rate_burst must be > 0 (got %d)", n.RateBurst)
	}
	return nil
}

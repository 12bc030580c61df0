package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wps3sync/internal/domain"
)

// URL rewrite modes.
const (
	URLModeCDN     = "cdn"
	URLModeDirect  = "direct"
	URLModePresign = "presign"
	URLModeOff     = "off"
)

// Storage providers.
const (
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// EnvironmentProduction enables release mode and requires hook authentication.
const EnvironmentProduction = "production"

// Database drivers.
const (
	DriverMySQL = "mysql"
	DriverPgx   = "pgx"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	S3        S3Config
	Media     MediaConfig
	DB        DBConfig
	Hooks     HooksConfig
	Scan      ScanConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	ACL           string `mapstructure:"acl"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MediaConfig describes the host's upload root and how its URLs are rewritten.
type MediaConfig struct {
	UploadBaseDir string `mapstructure:"upload_base_dir"`
	UploadBaseURL string `mapstructure:"upload_base_url"`
	CDNURL        string `mapstructure:"cdn_url"`
	URLMode       string `mapstructure:"url_mode"`
	DeleteLocal   bool   `mapstructure:"delete_local"`
	SuppressSizes bool   `mapstructure:"suppress_sizes"`
}

// DBConfig holds the WordPress database connection settings.
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	TablePrefix string `mapstructure:"table_prefix"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
}

// Enabled reports whether a database host is configured.
func (d *DBConfig) Enabled() bool {
	return d.Host != ""
}

// HooksConfig holds the shared secret used to authenticate hook calls.
type HooksConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// ScanConfig holds ClamAV settings. An empty address disables scanning.
type ScanConfig struct {
	ClamdAddress string `mapstructure:"clamd_address"`
	FailClosed   bool   `mapstructure:"fail_closed"`
}

// RateLimitConfig holds per-client rate limit settings for the hook routes.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// Load reads configuration from environment variables with the WPS3SYNC_ prefix,
// optionally layered over a config file named by WPS3SYNC_CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WPS3SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// S3 defaults
	v.SetDefault("s3.provider", ProviderS3)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.acl", "private")
	v.SetDefault("s3.key_prefix", "uploads")
	v.SetDefault("s3.presign_expiry", 3600)

	// Media defaults
	v.SetDefault("media.upload_base_dir", "/var/www/html/wp-content/uploads")
	v.SetDefault("media.upload_base_url", "")
	v.SetDefault("media.cdn_url", "")
	v.SetDefault("media.url_mode", URLModeCDN)
	v.SetDefault("media.delete_local", true)
	v.SetDefault("media.suppress_sizes", true)

	// DB defaults
	v.SetDefault("db.driver", DriverMySQL)
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 3306)
	v.SetDefault("db.user", "wordpress")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "wordpress")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.table_prefix", "wp_")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	// Hooks defaults
	v.SetDefault("hooks.secret", "")
	v.SetDefault("hooks.issuer", "wps3sync")
	v.SetDefault("hooks.token_ttl", "8760h")

	// Scan defaults
	v.SetDefault("scan.clamd_address", "")
	v.SetDefault("scan.fail_closed", false)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", "1m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "WPS3SYNC_SERVER_PORT",
		"server.read_timeout":   "WPS3SYNC_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "WPS3SYNC_SERVER_WRITE_TIMEOUT",
		"server.environment":    "WPS3SYNC_SERVER_ENVIRONMENT",
		"s3.provider":           "WPS3SYNC_S3_PROVIDER",
		"s3.region":             "WPS3SYNC_S3_REGION",
		"s3.bucket":             "WPS3SYNC_S3_BUCKET",
		"s3.endpoint":           "WPS3SYNC_S3_ENDPOINT",
		"s3.access_key":         "WPS3SYNC_S3_ACCESS_KEY",
		"s3.secret_key":         "WPS3SYNC_S3_SECRET_KEY",
		"s3.use_ssl":            "WPS3SYNC_S3_USE_SSL",
		"s3.acl":                "WPS3SYNC_S3_ACL",
		"s3.key_prefix":         "WPS3SYNC_S3_KEY_PREFIX",
		"s3.presign_expiry":     "WPS3SYNC_S3_PRESIGN_EXPIRY",
		"media.upload_base_dir": "WPS3SYNC_MEDIA_UPLOAD_BASE_DIR",
		"media.upload_base_url": "WPS3SYNC_MEDIA_UPLOAD_BASE_URL",
		"media.cdn_url":         "WPS3SYNC_MEDIA_CDN_URL",
		"media.url_mode":        "WPS3SYNC_MEDIA_URL_MODE",
		"media.delete_local":    "WPS3SYNC_MEDIA_DELETE_LOCAL",
		"media.suppress_sizes":  "WPS3SYNC_MEDIA_SUPPRESS_SIZES",
		"db.driver":             "WPS3SYNC_DB_DRIVER",
		"db.host":               "WPS3SYNC_DB_HOST",
		"db.port":               "WPS3SYNC_DB_PORT",
		"db.user":               "WPS3SYNC_DB_USER",
		"db.password":           "WPS3SYNC_DB_PASSWORD",
		"db.name":               "WPS3SYNC_DB_NAME",
		"db.sslmode":            "WPS3SYNC_DB_SSLMODE",
		"db.table_prefix":       "WPS3SYNC_DB_TABLE_PREFIX",
		"db.max_open":           "WPS3SYNC_DB_MAX_OPEN",
		"db.max_idle":           "WPS3SYNC_DB_MAX_IDLE",
		"hooks.secret":          "WPS3SYNC_HOOKS_SECRET",
		"hooks.issuer":          "WPS3SYNC_HOOKS_ISSUER",
		"hooks.token_ttl":       "WPS3SYNC_HOOKS_TOKEN_TTL",
		"scan.clamd_address":    "WPS3SYNC_SCAN_CLAMD_ADDRESS",
		"scan.fail_closed":      "WPS3SYNC_SCAN_FAIL_CLOSED",
		"rate_limit.enabled":    "WPS3SYNC_RATE_LIMIT_ENABLED",
		"rate_limit.requests":   "WPS3SYNC_RATE_LIMIT_REQUESTS",
		"rate_limit.window":     "WPS3SYNC_RATE_LIMIT_WINDOW",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if file := os.Getenv("WPS3SYNC_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if WPS3SYNC_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("WPS3SYNC_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.S3 = S3Config{
		Provider:      strings.ToLower(v.GetString("s3.provider")),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		UseSSL:        v.GetBool("s3.use_ssl"),
		ACL:           v.GetString("s3.acl"),
		KeyPrefix:     strings.Trim(v.GetString("s3.key_prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Media = MediaConfig{
		UploadBaseDir: v.GetString("media.upload_base_dir"),
		UploadBaseURL: strings.TrimRight(v.GetString("media.upload_base_url"), "/"),
		CDNURL:        strings.TrimRight(v.GetString("media.cdn_url"), "/"),
		URLMode:       strings.ToLower(v.GetString("media.url_mode")),
		DeleteLocal:   v.GetBool("media.delete_local"),
		SuppressSizes: v.GetBool("media.suppress_sizes"),
	}
	cfg.DB = DBConfig{
		Driver:      strings.ToLower(v.GetString("db.driver")),
		Host:        v.GetString("db.host"),
		Port:        v.GetInt("db.port"),
		User:        v.GetString("db.user"),
		Password:    v.GetString("db.password"),
		Name:        v.GetString("db.name"),
		SSLMode:     v.GetString("db.sslmode"),
		TablePrefix: v.GetString("db.table_prefix"),
		MaxOpen:     v.GetInt("db.max_open"),
		MaxIdle:     v.GetInt("db.max_idle"),
	}
	cfg.Hooks = HooksConfig{
		Secret:   v.GetString("hooks.secret"),
		Issuer:   v.GetString("hooks.issuer"),
		TokenTTL: v.GetDuration("hooks.token_ttl"),
	}
	cfg.Scan = ScanConfig{
		ClamdAddress: v.GetString("scan.clamd_address"),
		FailClosed:   v.GetBool("scan.fail_closed"),
	}
	cfg.RateLimit = RateLimitConfig{
		Enabled:  v.GetBool("rate_limit.enabled"),
		Requests: v.GetInt("rate_limit.requests"),
		Window:   v.GetDuration("rate_limit.window"),
	}

	return cfg, nil
}

// Validate checks the settings the sync adapter cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.S3.AccessKey == "" {
		missing = append(missing, "s3.access_key")
	}
	if c.S3.SecretKey == "" {
		missing = append(missing, "s3.secret_key")
	}
	if c.S3.Bucket == "" {
		missing = append(missing, "s3.bucket")
	}
	if c.Media.UploadBaseURL == "" {
		missing = append(missing, "media.upload_base_url")
	}
	if c.Media.URLMode == URLModeCDN && c.Media.CDNURL == "" {
		missing = append(missing, "media.cdn_url")
	}
	if c.S3.Provider == ProviderMinio && c.S3.Endpoint == "" {
		missing = append(missing, "s3.endpoint")
	}
	if c.Server.Environment == EnvironmentProduction && c.Hooks.Secret == "" {
		missing = append(missing, "hooks.secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}

	switch c.S3.Provider {
	case ProviderS3, ProviderMinio:
	default:
		return fmt.Errorf("%w: unknown s3.provider %q", domain.ErrInvalidConfig, c.S3.Provider)
	}
	switch c.Media.URLMode {
	case URLModeCDN, URLModeDirect, URLModePresign, URLModeOff:
	default:
		return fmt.Errorf("%w: unknown media.url_mode %q", domain.ErrInvalidConfig, c.Media.URLMode)
	}
	if c.DB.Enabled() {
		switch c.DB.Driver {
		case DriverMySQL, DriverPgx:
		default:
			return fmt.Errorf("%w: unknown db.driver %q", domain.ErrInvalidConfig, c.DB.Driver)
		}
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("%w: rate_limit needs positive requests and window", domain.ErrInvalidConfig)
	}
	return nil
}

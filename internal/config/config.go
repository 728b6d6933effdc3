// Package config loads runtime configuration from config/config.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	// Load .env file to environments
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config is the root configuration of the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Listing    ListingConfig    `mapstructure:"listing"`
	Submission SubmissionConfig `mapstructure:"submission"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Notion     NotionConfig     `mapstructure:"notion"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port          int      `mapstructure:"port"`
	AllowOrigins  []string `mapstructure:"allow_origins"`
	PublicBaseURL string   `mapstructure:"public_base_url"`
	LoginURL      string   `mapstructure:"login_url"`
	RateLimit     uint     `mapstructure:"rate_limit"`
}

// DBConfig mirrors the connection parameters the database package needs.
type DBConfig struct {
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	User          string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	Name          string        `mapstructure:"database"`
	UseConnStr    bool          `mapstructure:"use_connection_str"`
	ConnStr       string        `mapstructure:"connection_str"`
	QueryTimeout  time.Duration `mapstructure:"query_timeout"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
}

// AuthConfig configures admin sessions.
type AuthConfig struct {
	SecretKey   string        `mapstructure:"secret_key"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Issuer      string        `mapstructure:"issuer"`
	LogAttempts bool          `mapstructure:"log_attempts"`
}

// ListingConfig configures the public job board.
type ListingConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// SubmissionConfig configures the application workflow.
type SubmissionConfig struct {
	GenericJobRef  string `mapstructure:"generic_job_ref"`
	MaxResumeBytes int64  `mapstructure:"max_resume_bytes"`
	PageURL        string `mapstructure:"page_url"`
}

// UploadConfig configures how resumes reach storage. An empty Endpoint means
// resumes are stored in-process through Storage.
type UploadConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StorageConfig selects the backend resumes are written to.
type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	Dir       string `mapstructure:"dir"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// WebhookConfig configures the submission webhook. The URL stored in the
// settings table takes precedence over URL.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// NotionConfig configures the optional Notion mirror of submissions.
type NotionConfig struct {
	Token      string `mapstructure:"token"`
	DatabaseID string `mapstructure:"database_id"`
}

// CatalogConfig points to the experience and salary catalog file.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures logrus.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults used when neither the file nor the environment set a value.
const (
	DefaultPageSize       = 6
	DefaultMaxResumeBytes = 3 * 1024 * 1024
	DefaultGenericJobRef  = "AHS000"
)

// plain environment names kept for deployments that predate the HIVE_ prefix
var legacyEnv = map[string]string{
	"server.port":           "PORT",
	"server.allow_origins":  "ALLOW_ORIGIN",
	"db.host":               "DB_HOST",
	"db.port":               "DB_PORT",
	"db.username":           "DB_USERNAME",
	"db.password":           "DB_PASSWORD",
	"db.database":           "DB_DATABASE",
	"db.use_connection_str": "USE_CONNECTION_STR",
	"db.connection_str":     "DB_CONNECTION_STR",
	"db.admin_email":        "ADMIN_USERNAME",
	"db.admin_password":     "ADMIN_PASSWORD",
	"auth.secret_key":       "SECRET_KEY",
	"auth.log_attempts":     "LOGGING",
	"storage.bucket":        "BUCKET_NAME",
	"webhook.url":           "WEBHOOK_URL",
	"notion.token":          "NOTION_TOKEN",
	"notion.database_id":    "NOTION_DATABASE_ID",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.login_url", "/admin/login")
	v.SetDefault("server.rate_limit", 5)
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.query_timeout", 5*time.Second)
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("auth.issuer", "hiring-hive")
	v.SetDefault("listing.page_size", DefaultPageSize)
	v.SetDefault("submission.generic_job_ref", DefaultGenericJobRef)
	v.SetDefault("submission.max_resume_bytes", DefaultMaxResumeBytes)
	v.SetDefault("upload.timeout", 30*time.Second)
	v.SetDefault("storage.driver", "disk")
	v.SetDefault("storage.dir", "uploads")
	v.SetDefault("webhook.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// New builds a viper instance with defaults, the optional config file and env bindings.
func New(paths ...string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config", "."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("HIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "HIVE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return v, nil
}

// Load reads the configuration and decodes it into a Config.
func Load(paths ...string) (*Config, error) {
	v, err := New(paths...)
	if err != nil {
		return nil, err
	}
	return Decode(v)
}

// Decode unmarshals a prepared viper instance.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// ALLOW_ORIGIN is a single comma separated string
	cfg.Server.AllowOrigins = splitList(strings.Join(cfg.Server.AllowOrigins, ","))
	if cfg.Listing.PageSize <= 0 {
		cfg.Listing.PageSize = DefaultPageSize
	}
	if cfg.Submission.MaxResumeBytes <= 0 {
		cfg.Submission.MaxResumeBytes = DefaultMaxResumeBytes
	}
	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

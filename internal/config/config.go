package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Mail     MailConfig     `mapstructure:"mail"`
	Stripe   StripeConfig   `mapstructure:"stripe"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration. Expiration values are
// duration strings ("1h", "15m") parsed directly into time.Duration.
type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	Expiration      time.Duration `mapstructure:"expiration"`
	ResetExpiration time.Duration `mapstructure:"reset_expiration"`
}

// MailConfig configures the Resend transactional mail provider.
type MailConfig struct {
	APIKey       string `mapstructure:"api_key"`
	FromAddress  string `mapstructure:"from_address"`
	ResetBaseURL string `mapstructure:"reset_base_url"` // password reset links point here
}

// StripeConfig configures hosted checkout.
type StripeConfig struct {
	SecretKey  string `mapstructure:"secret_key"`
	PriceID    string `mapstructure:"price_id"`
	SuccessURL string `mapstructure:"success_url"`
	CancelURL  string `mapstructure:"cancel_url"`
}

// BackupConfig controls the debounced cloud backup.
type BackupConfig struct {
	// Quiet interval after the last tree change before an auto-export runs.
	Debounce time.Duration `mapstructure:"debounce"`
	// Local path the latest exported document is mirrored to. Empty
	// disables the local snapshot.
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: server.address -> SERVER_ADDRESS etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "fittracker")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.bucket_name", "backups")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("jwt.reset_expiration", "15m")
	viper.SetDefault("mail.from_address", "FitTracker <noreply@fittracker.local>")
	viper.SetDefault("backup.debounce", "2s")
	viper.SetDefault("backup.snapshot_path", "")

	err = viper.ReadInConfig()
	// A missing config file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bytonbyte/internal/flagx"
	"github.com/dmitrijs2005/bytonbyte/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Pointer fields distinguish
// "absent" from the zero value so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr       *string         `json:"http_addr"`
	DatabaseDSN    *string         `json:"database_dsn"`
	SecretKey      *string         `json:"secret_key"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	LogLevel       *string         `json:"log_level"`
	CookieSecure   *bool           `json:"cookie_secure"`
	MaxUploadBytes *int64          `json:"max_upload_bytes"`
	LoginRateLimit *int            `json:"login_rate_limit"`

	S3AccessKey    *string `json:"s3_access_key"`
	S3SecretKey    *string `json:"s3_secret_key"`
	S3Bucket       *string `json:"s3_bucket"`
	S3Region       *string `json:"s3_region"`
	S3BaseEndpoint *string `json:"s3_base_endpoint"`
	S3PublicURL    *string `json:"s3_public_url"`

	StorageRESTURL *string `json:"storage_rest_url"`
	StorageRESTKey *string `json:"storage_rest_key"`
	StorageBucket  *string `json:"storage_bucket"`
}

// parseJson loads the file named by -c/-config in args, if any, and copies
// every field it sets into config. Unreadable or invalid files panic: a
// config file that was asked for and cannot be used is a startup error.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
	if c.LoginRateLimit != nil {
		config.LoginRateLimit = *c.LoginRateLimit
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.StorageRESTURL, c.StorageRESTURL)
	setString(&config.StorageRESTKey, c.StorageRESTKey)
	setString(&config.StorageBucket, c.StorageBucket)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

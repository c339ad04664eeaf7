package config

import (
	"strconv"
	"time"
)

// lookupFunc has the signature of os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays environment variables. The names follow the deployment
// environment the dashboard already uses (DATABASE_URL, AUTH_SECRET, ...).
// Malformed numeric, boolean and duration values are ignored.
func parseEnv(config *Config, lookup lookupFunc) {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&config.HTTPAddr, "HTTP_ADDR")
	str(&config.DatabaseDSN, "DATABASE_URL")
	str(&config.SecretKey, "AUTH_SECRET", "NEXTAUTH_SECRET")
	str(&config.LogLevel, "LOG_LEVEL")

	if v, ok := lookup("SESSION_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v, ok := lookup("COOKIE_SECURE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.CookieSecure = b
		}
	}
	if v, ok := lookup("MAX_UPLOAD_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.MaxUploadBytes = n
		}
	}

	str(&config.S3AccessKey, "S3_ACCESS_KEY_ID", "SUPABASE_S3_ACCESS_KEY_ID")
	str(&config.S3SecretKey, "S3_SECRET_ACCESS_KEY", "SUPABASE_S3_SECRET_ACCESS_KEY")
	str(&config.S3Bucket, "S3_BUCKET", "SUPABASE_S3_BUCKET")
	str(&config.S3Region, "S3_REGION", "SUPABASE_S3_REGION")
	str(&config.S3BaseEndpoint, "S3_ENDPOINT", "SUPABASE_S3_ENDPOINT")
	str(&config.S3PublicURL, "S3_PUBLIC_URL")

	str(&config.StorageRESTURL, "STORAGE_REST_URL", "NEXT_PUBLIC_SUPABASE_URL")
	str(&config.StorageRESTKey, "STORAGE_REST_KEY", "SUPABASE_SERVICE_ROLE_KEY")
	str(&config.StorageBucket, "STORAGE_BUCKET")
}

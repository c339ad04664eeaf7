package dbx

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	secondQuestionMark = regexp.MustCompile(`\?([^&]*)\?`)
	dsnPassword        = regexp.MustCompile(`:[^:@/]+@`)
)

var localHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
	"postgres":  true,
}

// NormalizePostgresDSN repairs common query-string mistakes in a Postgres URL
// and makes sure TLS is requested:
//
//   - "??" and a second "?" used in place of "&" are fixed;
//   - without sslmode, connection-pooler URLs (Supabase pooler host or
//     pgbouncer=true) get uselibpqcompat=true&sslmode=require, other remote
//     hosts get sslmode=verify-full, local hosts are left alone;
//   - with sslmode, pooler URLs still get uselibpqcompat=true.
func NormalizePostgresDSN(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return dsn
	}

	dsn = strings.Replace(dsn, "??", "?", 1)
	if loc := secondQuestionMark.FindStringSubmatchIndex(dsn); loc != nil {
		dsn = dsn[:loc[0]] + "?" + dsn[loc[2]:loc[3]] + "&" + dsn[loc[1]:]
	}

	pooler := strings.Contains(dsn, "pooler.supabase.com") || strings.Contains(dsn, "pgbouncer=true")
	hasCompat := strings.Contains(dsn, "uselibpqcompat=")

	if !strings.Contains(dsn, "sslmode=") {
		if !pooler && isLocalHost(dsn) {
			return dsn
		}
		var params string
		if pooler {
			if !hasCompat {
				params = "uselibpqcompat=true&"
			}
			params += "sslmode=require"
		} else {
			params = "sslmode=verify-full"
		}
		return appendQuery(dsn, params)
	}

	if pooler && !hasCompat {
		dsn = strings.Replace(dsn, "sslmode=", "uselibpqcompat=true&sslmode=", 1)
	}
	return dsn
}

// MaskDSN hides the password of a URL-style DSN so it can be logged.
func MaskDSN(dsn string) string {
	return dsnPassword.ReplaceAllString(dsn, ":****@")
}

func appendQuery(dsn, params string) string {
	switch {
	case strings.HasSuffix(dsn, "?"), strings.HasSuffix(dsn, "&"):
		return dsn + params
	case strings.Contains(dsn, "?"):
		return dsn + "&" + params
	default:
		return dsn + "?" + params
	}
}

func isLocalHost(dsn string) bool {
	u, err := url.Parse(dsn)
	if err != nil {
		return false
	}
	return localHosts[u.Hostname()]
}

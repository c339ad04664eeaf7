package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTUploader writes objects through the storage REST API
// (POST <base>/storage/v1/object/<bucket>/<key>).
type RESTUploader struct {
	baseURL string
	apiKey  string
	bucket  string
	client  *http.Client
}

func NewRESTUploader(baseURL, apiKey, bucket string) *RESTUploader {
	return &RESTUploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (u *RESTUploader) Name() string {
	return "rest"
}

func (u *RESTUploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, url.PathEscape(u.bucket), escapeKey(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	req.Header.Set("apikey", u.apiKey)
	req.Header.Set("x-upsert", "false")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, url.PathEscape(u.bucket), escapeKey(key)), nil
}

// escapeKey escapes each path segment and keeps the slashes.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

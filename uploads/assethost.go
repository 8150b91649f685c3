package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Asset identifies an image stored on the remote host. PublicID is the
// handle used for later deletion; SecureURL is what gets persisted on the
// owning record.
type Asset struct {
	AssetID   string `json:"asset_id"`
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Host stores uploaded images remotely.
type Host interface {
	Upload(ctx context.Context, localPath, folder string) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudHost talks to a cloudinary-style upload API.
type CloudHost struct {
	baseURL string
	key     string
	secret  string
	client  *http.Client
}

func NewCloudHost(baseURL, key, secret string) *CloudHost {
	return &CloudHost{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload sends the local file to the host, requesting filename-preserving,
// overwrite-safe storage under folder.
func (h *CloudHost) Upload(ctx context.Context, localPath, folder string) (*Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := filepath.Base(localPath)
	publicID := strings.TrimSuffix(name, filepath.Ext(name))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	for field, value := range map[string]string{
		"folder":          folder,
		"public_id":       publicID,
		"use_filename":    "true",
		"unique_filename": "false",
		"overwrite":       "true",
	} {
		if err := w.WriteField(field, value); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/image/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetBasicAuth(h.key, h.secret)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("asset host upload: status %d: %s", resp.StatusCode, b)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// Destroy deletes an asset by public id.
func (h *CloudHost) Destroy(ctx context.Context, publicID string) error {
	form := fmt.Sprintf("public_id=%s", publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/image/destroy", strings.NewReader(form))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(h.key, h.secret)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("asset host destroy %s: status %d: %s", publicID, resp.StatusCode, b)
	}
	return nil
}

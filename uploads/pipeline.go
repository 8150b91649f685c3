// Package uploads moves uploaded image buffers through local temp storage to
// the remote asset host and returns the stored asset handles.
package uploads

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/weroambags/weroambags-backend-go/utils"
)

// Pipeline writes each buffer to a per-resource-type directory under Dir,
// uploads it to the host, then removes the temp file. Steps run in order and
// are awaited; only temp-file removal and old-asset destruction are allowed
// to fail without surfacing.
type Pipeline struct {
	dir    string
	host   Host
	logger *log.Logger
}

func NewPipeline(dir string, host Host, logger *log.Logger) *Pipeline {
	return &Pipeline{dir: dir, host: host, logger: logger}
}

// ValidateImages rejects any part whose media type is not image/*, and more
// than max parts. Zero parts is legal here; create handlers enforce their own
// minimum.
func ValidateImages(files []*multipart.FileHeader, max int) error {
	if len(files) > max {
		return utils.NewAppError(http.StatusBadRequest, "Too many images uploaded")
	}
	for _, fh := range files {
		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image") {
			return utils.NewAppError(http.StatusBadRequest, "Not an image! Please upload only images.")
		}
	}
	return nil
}

// Process runs the full pipeline for every file, under dir/<resourceType> and
// the matching remote folder, returning assets in submission order.
func (p *Pipeline) Process(ctx context.Context, files []*multipart.FileHeader, resourceType string) ([]Asset, error) {
	folder := filepath.Join(p.dir, resourceType)
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, 0o755); err != nil {
			return nil, err
		}
	}

	assets := make([]Asset, 0, len(files))
	for _, fh := range files {
		localPath, err := p.writeTemp(fh, folder)
		if err != nil {
			return nil, err
		}

		asset, err := p.host.Upload(ctx, localPath, resourceType)
		if err != nil {
			p.removeTemp(localPath)
			return nil, err
		}
		p.removeTemp(localPath)

		assets = append(assets, *asset)
	}
	return assets, nil
}

// Destroy removes previously stored assets by public id. Best effort: errors
// are logged so a stale remote asset never blocks a replacement.
func (p *Pipeline) Destroy(ctx context.Context, publicIDs []string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := p.host.Destroy(ctx, id); err != nil {
			p.logger.Warn("failed to delete remote asset", "publicId", id, "err", err)
		}
	}
}

func (p *Pipeline) writeTemp(fh *multipart.FileHeader, folder string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := utils.FileNameInKebabCase(fh.Filename)
	localPath := filepath.Join(folder, name)

	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return localPath, nil
}

func (p *Pipeline) removeTemp(path string) {
	if err := os.Remove(path); err != nil {
		p.logger.Warn("failed to remove temp upload", "path", path, "err", err)
	}
}

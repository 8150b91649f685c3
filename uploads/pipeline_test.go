package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	uploaded  []string
	destroyed []string
	failNext  bool
}

func (f *fakeHost) Upload(_ context.Context, localPath, folder string) (*Asset, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("upload failed")
	}
	name := filepath.Base(localPath)
	f.uploaded = append(f.uploaded, name)
	return &Asset{
		AssetID:   "asset-" + name,
		PublicID:  folder + "/" + strings.TrimSuffix(name, filepath.Ext(name)),
		SecureURL: "https://assets.example.com/" + folder + "/" + name,
	}, nil
}

func (f *fakeHost) Destroy(_ context.Context, publicID string) error {
	f.destroyed = append(f.destroyed, publicID)
	return nil
}

func fileHeaders(t *testing.T, contentType string, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, n := range names {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="thumbnail"; filename="%s"`, n))
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = io.WriteString(part, "not-really-image-bytes")
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["thumbnail"]
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeHost, string) {
	t.Helper()
	host := &fakeHost{}
	dir := t.TempDir()
	return NewPipeline(dir, host, log.New(io.Discard)), host, dir
}

func TestValidateImagesRejectsNonImage(t *testing.T) {
	files := fileHeaders(t, "application/pdf", "a.pdf")
	err := ValidateImages(files, 3)
	assert.Error(t, err)
}

func TestValidateImagesRejectsTooMany(t *testing.T) {
	files := fileHeaders(t, "image/png", "a.png", "b.png", "c.png", "d.png")
	err := ValidateImages(files, 3)
	assert.Error(t, err)
}

func TestValidateImagesAcceptsImages(t *testing.T) {
	files := fileHeaders(t, "image/jpeg", "a.jpg", "b.jpg")
	assert.NoError(t, ValidateImages(files, 3))
}

func TestProcessUploadsInOrder(t *testing.T) {
	p, host, _ := newTestPipeline(t)
	files := fileHeaders(t, "image/png", "First Image.png", "Second Image.png", "Third Image.png")

	assets, err := p.Process(context.Background(), files, "bags")
	require.NoError(t, err)
	require.Len(t, assets, 3)

	assert.True(t, strings.HasPrefix(host.uploaded[0], "first-image-"))
	assert.True(t, strings.HasPrefix(host.uploaded[1], "second-image-"))
	assert.True(t, strings.HasPrefix(host.uploaded[2], "third-image-"))

	for _, a := range assets {
		assert.NotEmpty(t, a.AssetID)
		assert.NotEmpty(t, a.PublicID)
		assert.True(t, strings.HasPrefix(a.SecureURL, "https://assets.example.com/bags/"))
	}
}

func TestProcessRemovesTempFiles(t *testing.T) {
	p, _, dir := newTestPipeline(t)
	files := fileHeaders(t, "image/png", "photo.png")

	_, err := p.Process(context.Background(), files, "bags")
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "bags"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files must be removed after upload")
}

func TestProcessUploadFailureSurfaces(t *testing.T) {
	p, host, _ := newTestPipeline(t)
	host.failNext = true
	files := fileHeaders(t, "image/png", "photo.png")

	_, err := p.Process(context.Background(), files, "bags")
	assert.Error(t, err)
}

func TestDestroyBestEffort(t *testing.T) {
	p, host, _ := newTestPipeline(t)

	p.Destroy(context.Background(), []string{"bags/a", "", "bags/b"})
	assert.Equal(t, []string{"bags/a", "bags/b"}, host.destroyed)
}

package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProcessPostImage(t *testing.T) {
	dir := t.TempDir()
	p := NewImageProcessor(dir, "/media/", logging.NewDiscardLogger())

	stored, err := p.ProcessPostImage(pngDataURL(t, 640, 320), "user1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.URL, "/media/images/posts/user1-"))
	require.Len(t, stored.Thumbnails, len(ThumbnailWidths))

	original := filepath.Join(dir, "images", "posts", filepath.Base(stored.URL))
	_, err = os.Stat(original)
	require.NoError(t, err)
	for _, thumb := range stored.Thumbnails {
		_, err := os.Stat(filepath.Join(dir, "images", "thumbs", filepath.Base(thumb)))
		assert.NoError(t, err)
	}

	require.NoError(t, p.DeletePostImage(stored.URL))
	_, err = os.Stat(original)
	assert.True(t, os.IsNotExist(err))
	for _, thumb := range stored.Thumbnails {
		_, err := os.Stat(filepath.Join(dir, "images", "thumbs", filepath.Base(thumb)))
		assert.True(t, os.IsNotExist(err))
	}

	assert.NoError(t, p.DeletePostImage("https://elsewhere.example/pic.png"))
}

func TestProcessAvatar(t *testing.T) {
	dir := t.TempDir()
	p := NewImageProcessor(dir, "/media", logging.NewDiscardLogger())

	url, err := p.ProcessAvatar(pngDataURL(t, 400, 300), "user1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/avatars/user1-"))
	assert.True(t, strings.HasSuffix(url, ".webp"))

	_, err = os.Stat(filepath.Join(dir, "avatars", filepath.Base(url)))
	assert.NoError(t, err)
}

func TestRejectsUnsupportedPayloads(t *testing.T) {
	p := NewImageProcessor(t.TempDir(), "/media", logging.NewDiscardLogger())

	_, err := p.ProcessPostImage("data:image/svg+xml;base64,PHN2Zy8+", "u")
	assert.True(t, errors.Is(err, ErrUnsupportedImage))

	_, err = p.ProcessPostImage("data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("not a png")), "u")
	assert.True(t, errors.Is(err, ErrUnsupportedImage))

	_, err = p.ProcessAvatar("", "u")
	assert.Error(t, err)
}

// Package media provides image processing for post images and avatars
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ErrUnsupportedImage is returned for payloads that are not a PNG, JPEG,
// GIF or WebP data URL.
var ErrUnsupportedImage = errors.New("unsupported image format")

// MaxImageBytes caps a decoded upload.
const MaxImageBytes = 8 << 20

// ThumbnailWidths are generated for every post image.
var ThumbnailWidths = []int{1200, 600, 300}

// AvatarSize is the square edge of stored avatars.
const AvatarSize = 256

var dataURLPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp);base64,`)

// ImageProcessor writes uploads under basePath and returns URLs under urlPrefix
type ImageProcessor struct {
	basePath  string
	urlPrefix string
	logger    *logging.ChanneledLogger
}

// StoredImage is a saved post image and its WebP thumbnails.
type StoredImage struct {
	URL        string   `json:"url"`
	Thumbnails []string `json:"thumbnails"`
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath, urlPrefix string, logger *logging.ChanneledLogger) *ImageProcessor {
	return &ImageProcessor{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		logger:    logger,
	}
}

// BasePath is the directory uploads are written under.
func (p *ImageProcessor) BasePath() string {
	return p.basePath
}

// ProcessPostImage saves a post image under images/posts and generates
// WebP thumbnails under images/thumbs.
func (p *ImageProcessor) ProcessPostImage(data, ownerID string) (*StoredImage, error) {
	raw, ext, err := decodeDataURL(data)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	postsDir := filepath.Join(p.basePath, "images", "posts")
	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	for _, dir := range []string{postsDir, thumbsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	basename := fmt.Sprintf("%s-%d", ownerID, time.Now().UnixMilli())
	filename := basename + "." + ext
	originalPath := filepath.Join(postsDir, filename)
	if err := os.WriteFile(originalPath, raw, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image file: %w", err)
	}

	thumbs, err := p.generateWebPThumbnails(img, basename, thumbsDir)
	if err != nil {
		os.Remove(originalPath)
		return nil, fmt.Errorf("failed to generate thumbnails: %w", err)
	}

	stored := &StoredImage{URL: p.url("images", "posts", filename)}
	for _, thumb := range thumbs {
		stored.Thumbnails = append(stored.Thumbnails, p.url("images", "thumbs", filepath.Base(thumb)))
	}

	p.logger.Community().Info("Post image stored", "url", stored.URL, "thumbnails", len(stored.Thumbnails))
	return stored, nil
}

// ProcessAvatar crops the upload to a centred square and stores it as WebP.
func (p *ImageProcessor) ProcessAvatar(data, userID string) (string, error) {
	raw, _, err := decodeDataURL(data)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	dir := filepath.Join(p.basePath, "avatars")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	square := imaging.Fill(img, AvatarSize, AvatarSize, imaging.Center, imaging.Lanczos)
	filename := fmt.Sprintf("%s-%d.webp", userID, time.Now().UnixMilli())
	if err := webp.Save(filepath.Join(dir, filename), square, &webp.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	url := p.url("avatars", filename)
	p.logger.Auth().Info("Avatar stored", "url", url)
	return url, nil
}

// DeletePostImage removes a stored post image and its thumbnails. URLs
// outside the media prefix are ignored.
func (p *ImageProcessor) DeletePostImage(url string) error {
	prefix := p.urlPrefix + "/images/posts/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	filename := path.Base(url)
	if err := os.Remove(filepath.Join(p.basePath, "images", "posts", filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image: %w", err)
	}

	basename := strings.TrimSuffix(filename, filepath.Ext(filename))
	for _, width := range ThumbnailWidths {
		thumb := filepath.Join(p.basePath, "images", "thumbs", fmt.Sprintf("%s_%dpx.webp", basename, width))
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			p.logger.Community().Warn("Failed to remove thumbnail", "path", thumb, "error", err)
		}
	}
	return nil
}

// generateWebPThumbnails writes one WebP per width, never upscaling.
func (p *ImageProcessor) generateWebPThumbnails(img image.Image, basename, thumbsDir string) ([]string, error) {
	paths := make([]string, 0, len(ThumbnailWidths))
	for _, width := range ThumbnailWidths {
		resized := img
		if img.Bounds().Dx() > width {
			resized = imaging.Resize(img, width, 0, imaging.Lanczos)
		}

		thumbPath := filepath.Join(thumbsDir, fmt.Sprintf("%s_%dpx.webp", basename, width))
		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
			for _, done := range paths {
				os.Remove(done)
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", filepath.Base(thumbPath), err)
		}
		paths = append(paths, thumbPath)
	}
	return paths, nil
}

func (p *ImageProcessor) url(parts ...string) string {
	return p.urlPrefix + "/" + path.Join(parts...)
}

// decodeDataURL strips and decodes a base64 image data URL.
func decodeDataURL(data string) ([]byte, string, error) {
	if data == "" {
		return nil, "", fmt.Errorf("empty base64 data")
	}
	match := dataURLPattern.FindStringSubmatch(data)
	if match == nil {
		return nil, "", ErrUnsupportedImage
	}

	ext := match[1]
	if ext == "jpeg" {
		ext = "jpg"
	}

	decoded, err := base64.StdEncoding.DecodeString(data[len(match[0]):])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	if len(decoded) > MaxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}
	return decoded, ext, nil
}

// Package imageio loads cover images and stores stego images. Output is
// restricted to lossless formats; lossy compression would destroy the
// embedded bits.
package imageio

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/yyyoichi/httpcache-go"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultOutput is used when no output path is given.
const DefaultOutput = "stego_output.png"

var (
	ErrLossyFormat       = errors.New("lossy image format cannot hold hidden data")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// DefaultCacheDir is where remote images are cached.
var DefaultCacheDir = filepath.Join(os.TempDir(), "stegano_http_cache")

// Loader reads images from local files or http(s) URLs.
// Remote responses are cached on disk.
type Loader struct {
	client httpcache.Client
}

func NewLoader(cacheDir string) *Loader {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	_ = os.MkdirAll(cacheDir, 0o755)
	return &Loader{
		client: httpcache.Client{
			Client:  http.DefaultClient,
			Cache:   httpcache.NewStorageCache(cacheDir),
			Handler: httpcache.NewDefaultHandler(),
		},
	}
}

// Load decodes the image at src, a file path or an http(s) URL.
// It returns the image and its format name.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, string, error) {
	if isURL(src) {
		return l.fetch(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", src, err)
	}
	return img, format, nil
}

func (l *Loader) fetch(ctx context.Context, uri string) (image.Image, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %d", resp.StatusCode)
	}
	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// FormatOf returns the output format for path, judged by its extension.
// A path without an extension is written as png.
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	case ".jpg", ".jpeg", ".webp", ".gif":
		return "", fmt.Errorf("%w: %s", ErrLossyFormat, ext)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// Encode writes img to w in a lossless format.
func Encode(w io.Writer, format string, img image.Image) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Save writes img to path. The format follows the extension.
func Save(path string, img image.Image) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, format, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return f.Close()
}

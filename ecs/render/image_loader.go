package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/carry/assets"
)

// LoadImage loads a sprite image by key and caches it. Files under assets/
// on disk take precedence over the embedded copies.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	decoded, err := DecodeImage(key)
	if err != nil {
		return nil, err
	}
	img := ebiten.NewImageFromImage(decoded)
	RegisterImage(key, img)
	return img, nil
}

// DecodeImage reads and decodes the image for key without uploading it.
func DecodeImage(key string) (image.Image, error) {
	tried := []string{filepath.Join("assets", key), key}
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if im, _, err := image.Decode(bytes.NewReader(b)); err == nil {
			return im, nil
		}
	}
	if im, err := assets.DecodeImage(key); err == nil {
		return im, nil
	}
	return nil, fmt.Errorf("failed to load image %s", key)
}

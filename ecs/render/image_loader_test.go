package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmbeddedImages(t *testing.T) {
	tests := []struct {
		key  string
		w, h int
	}{
		{key: "crate.png", w: 16, h: 16},
		{key: "torch.png", w: 6, h: 22},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			img, err := DecodeImage(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.w, img.Bounds().Dx())
			assert.Equal(t, tt.h, img.Bounds().Dy())
		})
	}
}

func TestDecodeMissingImage(t *testing.T) {
	_, err := DecodeImage("ghost.png")
	assert.Error(t, err)

	_, err = LoadImage("")
	assert.Error(t, err)
}

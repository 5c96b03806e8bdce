package certificate

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWithoutFontFallsBack(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	r := NewPNGRenderer("", logger)

	data, err := r.Render(BuildSummary("Ada", "Go Basics", 4, 5))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, pageWidth, img.Bounds().Dx())
	assert.Equal(t, pageHeight, img.Bounds().Dy())
}

func TestRenderWithMissingFontFile(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	r := NewPNGRenderer(filepath.Join(t.TempDir(), "missing.ttf"), logger)

	data, err := r.Render(BuildSummary("", "", 0, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestRenderErrorWraps(t *testing.T) {
	err := &RenderError{Err: assert.AnError}
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "render certificate")
}

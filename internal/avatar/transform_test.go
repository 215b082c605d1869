package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelsToPercent_Basic(t *testing.T) {
	px := PixelTransform{Scale: 1.5, TranslateX: 50, TranslateY: -25}

	pct, err := PixelsToPercent(px, 200, 100)
	require.NoError(t, err)

	assert.Equal(t, 1.5, pct.Scale, "scale passes through unchanged")
	assert.InDelta(t, 25.0, pct.TranslateX, 1e-9, "50px of a 200px container is 25%")
	assert.InDelta(t, -25.0, pct.TranslateY, 1e-9, "-25px of a 100px container is -25%")
}

func TestPercentToPixels_Basic(t *testing.T) {
	pct := PercentTransform{Scale: 2, TranslateX: 10, TranslateY: 50}

	px, err := PercentToPixels(pct, 300, 120)
	require.NoError(t, err)

	assert.Equal(t, 2.0, px.Scale)
	assert.InDelta(t, 30.0, px.TranslateX, 1e-9)
	assert.InDelta(t, 60.0, px.TranslateY, 1e-9)
}

func TestTransform_RoundTripAcrossContainers(t *testing.T) {
	// Saving in one container and restoring into another must land the crop
	// on the same relative position, whatever the pixel sizes involved.
	px := PixelTransform{Scale: 1.25, TranslateX: 37.5, TranslateY: -12.25}

	containers := []struct{ w, h float64 }{
		{320, 320},
		{375, 667},
		{1024, 768},
		{100, 100},
	}

	for _, save := range containers {
		pct, err := PixelsToPercent(px, save.w, save.h)
		require.NoError(t, err)

		back, err := PercentToPixels(pct, save.w, save.h)
		require.NoError(t, err)
		assert.InDelta(t, px.TranslateX, back.TranslateX, 1e-9)
		assert.InDelta(t, px.TranslateY, back.TranslateY, 1e-9)
		assert.Equal(t, px.Scale, back.Scale)

		// Restoring into a different container keeps the relative offset.
		for _, restore := range containers {
			restored, err := PercentToPixels(pct, restore.w, restore.h)
			require.NoError(t, err)
			assert.InDelta(t, pct.TranslateX/100*restore.w, restored.TranslateX, 1e-9)
			assert.InDelta(t, pct.TranslateY/100*restore.h, restored.TranslateY, 1e-9)
		}
	}
}

func TestTransform_ZeroTranslation(t *testing.T) {
	pct, err := PixelsToPercent(PixelTransform{Scale: 1}, 375, 667)
	require.NoError(t, err)
	assert.Zero(t, pct.TranslateX)
	assert.Zero(t, pct.TranslateY)
}

func TestTransform_InvalidContainer(t *testing.T) {
	_, err := PixelsToPercent(PixelTransform{Scale: 1}, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidContainer)

	_, err = PixelsToPercent(PixelTransform{Scale: 1}, 100, -5)
	assert.ErrorIs(t, err, ErrInvalidContainer)

	_, err = PercentToPixels(PercentTransform{Scale: 1}, -1, 100)
	assert.ErrorIs(t, err, ErrInvalidContainer)

	_, err = PercentToPixels(PercentTransform{Scale: 1}, 100, 0)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

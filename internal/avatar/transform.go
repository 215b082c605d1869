// Package avatar converts avatar crop gestures between pixel space and a
// device-independent percent representation.
//
// A pinch/pan gesture produces a pixel transform relative to one specific
// on-screen container. Persisting raw pixels breaks as soon as the avatar is
// rendered in a container of a different size, so the stored form expresses
// translation as a percentage of the container dimensions. Scale is already
// dimensionless and passes through unchanged.
//
// The two conversions are exact inverses for any positive container
// dimensions: PercentToPixels(PixelsToPercent(t, w, h), w, h) == t up to
// floating-point rounding.
package avatar

import (
	"errors"
	"fmt"
)

// ErrInvalidContainer is returned when a container dimension is zero or
// negative. Percent coordinates are undefined for such containers.
var ErrInvalidContainer = errors.New("avatar: container dimensions must be positive")

// PixelTransform is a crop transform in the coordinate space of a concrete
// on-screen container.
type PixelTransform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// PercentTransform is the persisted, container-independent form of a crop
// transform. TranslateX is a percentage of container width, TranslateY a
// percentage of container height.
type PercentTransform struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// PixelsToPercent converts a pixel transform measured inside a container of
// the given dimensions into the persisted percent form.
func PixelsToPercent(t PixelTransform, containerWidth, containerHeight float64) (PercentTransform, error) {
	if containerWidth <= 0 || containerHeight <= 0 {
		return PercentTransform{}, fmt.Errorf("%w: %gx%g", ErrInvalidContainer, containerWidth, containerHeight)
	}
	return PercentTransform{
		Scale:      t.Scale,
		TranslateX: t.TranslateX / containerWidth * 100,
		TranslateY: t.TranslateY / containerHeight * 100,
	}, nil
}

// PercentToPixels converts a persisted percent transform back into pixels
// for a container of the given dimensions. The container does not have to
// match the one the transform was captured in.
func PercentToPixels(t PercentTransform, containerWidth, containerHeight float64) (PixelTransform, error) {
	if containerWidth <= 0 || containerHeight <= 0 {
		return PixelTransform{}, fmt.Errorf("%w: %gx%g", ErrInvalidContainer, containerWidth, containerHeight)
	}
	return PixelTransform{
		Scale:      t.Scale,
		TranslateX: t.TranslateX * containerWidth / 100,
		TranslateY: t.TranslateY * containerHeight / 100,
	}, nil
}

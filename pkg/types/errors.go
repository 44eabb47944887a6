package types

import "errors"

// Errors reported by the synthesis pipeline. Callers match them with errors.Is.
var (
	ErrInvalidScheme          = errors.New("invalid classification scheme")
	ErrEmptyClassSet          = errors.New("empty class set")
	ErrEmptyRealSampleSet     = errors.New("no real sample label files found")
	ErrEmptyAssetPool         = errors.New("empty sprite asset pool")
	ErrEmptyBackgroundPool    = errors.New("empty background pool")
	ErrSpriteExceedsCanvas    = errors.New("sprite exceeds canvas")
	ErrDegenerateTransparency = errors.New("sprite has no opaque pixels")
	ErrSpriteClippedAway      = errors.New("sprite clipped to zero size")
)

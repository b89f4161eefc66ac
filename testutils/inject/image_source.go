package inject

import (
	"context"
	"image"

	"github.com/linggaprrrr/facesync-finder/vision/facedetection"
)

// ImageSource is an injected image source.
type ImageSource struct {
	facedetection.ImageSource
	NextFunc func(ctx context.Context) (image.Image, func(), error)
}

// Next calls the injected Next or the real version.
func (s *ImageSource) Next(ctx context.Context) (image.Image, func(), error) {
	if s.NextFunc == nil {
		return s.ImageSource.Next(ctx)
	}
	return s.NextFunc(ctx)
}

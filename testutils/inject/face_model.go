// Package inject provides dependency injected structures for mocking interfaces.
package inject

import (
	"context"
	"image"

	"github.com/linggaprrrr/facesync-finder/vision/facedetection"
)

// FaceModel is an injected face model.
type FaceModel struct {
	facedetection.FaceModel
	DetectFacesFunc func(
		ctx context.Context,
		img image.Image,
		threshold float64,
		allowUpscaling bool,
	) ([]facedetection.RawDetection, error)
}

// DetectFaces calls the injected DetectFaces or the real version.
func (m *FaceModel) DetectFaces(
	ctx context.Context,
	img image.Image,
	threshold float64,
	allowUpscaling bool,
) ([]facedetection.RawDetection, error) {
	if m.DetectFacesFunc == nil {
		return m.FaceModel.DetectFaces(ctx, img, threshold, allowUpscaling)
	}
	return m.DetectFacesFunc(ctx, img, threshold, allowUpscaling)
}

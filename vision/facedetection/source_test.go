package facedetection_test

import (
	"context"
	"image"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/linggaprrrr/facesync-finder/testutils/inject"
	"github.com/linggaprrrr/facesync-finder/vision/facedetection"
)

func newTestDetector(t *testing.T) *facedetection.Detector {
	t.Helper()
	model := warmableModel()
	d, err := facedetection.New(context.Background(), model, testConfig, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	model.DetectFacesFunc = func(
		ctx context.Context, img image.Image, threshold float64, allowUpscaling bool,
	) ([]facedetection.RawDetection, error) {
		return []facedetection.RawDetection{
			{ID: "face_1", FacialArea: [4]float64{10, 10, 50, 50}, Score: 0.9},
		}, nil
	}
	return d
}

func TestSource(t *testing.T) {
	d := newTestDetector(t)
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	src := &inject.ImageSource{}
	src.NextFunc = func(ctx context.Context) (image.Image, func(), error) {
		return img, func() {}, nil
	}

	s, err := facedetection.NewSource(src, d, 10)
	test.That(t, err, test.ShouldBeNil)
	defer s.Close()

	res, err := s.NextResult(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Faces.Success, test.ShouldBeTrue)
	test.That(t, res.Faces.Detections, test.ShouldHaveLength, 1)
	test.That(t, res.Faces.Detections[0].BoundingBox(), test.ShouldResemble, &image.Rectangle{image.Point{10, 10}, image.Point{50, 50}})

	ovImg, _, err := s.Next(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ovImg.Bounds(), test.ShouldResemble, image.Rect(0, 0, 320, 240))
}

func TestSourceValidation(t *testing.T) {
	d := newTestDetector(t)
	src := &inject.ImageSource{}
	src.NextFunc = func(ctx context.Context) (image.Image, func(), error) {
		return image.NewRGBA(image.Rect(0, 0, 64, 64)), func() {}, nil
	}

	_, err := facedetection.NewSource(nil, d, 10)
	test.That(t, err.Error(), test.ShouldContainSubstring, "image source")
	_, err = facedetection.NewSource(src, nil, 10)
	test.That(t, err.Error(), test.ShouldContainSubstring, "detector")
	_, err = facedetection.NewSource(src, d, 0)
	test.That(t, err.Error(), test.ShouldContainSubstring, "fps")

	// a source that cannot produce a first frame fails construction
	src.NextFunc = func(ctx context.Context) (image.Image, func(), error) {
		return nil, nil, errors.New("camera unplugged")
	}
	_, err = facedetection.NewSource(src, d, 10)
	test.That(t, err.Error(), test.ShouldContainSubstring, "camera unplugged")
}

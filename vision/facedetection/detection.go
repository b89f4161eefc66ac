package facedetection

import (
	"context"
	"image"
)

// Detection is a single face found in an image, expressed in the pixel
// coordinates of the original image that was handed to Detect.
type Detection interface {
	// BoundingBox is the face's location in top-left + extent form. It always
	// has Dx() >= 1 and Dy() >= 1 and lies fully within the image bounds.
	BoundingBox() *image.Rectangle
	// Score is the model's confidence in the detection.
	Score() float64
}

// NewDetection creates a simple 2D detection.
func NewDetection(boundingBox image.Rectangle, score float64) Detection {
	return &detection2D{boundingBox, score}
}

type detection2D struct {
	boundingBox image.Rectangle
	score       float64
}

// BoundingBox returns a bounding box around the detected face.
func (d *detection2D) BoundingBox() *image.Rectangle {
	return &d.boundingBox
}

// Score returns a confidence score of the detection.
func (d *detection2D) Score() float64 {
	return d.score
}

// RawDetection is a single face as reported by the model, in corner form and
// in the coordinate space of whatever image the model was given (which may
// be a downscaled copy of the original).
type RawDetection struct {
	ID         string
	FacialArea [4]float64 // x1, y1, x2, y2
	Score      float64
}

// FaceModel invokes the external face-detection model. An empty slice means
// no faces were found, which is a normal outcome; an error means the
// inference itself failed.
type FaceModel interface {
	DetectFaces(ctx context.Context, img image.Image, threshold float64, allowUpscaling bool) ([]RawDetection, error)
}

// Result is the outcome of one Detect call. Success is false both when the
// call failed and when no faces were found; callers cannot tell the two
// apart from the result alone. When Success is false, Detections carries no
// meaning.
type Result struct {
	Success    bool
	Detections []Detection
}

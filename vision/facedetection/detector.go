// Package facedetection is a latency-aware adapter between callers holding
// arbitrary-resolution images and an external face-detection model. It
// shrinks oversized images before inference, maps the resulting boxes back
// into original-image coordinates, clamps them to the image bounds, and
// returns them as an ordered list with a single success flag.
package facedetection

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// The warmup inference runs at its own fixed threshold, independent of the
// configured confidence threshold; it only needs to force the model's lazy
// initialization, not produce detections.
const (
	warmupThreshold  = 0.9
	warmupImageDim   = 224
	warmupPixelValue = 128
)

// WarmupState reports whether the one-time warmup inference succeeded. The
// only allowed transition is NotWarmed -> Warmed, during construction.
type WarmupState int

// The two warmup states.
const (
	NotWarmed = WarmupState(iota)
	Warmed
)

// Config holds the long-lived settings of a Detector.
type Config struct {
	// DeviceID names the compute device the model runs on, e.g. "cpu".
	DeviceID string `json:"device_id"`
	// ConfidenceThreshold is the minimum score the model should report
	// detections at, in (0, 1].
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	// NMSThreshold is carried for model backends that perform non-maximum
	// suppression, in (0, 1]. The adapter itself never applies it.
	NMSThreshold float64 `json:"nms_threshold"`
	// MaxDimension is the longest image side, in pixels, fed to the model.
	// Larger images are downscaled before inference.
	MaxDimension int `json:"max_dimension"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate() error {
	if conf.ConfidenceThreshold <= 0 || conf.ConfidenceThreshold > 1 {
		return errors.Errorf("confidence_threshold must be in (0, 1], got %v", conf.ConfidenceThreshold)
	}
	if conf.NMSThreshold <= 0 || conf.NMSThreshold > 1 {
		return errors.Errorf("nms_threshold must be in (0, 1], got %v", conf.NMSThreshold)
	}
	if conf.MaxDimension < 1 {
		return errors.Errorf("max_dimension must be a positive number of pixels, got %d", conf.MaxDimension)
	}
	return nil
}

// Detector wraps a FaceModel with resize-aware detection. It is constructed
// once per process and is otherwise stateless across calls. Concurrent
// Detect calls against the same Detector are safe only if the underlying
// FaceModel tolerates concurrent invocation; the Detector does not serialize
// them.
type Detector struct {
	model     FaceModel
	conf      Config
	logger    golog.Logger
	clock     clock.Clock
	warmState WarmupState
}

// New builds a Detector and warms up the model with a synthetic inference.
// A warmup failure is logged and leaves the Detector in the NotWarmed state;
// the Detector is usable either way, warmup only front-loads the model's
// one-time initialization cost.
func New(ctx context.Context, model FaceModel, conf Config, logger golog.Logger) (*Detector, error) {
	if model == nil {
		return nil, errors.New("cannot create a face detector with a nil model")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		model:  model,
		conf:   conf,
		logger: logger,
		clock:  clock.New(),
	}
	d.warmUp(ctx)
	logger.Debugf("face detector ready on device %q (confidence=%v, nms=%v, max dimension=%d)",
		conf.DeviceID, conf.ConfidenceThreshold, conf.NMSThreshold, conf.MaxDimension)
	return d, nil
}

// Warmed reports whether the warmup inference succeeded.
func (d *Detector) Warmed() bool {
	return d.warmState == Warmed
}

func (d *Detector) warmUp(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warnf("model warm up panicked: %v", r)
		}
	}()
	if _, err := d.model.DetectFaces(ctx, newWarmupImage(), warmupThreshold, false); err != nil {
		d.logger.Warnw("model warm up failed", "error", err)
		return
	}
	d.warmState = Warmed
	d.logger.Info("face detection model warmed up")
}

// newWarmupImage synthesizes the small uniform-gray image used for the
// warmup inference.
func newWarmupImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, warmupImageDim, warmupImageDim))
	gray := color.RGBA{warmupPixelValue, warmupPixelValue, warmupPixelValue, 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(gray), image.Point{}, draw.Src)
	return img
}

// Detect runs face detection on img and returns every face in original-image
// coordinates. No error ever escapes: inference failures, malformed model
// output and panics all collapse into a Result with Success set to false,
// as does the normal "no faces found" outcome. The call is synchronous and
// blocking; the Detector stays usable after a failed call.
func (d *Detector) Detect(ctx context.Context, img image.Image) (result Result) {
	ctx, span := trace.StartSpan(ctx, "facedetection::Detector::Detect")
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("face detection panicked: %v", r)
			result = Result{}
		}
	}()

	start := d.clock.Now()
	raw, err := d.detectWithResize(ctx, img)
	d.logger.Debugf("face detection took %v", d.clock.Since(start))
	if err != nil {
		d.logger.Errorw("face detection failed", "error", err)
		return Result{}
	}
	if len(raw) == 0 {
		return Result{}
	}

	bounds := img.Bounds()
	imgWidth, imgHeight := bounds.Dx(), bounds.Dy()
	detections := make([]Detection, 0, len(raw))
	for _, r := range raw {
		x1, y1, x2, y2 := r.FacialArea[0], r.FacialArea[1], r.FacialArea[2], r.FacialArea[3]
		x := int(math.Round(x1))
		y := int(math.Round(y1))
		w := int(math.Round(x2 - x1))
		h := int(math.Round(y2 - y1))
		if w <= 0 || h <= 0 {
			d.logger.Warnf("skipping degenerate box %q: (%.1f,%.1f,%.1f,%.1f)", r.ID, x1, y1, x2, y2)
			continue
		}
		x, y, w, h = clampBox(x, y, w, h, imgWidth, imgHeight)
		detections = append(detections, NewDetection(image.Rect(x, y, x+w, y+h), r.Score))
	}
	return Result{Success: true, Detections: detections}
}

// detectWithResize invokes the model, downscaling the image first when its
// longest side exceeds the configured maximum, and always returns raw
// detections in original-image coordinates. Upscaling stays disabled on the
// model side regardless of image size.
func (d *Detector) detectWithResize(ctx context.Context, img image.Image) ([]RawDetection, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	scale := scaleFactor(width, height, d.conf.MaxDimension)
	if scale == 1 {
		return d.model.DetectFaces(ctx, img, d.conf.ConfidenceThreshold, false)
	}
	newWidth, newHeight := scaledDims(width, height, scale)
	d.logger.Infof("resizing %dx%d -> %dx%d (scale=%.3f)", width, height, newWidth, newHeight, scale)
	resized := resize.Resize(uint(newWidth), uint(newHeight), img, resize.Bilinear)
	raw, err := d.model.DetectFaces(ctx, resized, d.conf.ConfidenceThreshold, false)
	if err != nil {
		return nil, err
	}
	return rescaleDetections(raw, scale), nil
}

package facedetection

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// ImageSource supplies the frames a Source runs detection on.
type ImageSource interface {
	Next(ctx context.Context) (image.Image, func(), error)
}

// SourceResult pairs a frame with the detections found on it.
type SourceResult struct {
	OriginalImage image.Image
	Faces         Result
	Err           error
}

// Source polls frames from an ImageSource at a fixed rate, runs the Detector
// on a background goroutine, and caches the latest result. It is the
// caller-side dispatch for keeping an interactive surface responsive while
// detection blocks; the Detector itself stays synchronous.
type Source struct {
	src      ImageSource
	detector *Detector
	ticker   *time.Ticker
	cancel   func()

	activeBackgroundWorkers sync.WaitGroup

	mu    sync.RWMutex
	cache *SourceResult
}

// NewSource runs one detection synchronously to seed the cache, then starts
// the background updater at the requested frame rate.
func NewSource(src ImageSource, detector *Detector, fps float64) (*Source, error) {
	if src == nil {
		return nil, errors.New("detection source must include an image source to pull from")
	}
	if detector == nil {
		return nil, errors.New("detection source must include a detector")
	}
	if fps <= 0 {
		return nil, errors.Errorf("fps must be positive, got %v", fps)
	}
	cancelCtx, cancel := context.WithCancel(context.Background())
	s := &Source{
		src:      src,
		detector: detector,
		ticker:   time.NewTicker(time.Duration(float64(time.Second) / fps)),
		cancel:   cancel,
	}
	s.cache = s.runOnce(cancelCtx)
	if s.cache.Err != nil {
		cancel()
		return nil, s.cache.Err
	}
	s.activeBackgroundWorkers.Add(1)
	goutils.PanicCapturingGo(func() {
		defer s.activeBackgroundWorkers.Done()
		s.backgroundUpdater(cancelCtx)
	})
	return s, nil
}

func (s *Source) backgroundUpdater(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticker.C:
			r := s.runOnce(ctx)
			s.mu.Lock()
			s.cache = r
			s.mu.Unlock()
		}
	}
}

func (s *Source) runOnce(ctx context.Context) *SourceResult {
	r := &SourceResult{}
	var release func()
	r.OriginalImage, release, r.Err = s.src.Next(ctx)
	if release != nil {
		defer release()
	}
	if r.Err != nil {
		return r
	}
	r.Faces = s.detector.Detect(ctx, r.OriginalImage)
	return r
}

// NextResult returns the most recently cached detection result.
func (s *Source) NextResult(ctx context.Context) (*SourceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cache.Err != nil {
		return nil, s.cache.Err
	}
	return s.cache, nil
}

// Next returns the most recent frame overlaid with its detections.
func (s *Source) Next(ctx context.Context) (image.Image, func(), error) {
	res, err := s.NextResult(ctx)
	if err != nil {
		return nil, nil, err
	}
	return Overlay(res.OriginalImage, res.Faces.Detections), func() {}, nil
}

// Close stops the background updater and waits for it to exit.
func (s *Source) Close() {
	s.ticker.Stop()
	s.cancel()
	s.activeBackgroundWorkers.Wait()
}

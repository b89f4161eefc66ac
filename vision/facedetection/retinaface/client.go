// Package retinaface implements facedetection.FaceModel on top of a
// RetinaFace serving endpoint reachable over HTTP.
package retinaface

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/linggaprrrr/facesync-finder/vision/facedetection"
)

// detectPath is the serving endpoint's detection route.
const detectPath = "/v1/detect"

// Client posts images to a RetinaFace serving endpoint and decodes the
// detections it returns.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     golog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps out the default http.Client, e.g. to set timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client for the serving endpoint at baseURL.
func NewClient(baseURL string, logger golog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rawFace struct {
	FacialArea [4]float64 `json:"facial_area"`
	Score      float64    `json:"score"`
}

// DetectFaces sends img to the serving endpoint and returns the raw
// detections in the order the endpoint reported them. An empty response
// object means no faces were found and is not an error.
func (c *Client) DetectFaces(
	ctx context.Context,
	img image.Image,
	threshold float64,
	allowUpscaling bool,
) ([]facedetection.RawDetection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "image.jpg")
	if err != nil {
		return nil, errors.Wrap(err, "could not create form file")
	}
	if err := jpeg.Encode(part, img, nil); err != nil {
		return nil, errors.Wrap(err, "could not encode image")
	}
	if err := writer.WriteField("threshold", strconv.FormatFloat(threshold, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if err := writer.WriteField("allow_upscaling", strconv.FormatBool(allowUpscaling)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+detectPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "could not create detect request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "detect request failed")
	}
	defer goutils.UncheckedErrorFunc(resp.Body.Close)
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("detect request returned status %d", resp.StatusCode)
	}
	faces, err := decodeFaces(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debugf("retinaface returned %d faces", len(faces))
	return faces, nil
}

// decodeFaces walks the response object token by token so detections come
// back in document order; the iteration order of the mapping is meaningful
// to the detector downstream.
func decodeFaces(r io.Reader) ([]facedetection.RawDetection, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "could not decode detect response")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("detect response is not a JSON object")
	}
	var out []facedetection.RawDetection
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "could not decode detection key")
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected detection key %v", keyTok)
		}
		var f rawFace
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrapf(err, "could not decode detection %q", key)
		}
		out = append(out, facedetection.RawDetection{ID: key, FacialArea: f.FacialArea, Score: f.Score})
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "could not decode detect response")
	}
	return out, nil
}

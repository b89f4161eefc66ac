package main

import (
	"context"
	"flag"
	"image"
	"image/png"
	"os"

	// register decoders for the common photo formats.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/edaniels/golog"

	"github.com/linggaprrrr/facesync-finder/vision/facedetection"
	"github.com/linggaprrrr/facesync-finder/vision/facedetection/retinaface"
)

func main() {
	imgPtr := flag.String("img", "", "path to image to detect faces in")
	endpointPtr := flag.String("endpoint", "http://127.0.0.1:8500", "RetinaFace serving endpoint")
	confPtr := flag.Float64("conf", 0.6, "confidence threshold")
	nmsPtr := flag.Float64("nms", 0.4, "non-maximum suppression threshold")
	maxDimPtr := flag.Int("maxdim", 640, "longest image side fed to the model")
	flag.Parse()
	logger := golog.NewLogger("find_faces")
	findFaces(*imgPtr, *endpointPtr, *confPtr, *nmsPtr, *maxDimPtr, logger)
	os.Exit(0)
}

func findFaces(imgPath, endpoint string, conf, nms float64, maxDim int, logger golog.Logger) {
	f, err := os.Open(imgPath)
	if err != nil {
		logger.Fatal(err)
	}
	img, _, err := image.Decode(f)
	if err != nil {
		logger.Fatal(err)
	}
	if err := f.Close(); err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	model := retinaface.NewClient(endpoint, logger)
	d, err := facedetection.New(ctx, model, facedetection.Config{
		DeviceID:            "cpu",
		ConfidenceThreshold: conf,
		NMSThreshold:        nms,
		MaxDimension:        maxDim,
	}, logger)
	if err != nil {
		logger.Fatal(err)
	}

	res := d.Detect(ctx, img)
	if !res.Success {
		logger.Fatal("no faces found")
	}
	for i, det := range res.Detections {
		box := det.BoundingBox()
		logger.Infof("face %d: upperLeft(%d, %d), lowerRight(%d, %d), score %.3f",
			i, box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, det.Score())
	}

	ovImg := facedetection.Overlay(img, res.Detections)
	out, err := os.Create("./find_faces.png")
	if err != nil {
		logger.Fatal(err)
	}
	if err := png.Encode(out, ovImg); err != nil {
		logger.Fatal(err)
	}
	if err := out.Close(); err != nil {
		logger.Fatal(err)
	}
}

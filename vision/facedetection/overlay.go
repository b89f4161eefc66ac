package facedetection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

var overlayColor = color.NRGBA{255, 0, 0, 255}

// Overlay returns a copy of img with every detection's bounding box and
// score drawn over it.
func Overlay(img image.Image, detections []Detection) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetColor(overlayColor)
	dc.SetLineWidth(2)
	for _, d := range detections {
		box := d.BoundingBox()
		dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
		dc.Stroke()
		dc.DrawString(fmt.Sprintf("%.2f", d.Score()), float64(box.Min.X), float64(box.Min.Y)-3)
	}
	return dc.Image()
}

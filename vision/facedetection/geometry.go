package facedetection

import (
	"math"

	"github.com/linggaprrrr/facesync-finder/utils"
)

// scaleFactor returns the uniform factor that shrinks an image so its longest
// side is at most maxDim. It is exactly 1 when the image already fits; it is
// never greater than 1, since this adapter never upscales.
func scaleFactor(width, height, maxDim int) float64 {
	longest := utils.MaxInt(width, height)
	if longest <= maxDim {
		return 1
	}
	return float64(maxDim) / float64(longest)
}

// scaledDims returns the pixel dimensions of the image after applying scale
// to both axes.
func scaledDims(width, height int, scale float64) (int, int) {
	newWidth := int(math.Round(float64(width) * scale))
	newHeight := int(math.Round(float64(height) * scale))
	return newWidth, newHeight
}

// rescaleDetections maps corner coordinates produced on a downscaled image
// back into original-image space by dividing them by scale. This must happen
// before clamping, whose bounds are original-image dimensions.
func rescaleDetections(raw []RawDetection, scale float64) []RawDetection {
	out := make([]RawDetection, 0, len(raw))
	for _, r := range raw {
		for i := range r.FacialArea {
			r.FacialArea[i] /= scale
		}
		out = append(out, r)
	}
	return out
}

// clampBox forces a top-left + extent box into the image bounds. The x/y
// upper bounds keep a 1-pixel margin (width-2, height-2) so a minimum
// 1-pixel extent always fits.
func clampBox(x, y, w, h, imgWidth, imgHeight int) (int, int, int, int) {
	x = utils.ClampInt(x, 0, imgWidth-2)
	y = utils.ClampInt(y, 0, imgHeight-2)
	w = utils.ClampInt(w, 1, imgWidth-x)
	h = utils.ClampInt(h, 1, imgHeight-y)
	return x, y, w, h
}

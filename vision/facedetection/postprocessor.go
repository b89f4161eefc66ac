package facedetection

// Postprocessor defines a function that filters/modifies an incoming array of Detections.
type Postprocessor func([]Detection) []Detection

// NewScoreFilter returns a function that filters out detections below a certain confidence.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Score() >= conf {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewAreaFilter returns a function that filters out detections below a certain area.
func NewAreaFilter(area int) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.BoundingBox().Dx()*d.BoundingBox().Dy() >= area {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewBestFaceFilter returns a function that keeps only the highest-scoring
// detection, for callers that want a single face per image.
func NewBestFaceFilter() Postprocessor {
	return func(in []Detection) []Detection {
		if len(in) == 0 {
			return in
		}
		best := in[0]
		for _, d := range in[1:] {
			if d.Score() > best.Score() {
				best = d
			}
		}
		return []Detection{best}
	}
}

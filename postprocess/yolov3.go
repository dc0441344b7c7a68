package postprocess

import "github.com/swdee/go-trafficcount/geometry"

// YOLOv3 defines the struct for YOLOv3 darknet model post processing
type YOLOv3 struct {
	// Params are the Model configuration parameters
	Params YOLOv3Params
}

// YOLOv3Params defines the struct containing the YOLOv3 parameters to use
// for post processing operations
type YOLOv3Params struct {
	// BoxThreshold is the minimum class score required for a row of the
	// output layers to be decoded into a result.  Final confidence filtering
	// happens with Filter
	BoxThreshold float32
	// ObjectClassNum is the number of different object classes the Model has
	// been trained with
	ObjectClassNum int
	// ProbBoxSize is the length of each output row, being the 5 bounding box
	// attributes plus ObjectClassNum class scores
	ProbBoxSize int
}

// YOLOv3COCOParams returns an instance of YOLOv3Params configured with
// default values for a Model trained on the COCO dataset featuring:
// - Object Classes: 80
// - Prob Box Size: 85
//   - This is 80 Object Classes plus the 5 attributes used to define a bounding
//     box being:
//   - x & y coordinates for the center of the bounding box
//   - width and height of the box relative to whole image
//   - objectness score
//
// - Box Threshold: 0
func YOLOv3COCOParams() YOLOv3Params {
	return YOLOv3Params{
		BoxThreshold:   0,
		ObjectClassNum: 80,
		ProbBoxSize:    85,
	}
}

// NewYOLOv3 returns an instance of the YOLOv3 post processor
func NewYOLOv3(p YOLOv3Params) *YOLOv3 {
	return &YOLOv3{
		Params: p,
	}
}

// DetectObjects decodes the rows of the darknet output layers into detection
// results scaled to the given image width and height.  Each row holds the
// normalised box center, box size, objectness and the class scores.  The
// class with the highest score is used for the result and no Non-Maximum
// Suppression is applied, use Suppress for that
func (y *YOLOv3) DetectObjects(layers [][]float32, width, height int,
	labels []string) []DetectResult {

	var res []DetectResult

	for _, layer := range layers {
		for off := 0; off+y.Params.ProbBoxSize <= len(layer); off += y.Params.ProbBoxSize {

			row := layer[off : off+y.Params.ProbBoxSize]
			scores := row[5:]

			classID := argmax(scores)
			score := scores[classID]

			if score <= y.Params.BoxThreshold {
				continue
			}

			// convert to pixel dimensions, truncating as the darknet
			// reference implementation does
			centerX := int(row[0] * float32(width))
			centerY := int(row[1] * float32(height))
			boxW := int(row[2] * float32(width))
			boxH := int(row[3] * float32(height))

			startX := int(float32(centerX) - float32(boxW)/2)
			startY := int(float32(centerY) - float32(boxH)/2)

			label := ""
			if classID < len(labels) {
				label = labels[classID]
			}

			res = append(res, DetectResult{
				Class:       classID,
				Label:       label,
				Box:         geometry.NewRect(startX, startY, startX+boxW, startY+boxH),
				Probability: score,
			})
		}
	}

	return res
}

// argmax returns the index of the largest value
func argmax(values []float32) int {

	idx := 0

	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}

	return idx
}

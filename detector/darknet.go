package detector

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/postprocess"
)

// Backend selects where the network runs
type Backend string

const (
	BackendCPU  Backend = "cpu"
	BackendCUDA Backend = "cuda"
)

// Config defines the model files and settings of a Darknet detector
type Config struct {
	// ModelCfg is the darknet network configuration file, eg: yolov3.cfg
	ModelCfg string
	// Weights is the darknet weights file, eg: yolov3.weights
	Weights string
	// Labels are the class names the model was trained with
	Labels []string
	// InputSize is the network input dimension, 416 for YOLOv3
	InputSize int
	Backend   Backend
	Params    postprocess.YOLOv3Params
}

// DefaultConfig returns settings for a YOLOv3 model trained on COCO
func DefaultConfig(modelCfg, weights string, labels []string) Config {
	return Config{
		ModelCfg:  modelCfg,
		Weights:   weights,
		Labels:    labels,
		InputSize: 416,
		Backend:   BackendCPU,
		Params:    postprocess.YOLOv3COCOParams(),
	}
}

// Darknet detects objects with a YOLOv3 darknet model run by the OpenCV
// DNN module.  A Darknet is not safe for concurrent use, use a pool to
// share them between goroutines
type Darknet struct {
	net      gocv.Net
	outNames []string
	labels   []string
	size     image.Point
	post     *postprocess.YOLOv3
}

// NewDarknet loads the model files and returns a detector
func NewDarknet(cfg Config) (*Darknet, error) {

	if len(cfg.Labels) == 0 {
		return nil, errors.New("no labels given for model")
	}

	if cfg.Params.ObjectClassNum != len(cfg.Labels) {
		return nil, fmt.Errorf("model has %d classes but %d labels given",
			cfg.Params.ObjectClassNum, len(cfg.Labels))
	}

	net := gocv.ReadNetFromDarknet(cfg.ModelCfg, cfg.Weights)

	if net.Empty() {
		return nil, fmt.Errorf("error loading darknet model %s", cfg.ModelCfg)
	}

	switch cfg.Backend {
	case BackendCUDA:
		net.SetPreferableBackend(gocv.NetBackendCUDA)
		net.SetPreferableTarget(gocv.NetTargetCUDA)
	default:
		net.SetPreferableBackend(gocv.NetBackendDefault)
		net.SetPreferableTarget(gocv.NetTargetCPU)
	}

	// output layer ids are 1 based
	names := net.GetLayerNames()
	var outNames []string

	for _, id := range net.GetUnconnectedOutLayers() {
		outNames = append(outNames, names[id-1])
	}

	return &Darknet{
		net:      net,
		outNames: outNames,
		labels:   cfg.Labels,
		size:     image.Pt(cfg.InputSize, cfg.InputSize),
		post:     postprocess.NewYOLOv3(cfg.Params),
	}, nil
}

// Detect runs the model on the frame and returns the objects found in
// frame coordinates
func (d *Darknet) Detect(frame *gocv.Mat) ([]postprocess.DetectResult, error) {

	if frame.Empty() {
		return nil, errors.New("empty frame")
	}

	blob := gocv.BlobFromImage(*frame, 1.0/255.0, d.size,
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	outputs := d.net.ForwardLayers(d.outNames)

	defer func() {
		for i := range outputs {
			outputs[i].Close()
		}
	}()

	layers := make([][]float32, 0, len(outputs))

	for i := range outputs {
		data, err := outputs[i].DataPtrFloat32()

		if err != nil {
			return nil, fmt.Errorf("error reading output layer %s: %w", d.outNames[i], err)
		}

		layers = append(layers, data)
	}

	return d.post.DetectObjects(layers, frame.Cols(), frame.Rows(), d.labels), nil
}

// Close frees the network
func (d *Darknet) Close() error {
	return d.net.Close()
}

package tracker

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/swdee/go-trafficcount/postprocess"
)

// Matcher keeps the identity of objects across detection rounds by matching
// newly detected objects to the objects already being tracked using the
// minimum total distance between their center points
type Matcher[F any] struct {
	// newTracker creates the single object tracker for each object
	newTracker Factory[F]
	// ids generates the unique object IDs
	ids idGenerator
	// active are the objects currently being tracked keyed by ID
	active map[uint64]*Object[F]
}

// NewMatcher returns a Matcher which uses the given Factory to start
// tracking objects
func NewMatcher[F any](factory Factory[F]) *Matcher[F] {
	return &Matcher[F]{
		newTracker: factory,
		active:     make(map[uint64]*Object[F]),
	}
}

// Match matches the detections from the current frame to the tracked
// objects.  Matched objects keep their ID, take the detection's label and
// have their tracker restarted on the detection's bounding box.  Tracked
// objects without a matching detection are retired, and detections without a
// matching object are given a new ID.  When nothing was detected all tracked
// objects are retired
func (m *Matcher[F]) Match(frame F, dets []postprocess.DetectResult) error {

	if len(m.active) == 0 {
		return m.spawn(frame, dets)
	}

	if len(dets) == 0 {
		m.Retain(func(*Object[F]) bool { return false })
		return nil
	}

	objs := m.Objects()

	rowsol, _, err := Assign(m.costMatrix(objs, dets))

	if err != nil {
		return fmt.Errorf("error assigning detections: %w", err)
	}

	// start all new trackers before changing state so a failure leaves the
	// tracked objects untouched
	restarted := make(map[uint64]Tracker[F])
	labels := make(map[uint64]string)
	assigned := make([]bool, len(dets))

	for row, col := range rowsol {
		if col < 0 {
			continue
		}

		trk, err := m.newTracker(frame, dets[col].Box)

		if err != nil {
			closeTrackers(restarted)
			return fmt.Errorf("error restarting tracker for object %d: %w",
				objs[row].ID, err)
		}

		restarted[objs[row].ID] = trk
		labels[objs[row].ID] = dets[col].Label
		assigned[col] = true
	}

	var unassigned []postprocess.DetectResult

	for i, det := range dets {
		if !assigned[i] {
			unassigned = append(unassigned, det)
		}
	}

	created, err := m.create(frame, unassigned)

	if err != nil {
		closeTrackers(restarted)
		return err
	}

	// retire unmatched objects and re-anchor matched ones
	for _, obj := range objs {
		trk, ok := restarted[obj.ID]

		_ = obj.Tracker.Close()

		if !ok {
			delete(m.active, obj.ID)
			continue
		}

		obj.Tracker = trk
		obj.Label = labels[obj.ID]
	}

	for _, obj := range created {
		m.active[obj.ID] = obj
	}

	return nil
}

// Advance updates the tracker of every tracked object to the given frame
func (m *Matcher[F]) Advance(frame F) error {

	for _, obj := range m.Objects() {
		if err := obj.Tracker.Update(frame); err != nil {
			return fmt.Errorf("error updating tracker for object %d: %w", obj.ID, err)
		}
	}

	return nil
}

// Retain retires all tracked objects for which keep returns false
func (m *Matcher[F]) Retain(keep func(obj *Object[F]) bool) {

	for id, obj := range m.active {
		if !keep(obj) {
			_ = obj.Tracker.Close()
			delete(m.active, id)
		}
	}
}

// Objects returns the tracked objects ordered by ID
func (m *Matcher[F]) Objects() []*Object[F] {

	objs := make([]*Object[F], 0, len(m.active))

	for _, obj := range m.active {
		objs = append(objs, obj)
	}

	slices.SortFunc(objs, func(a, b *Object[F]) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})

	return objs
}

// Len returns the number of objects being tracked
func (m *Matcher[F]) Len() int {
	return len(m.active)
}

// Close retires all tracked objects and frees their trackers
func (m *Matcher[F]) Close() error {

	var errs []error

	for id, obj := range m.active {
		if err := obj.Tracker.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.active, id)
	}

	return errors.Join(errs...)
}

// spawn starts tracking every detection as a new object
func (m *Matcher[F]) spawn(frame F, dets []postprocess.DetectResult) error {

	created, err := m.create(frame, dets)

	if err != nil {
		return err
	}

	for _, obj := range created {
		m.active[obj.ID] = obj
	}

	return nil
}

// create returns new objects for the detections in order with sequential
// IDs.  IDs are only consumed when all trackers start successfully
func (m *Matcher[F]) create(frame F, dets []postprocess.DetectResult) ([]*Object[F], error) {

	objs := make([]*Object[F], 0, len(dets))

	for _, det := range dets {

		trk, err := m.newTracker(frame, det.Box)

		if err != nil {
			for _, obj := range objs {
				_ = obj.Tracker.Close()
			}
			return nil, fmt.Errorf("error starting tracker: %w", err)
		}

		objs = append(objs, &Object[F]{
			Tracker: trk,
			Label:   det.Label,
		})
	}

	for _, obj := range objs {
		obj.ID = m.ids.getNext()
	}

	return objs, nil
}

// costMatrix calculates the euclidean distance between the center points of
// the tracked objects (rows) and detections (columns)
func (m *Matcher[F]) costMatrix(objs []*Object[F],
	dets []postprocess.DetectResult) [][]float64 {

	dist := mat.NewDense(len(objs), len(dets), nil)

	for i, obj := range objs {
		oc := obj.Rect().Centroid()

		for j, det := range dets {
			dc := det.Box.Centroid()
			dist.Set(i, j, floats.Distance(
				[]float64{oc.X, oc.Y}, []float64{dc.X, dc.Y}, 2))
		}
	}

	cost := make([][]float64, len(objs))

	for i := range cost {
		cost[i] = dist.RawRowView(i)
	}

	return cost
}

// closeTrackers closes the trackers in the map
func closeTrackers[F any](trks map[uint64]Tracker[F]) {
	for _, trk := range trks {
		_ = trk.Close()
	}
}

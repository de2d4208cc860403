package building

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// ErrIndexOutOfRange is returned by Get for indices never registered.
var ErrIndexOutOfRange = errors.New("building index out of range")

// centroidTolerance is the half-size of the point rectangle indexed per building.
const centroidTolerance = 0.01

// spatialEntry adapts a record centroid to rtreego.Spatial.
type spatialEntry struct {
	index int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *spatialEntry) Bounds() rtreego.Rect { return e.rect }

// Registry is the index-addressable, append-only list of buildings.
// Records are never removed, so an index stays valid for the life of the
// registry.
type Registry struct {
	records   []*Record
	tree      *rtreego.Rtree
	margin    float64
	maxRadius float64
	destroyed int
}

// NewRegistry creates an empty registry. margin is added to every
// bounding radius.
func NewRegistry(margin float64) *Registry {
	return &Registry{
		tree:   rtreego.NewTree(2, 25, 50),
		margin: margin,
	}
}

// Register adds a batch of raw records and returns them in index order.
// Malformed inputs are still registered so indices line up with the source;
// their problems are returned as warnings.
func (r *Registry) Register(inputs []Input) ([]*Record, *validation.Report) {
	report := ValidateInputs(inputs, len(r.records))
	added := make([]*Record, 0, len(inputs))
	for _, in := range inputs {
		rec := newRecord(len(r.records), in, r.margin)
		r.records = append(r.records, rec)
		added = append(added, rec)
		if rec.BoundingRadius > r.maxRadius {
			r.maxRadius = rec.BoundingRadius
		}
		r.tree.Insert(&spatialEntry{
			index: rec.Index,
			rect:  rtreego.Point{rec.Centroid.X, rec.Centroid.Z}.ToRect(centroidTolerance),
		})
	}
	return added, report
}

// Get returns the record at index i.
func (r *Registry) Get(i int) (*Record, error) {
	if i < 0 || i >= len(r.records) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(r.records))
	}
	return r.records[i], nil
}

// Len returns the number of registered buildings.
func (r *Registry) Len() int { return len(r.records) }

// All returns every record in index order.
func (r *Registry) All() []*Record { return r.records }

// MarkDestroyed flips the destroyed flag. It returns true only on the first
// call for a given index; later calls and unknown indices are no-ops.
func (r *Registry) MarkDestroyed(i int) bool {
	if i < 0 || i >= len(r.records) {
		return false
	}
	rec := r.records[i]
	if rec.destroyed {
		return false
	}
	rec.destroyed = true
	r.destroyed++
	return true
}

// IsDestroyed reports the destroyed flag of index i.
func (r *Registry) IsDestroyed(i int) bool {
	if i < 0 || i >= len(r.records) {
		return false
	}
	return r.records[i].destroyed
}

// DestroyedCount returns how many buildings have been destroyed.
func (r *Registry) DestroyedCount() int { return r.destroyed }

// MaxBoundingRadius is the largest bounding radius of any registered record.
func (r *Registry) MaxBoundingRadius() float64 { return r.maxRadius }

// FindNear returns the indices of non-destroyed buildings whose centroid lies
// within maxDistance of p, in ascending index order.
func (r *Registry) FindNear(p geo.Point2D, maxDistance float64) []int {
	if maxDistance <= 0 || len(r.records) == 0 {
		return nil
	}
	query, err := rtreego.NewRect(
		rtreego.Point{p.X - maxDistance, p.Z - maxDistance},
		[]float64{2 * maxDistance, 2 * maxDistance},
	)
	if err != nil {
		return nil
	}

	var out []int
	for _, hit := range r.tree.SearchIntersect(query) {
		e := hit.(*spatialEntry)
		rec := r.records[e.index]
		if rec.destroyed {
			continue
		}
		if rec.Centroid.Distance(p) <= maxDistance {
			out = append(out, e.index)
		}
	}
	sort.Ints(out)
	return out
}

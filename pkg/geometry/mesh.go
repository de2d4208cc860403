package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is an indexed triangle list with flat attribute buffers.
// Positions and Normals hold xyz triples, UVs hold uv pairs.
type Mesh struct {
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals"`
	UVs       []float64 `json:"uvs"`
	Indices   []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) / 3 }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool { return len(m.Indices) == 0 }

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) mgl64.Vec3 {
	return mgl64.Vec3{m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) mgl64.Vec3 {
	return mgl64.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p, n mgl64.Vec3, u, v float64) uint32 {
	idx := uint32(m.VertexCount())
	m.Positions = append(m.Positions, p[0], p[1], p[2])
	m.Normals = append(m.Normals, n[0], n[1], n[2])
	m.UVs = append(m.UVs, u, v)
	return idx
}

// AddTriangle appends one triangle by vertex index.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AddFacing appends a flat-shaded triangle wound so that its geometric normal
// agrees with n.
func (m *Mesh) AddFacing(a, b, c, n mgl64.Vec3, uv [3][2]float64) {
	if b.Sub(a).Cross(c.Sub(a)).Dot(n) < 0 {
		b, c = c, b
		uv[1], uv[2] = uv[2], uv[1]
	}
	ia := m.AddVertex(a, n, uv[0][0], uv[0][1])
	ib := m.AddVertex(b, n, uv[1][0], uv[1][1])
	ic := m.AddVertex(c, n, uv[2][0], uv[2][1])
	m.AddTriangle(ia, ib, ic)
}

// AddQuad appends a planar quad p0-p1-p2-p3 (in perimeter order) facing n.
func (m *Mesh) AddQuad(p0, p1, p2, p3, n mgl64.Vec3, uv [4][2]float64) {
	order := [4]int{0, 1, 2, 3}
	if p1.Sub(p0).Cross(p2.Sub(p0)).Dot(n) < 0 {
		order = [4]int{0, 3, 2, 1}
	}
	pts := [4]mgl64.Vec3{p0, p1, p2, p3}
	var idx [4]uint32
	for k, o := range order {
		idx[k] = m.AddVertex(pts[o], n, uv[o][0], uv[o][1])
	}
	m.AddTriangle(idx[0], idx[1], idx[2])
	m.AddTriangle(idx[0], idx[2], idx[3])
}

// Append copies o into m, rebasing its indices.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	m.Positions = append(m.Positions, o.Positions...)
	m.Normals = append(m.Normals, o.Normals...)
	m.UVs = append(m.UVs, o.UVs...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Bounds returns the axis-aligned extent of all vertices.
func (m *Mesh) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	if m.VertexCount() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo := mgl64.Vec3{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}
	hi := mgl64.Vec3{-math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64}
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(i)
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], v[k])
			hi[k] = math.Max(hi[k], v[k])
		}
	}
	return lo, hi
}

// Valid reports whether every index references an existing vertex and every
// coordinate is finite.
func (m *Mesh) Valid() bool {
	if len(m.Positions)%3 != 0 || len(m.Indices)%3 != 0 {
		return false
	}
	n := uint32(m.VertexCount())
	for _, i := range m.Indices {
		if i >= n {
			return false
		}
	}
	for _, f := range m.Positions {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

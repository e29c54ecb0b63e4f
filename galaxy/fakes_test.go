package galaxy

import (
	"errors"
	"fmt"
)

var errGPU = errors.New("device lost")

type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

type fakeGeometry struct {
	id       int
	count    int
	released int
	log      *eventLog
}

func (g *fakeGeometry) Count() int { return g.count }

func (g *fakeGeometry) Release() {
	g.released++
	g.log.add("release geometry %d", g.id)
}

type fakeMaterial struct {
	id       int
	uniforms MaterialUniforms
	time     float32
	rotation float32
	released int
	log      *eventLog
}

func (m *fakeMaterial) SetTime(seconds float32)     { m.time = seconds }
func (m *fakeMaterial) SetRotation(radians float32) { m.rotation = radians }

func (m *fakeMaterial) Release() {
	m.released++
	m.log.add("release material %d", m.id)
}

type fakePoints struct {
	id       int
	geometry *fakeGeometry
	material *fakeMaterial
}

func (p *fakePoints) Geometry() Geometry { return p.geometry }
func (p *fakePoints) Material() Material { return p.material }

type fakeFactory struct {
	log *eventLog

	geometries []*fakeGeometry
	materials  []*fakeMaterial
	points     []*fakePoints

	failGeometry error
	failMaterial error
	failPoints   error
}

func (f *fakeFactory) CreateGeometry(buffers *AttributeBuffers) (Geometry, error) {
	if f.failGeometry != nil {
		return nil, f.failGeometry
	}
	g := &fakeGeometry{id: len(f.geometries) + 1, count: buffers.Count(), log: f.log}
	f.geometries = append(f.geometries, g)
	return g, nil
}

func (f *fakeFactory) CreateMaterial(uniforms MaterialUniforms) (Material, error) {
	if f.failMaterial != nil {
		return nil, f.failMaterial
	}
	m := &fakeMaterial{id: len(f.materials) + 1, uniforms: uniforms, log: f.log}
	f.materials = append(f.materials, m)
	return m, nil
}

func (f *fakeFactory) CreatePoints(geometry Geometry, material Material) (Points, error) {
	if f.failPoints != nil {
		return nil, f.failPoints
	}
	p := &fakePoints{id: len(f.points) + 1, geometry: geometry.(*fakeGeometry), material: material.(*fakeMaterial)}
	f.points = append(f.points, p)
	return p, nil
}

type fakeHost struct {
	log        *eventLog
	children   []Points
	exclusive  bool
	exclusives int

	// outsideSwap counts scene mutations made outside Exclusive.
	outsideSwap int
}

func (h *fakeHost) AddChild(points Points) {
	if !h.exclusive {
		h.outsideSwap++
	}
	h.children = append(h.children, points)
	h.log.add("add points %d", points.(*fakePoints).id)
}

func (h *fakeHost) RemoveChild(points Points) {
	if !h.exclusive {
		h.outsideSwap++
	}
	for i, c := range h.children {
		if c == points {
			h.children = append(h.children[:i], h.children[i+1:]...)
			break
		}
	}
	h.log.add("remove points %d", points.(*fakePoints).id)
}

func (h *fakeHost) Exclusive(fn func()) {
	h.exclusives++
	h.exclusive = true
	defer func() { h.exclusive = false }()
	fn()
}

type fakeClock struct {
	resets int
}

func (c *fakeClock) Reset() { c.resets++ }

func newFakes() (*eventLog, *fakeHost, *fakeFactory) {
	log := &eventLog{}
	return log, &fakeHost{log: log}, &fakeFactory{log: log}
}

// smallParams is a valid parameter set small enough for fast controller tests.
func smallParams() ParameterSet {
	p := DefaultParameters()
	p.StarCount = 64
	return p
}

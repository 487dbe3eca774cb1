package celestial

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// System is the ordered collection of bodies under simulation. Insertion
// order is the integration order.
type System struct {
	bodies []*Body
	index  map[string]*Body
}

// NewSystem builds a system from bodies in the given order.
func NewSystem(bodies ...*Body) (*System, error) {
	s := &System{
		bodies: make([]*Body, 0, len(bodies)),
		index:  make(map[string]*Body, len(bodies)),
	}
	for _, b := range bodies {
		if err := s.Add(b); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends b. Names are unique within a system.
func (s *System) Add(b *Body) error {
	if b == nil {
		return fmt.Errorf("%w: nil body", ErrInvalidParameter)
	}
	if _, ok := s.index[b.name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, b.name)
	}
	s.bodies = append(s.bodies, b)
	s.index[b.name] = b
	return nil
}

// Remove deletes the named body, keeping the order of the rest.
func (s *System) Remove(name string) (*Body, error) {
	b, ok := s.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}
	delete(s.index, name)
	return b, nil
}

// Rename changes a body's name. A blank new name is ignored.
func (s *System) Rename(oldName, newName string) error {
	b, ok := s.index[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBody, oldName)
	}
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return nil
	}
	if err := CheckName(newName); err != nil {
		return err
	}
	if _, taken := s.index[newName]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	delete(s.index, oldName)
	b.name = newName
	s.index[newName] = b
	return nil
}

func (s *System) Get(name string) (*Body, bool) {
	b, ok := s.index[name]
	return b, ok
}

// Bodies returns the backing slice in integration order. Callers must not
// append to or reorder it.
func (s *System) Bodies() []*Body { return s.bodies }

func (s *System) Len() int { return len(s.bodies) }

// Names returns body names in integration order.
func (s *System) Names() []string {
	names := make([]string, len(s.bodies))
	for i, b := range s.bodies {
		names[i] = b.name
	}
	return names
}

func (s *System) Stars() []*Body   { return s.ofKind(KindStar) }
func (s *System) Planets() []*Body { return s.ofKind(KindPlanet) }

func (s *System) ofKind(k Kind) []*Body {
	var out []*Body
	for _, b := range s.bodies {
		if b.kind == k {
			out = append(out, b)
		}
	}
	return out
}

// CenterOfMass returns the mass-weighted mean position of the named bodies,
// or of every body when no names are given. Unknown names are skipped.
func (s *System) CenterOfMass(names ...string) r3.Vec {
	members := s.bodies
	if len(names) > 0 {
		members = make([]*Body, 0, len(names))
		for _, n := range names {
			if b, ok := s.index[n]; ok {
				members = append(members, b)
			}
		}
	}
	var weighted r3.Vec
	total := 0.0
	for _, b := range members {
		weighted = r3.Add(weighted, r3.Scale(b.mass, b.position))
		total += b.mass
	}
	if total == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/total, weighted)
}

// Distance is the Euclidean separation of two bodies in metres.
func Distance(a, b *Body) float64 {
	return r3.Norm(r3.Sub(a.position, b.position))
}

// ResetAll restores every body to its baseline.
func (s *System) ResetAll() {
	for _, b := range s.bodies {
		b.ResetToDefault()
	}
}

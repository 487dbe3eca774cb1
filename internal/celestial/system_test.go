package celestial

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testSystem(t *testing.T) *System {
	t.Helper()
	sun, err := NewStar(Params{Name: "Sun", Mass: SunMass, Radius: 1.4}, SunLuminosity)
	if err != nil {
		t.Fatal(err)
	}
	earth, err := NewPlanet(earthParams(), 0.2, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	sat, err := NewBody(Params{Name: "Satellite", Position: r3.Vec{X: -AU}, Mass: 1000})
	if err != nil {
		t.Fatal(err)
	}
	sys, err := NewSystem(sun, earth, sat)
	if err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestSystem_AddDuplicate(t *testing.T) {
	sys := testSystem(t)
	dup, _ := NewBody(Params{Name: "Earth", Mass: 1})
	if err := sys.Add(dup); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if sys.Len() != 3 {
		t.Errorf("expected 3 bodies, got %d", sys.Len())
	}
}

func TestSystem_RemoveKeepsOrder(t *testing.T) {
	sys := testSystem(t)
	if _, err := sys.Remove("Earth"); err != nil {
		t.Fatal(err)
	}
	names := sys.Names()
	if len(names) != 2 || names[0] != "Sun" || names[1] != "Satellite" {
		t.Errorf("unexpected order after remove: %v", names)
	}
	if _, ok := sys.Get("Earth"); ok {
		t.Error("removed body still indexed")
	}
	if _, err := sys.Remove("Earth"); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestSystem_Rename(t *testing.T) {
	sys := testSystem(t)

	if err := sys.Rename("Earth", "Terra"); err != nil {
		t.Fatal(err)
	}
	if b, ok := sys.Get("Terra"); !ok || b.Name() != "Terra" {
		t.Error("rename did not reindex body")
	}
	if err := sys.Rename("Terra", "   "); err != nil {
		t.Errorf("blank rename should be ignored, got %v", err)
	}
	if _, ok := sys.Get("Terra"); !ok {
		t.Error("blank rename changed the name")
	}
	if err := sys.Rename("Terra", "Sun"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if err := sys.Rename("Vulcan", "X"); !errors.Is(err, ErrUnknownBody) {
		t.Errorf("expected ErrUnknownBody, got %v", err)
	}
}

func TestSystem_RenameRejectsPathNames(t *testing.T) {
	sys := testSystem(t)
	for _, name := range []string{"../escape", "a/b", `a\b`, "..", "."} {
		if err := sys.Rename("Earth", name); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%q: expected ErrInvalidParameter, got %v", name, err)
		}
	}
	if _, ok := sys.Get("Earth"); !ok {
		t.Error("rejected rename changed the name")
	}
}

func TestSystem_Kinds(t *testing.T) {
	sys := testSystem(t)
	if n := len(sys.Stars()); n != 1 {
		t.Errorf("expected 1 star, got %d", n)
	}
	if n := len(sys.Planets()); n != 1 {
		t.Errorf("expected 1 planet, got %d", n)
	}
}

func TestSystem_CenterOfMass(t *testing.T) {
	a, _ := NewBody(Params{Name: "A", Position: r3.Vec{X: -1}, Mass: 3})
	b, _ := NewBody(Params{Name: "B", Position: r3.Vec{X: 3}, Mass: 1})
	c, _ := NewBody(Params{Name: "C", Position: r3.Vec{Z: 100}, Mass: 4})
	sys, _ := NewSystem(a, b, c)

	pair := sys.CenterOfMass("A", "B")
	if math.Abs(pair.X) > 1e-12 || pair.Z != 0 {
		t.Errorf("expected pair centre at origin, got %v", pair)
	}
	all := sys.CenterOfMass()
	if math.Abs(all.Z-50) > 1e-12 {
		t.Errorf("expected z=50, got %v", all)
	}
}

func TestDistance(t *testing.T) {
	sys := testSystem(t)
	sun, _ := sys.Get("Sun")
	earth, _ := sys.Get("Earth")
	if d := Distance(sun, earth); d != AU {
		t.Errorf("expected %g, got %g", AU, d)
	}
}

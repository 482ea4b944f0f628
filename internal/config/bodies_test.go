package config

import (
	"testing"

	"github.com/san-kum/coe/internal/orbit"
)

func TestGetBody(t *testing.T) {
	b, ok := GetBody(" Earth ")
	if !ok {
		t.Fatal("expected earth")
	}
	if b.Mu != orbit.MuEarth {
		t.Errorf("earth mu %v, want %v", b.Mu, orbit.MuEarth)
	}

	if _, ok := GetBody("nonexistent"); ok {
		t.Error("expected miss for nonexistent body")
	}
}

func TestListBodies(t *testing.T) {
	names := ListBodies()
	if len(names) != len(Bodies) {
		t.Fatalf("expected %d bodies, got %d", len(Bodies), len(names))
	}
	if names[len(names)-1] != "sun" {
		t.Errorf("sun should have the largest mu, got order %v", names)
	}
	for i := 1; i < len(names); i++ {
		if Bodies[names[i-1]].Mu > Bodies[names[i]].Mu {
			t.Errorf("not sorted at %d: %v", i, names)
		}
	}
}

func TestBodiesPositive(t *testing.T) {
	for name, b := range Bodies {
		if b.Mu <= 0 || b.Radius <= 0 {
			t.Errorf("%s: mu=%v radius=%v", name, b.Mu, b.Radius)
		}
		if b.Name != name {
			t.Errorf("%s: name field %q", name, b.Name)
		}
	}
}

func TestBodyForMu(t *testing.T) {
	b, ok := BodyForMu(orbit.MuEarth)
	if !ok || b.Name != "earth" {
		t.Errorf("BodyForMu(earth) = %v, %v", b, ok)
	}
	if _, ok := BodyForMu(1.5); ok {
		t.Error("unexpected body for mu 1.5")
	}
}

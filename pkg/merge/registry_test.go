package merge

import "testing"

func TestRegistryReserveFreeName(t *testing.T) {
	reg := NewRegistry()

	final, changed := reg.Elements.Reserve("U1")
	if final != "U1" || changed {
		t.Errorf("Reserve(U1) = (%q, %v), want (U1, false)", final, changed)
	}
	if !reg.Elements.Used("U1") {
		t.Error("U1 not committed")
	}
}

func TestRegistryElementCollisions(t *testing.T) {
	reg := NewRegistry()

	reg.Elements.Reserve("U1")
	tests := []struct {
		want string
	}{
		{want: "U1_1"},
		{want: "U1_2"},
		{want: "U1_3"},
	}
	for _, tt := range tests {
		final, changed := reg.Elements.Reserve("U1")
		if final != tt.want || !changed {
			t.Errorf("Reserve(U1) = (%q, %v), want (%q, true)", final, changed, tt.want)
		}
	}
}

func TestRegistrySignalCollisions(t *testing.T) {
	// Signal collisions use bare numeric suffixes: GND, GND1, GND2.
	reg := NewRegistry()

	reg.Signals.Reserve("GND")
	final, changed := reg.Signals.Reserve("GND")
	if final != "GND1" || !changed {
		t.Errorf("Reserve(GND) = (%q, %v), want (GND1, true)", final, changed)
	}
	final, _ = reg.Signals.Reserve("GND")
	if final != "GND2" {
		t.Errorf("second collision = %q, want GND2", final)
	}
}

func TestRegistrySkipsTakenSuffix(t *testing.T) {
	// If the input itself already used U1_1, the derived name must not
	// collide with it.
	reg := NewRegistry()

	reg.Elements.Reserve("U1")
	reg.Elements.Reserve("U1_1")

	final, changed := reg.Elements.Reserve("U1")
	if final != "U1_2" || !changed {
		t.Errorf("Reserve(U1) = (%q, %v), want (U1_2, true)", final, changed)
	}
}

func TestRegistryNamespacesAreIndependent(t *testing.T) {
	reg := NewRegistry()

	reg.Elements.Reserve("GND")
	final, changed := reg.Signals.Reserve("GND")
	if final != "GND" || changed {
		t.Errorf("signal GND = (%q, %v), want (GND, false)", final, changed)
	}
}

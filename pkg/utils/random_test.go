package utils

import "testing"

func TestUniform(t *testing.T) {
	tests := []struct {
		name     string
		draw     float64
		min, max float64
		want     float64
	}{
		{name: "minimum", draw: 0, min: -3, max: 3, want: -3},
		{name: "midpoint", draw: 0.5, min: -3, max: 3, want: 0},
		{name: "positive range", draw: 0.25, min: 0, max: 40, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Uniform(NewSequence(tt.draw), tt.min, tt.max)
			if got != tt.want {
				t.Errorf("Uniform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUniformIntFloors(t *testing.T) {
	if got := UniformInt(NewSequence(0.999), 0, 40); got != 39 {
		t.Errorf("UniformInt() = %d, want 39", got)
	}
}

func TestSequenceLoops(t *testing.T) {
	seq := NewSequence(0.1, 0.2)
	got := []float64{seq.Float64(), seq.Float64(), seq.Float64()}
	want := []float64{0.1, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw %d = %v, want %v", i, got[i], want[i])
		}
	}
	if seq.Draws() != 3 {
		t.Errorf("Draws() = %d, want 3", seq.Draws())
	}
}

func TestNewSourceIsDeterministic(t *testing.T) {
	a, b := NewSource(42), NewSource(42)
	for i := 0; i < 5; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("sources with the same seed diverged at draw %d", i)
		}
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if id == "" {
			t.Fatal("GenerateID returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

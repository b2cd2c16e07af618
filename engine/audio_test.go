package engine

import (
	"testing"

	"github.com/pthm-cable/aura/config"
)

func testAdapter(t *testing.T) LevelAdapter {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return NewLevelAdapter(cfg.Audio)
}

func TestAdapterConvergesToScaledTarget(t *testing.T) {
	a := testAdapter(t)
	a.Set(1)
	for i := 0; i < 200; i++ {
		a.Step()
	}

	want := float32(0.65) // sensitivity from defaults
	if got := a.Level(); got < want-0.01 || got > want+0.01 {
		t.Errorf("level %g, want ~%g", got, want)
	}
}

func TestAdapterAttackFasterThanRelease(t *testing.T) {
	a := testAdapter(t)

	a.Set(1)
	a.Step()
	rise := a.Level()
	if rise <= 0 {
		t.Fatal("level did not rise on attack")
	}

	// Drive to steady state, then drop the input
	for i := 0; i < 200; i++ {
		a.Step()
	}
	steady := a.Level()
	a.Set(0)
	a.Step()
	fall := steady - a.Level()

	if fall >= rise {
		t.Errorf("release step %g not slower than attack step %g", fall, rise)
	}
}

func TestAdapterStaysInBand(t *testing.T) {
	a := testAdapter(t)
	inputs := []float32{0, 1, 0.2, 5, -3, 0.8}
	for _, in := range inputs {
		a.Set(in)
		for i := 0; i < 10; i++ {
			a.Step()
		}
		if lvl := a.Level(); lvl < 0 || lvl > 1 {
			t.Fatalf("level %g outside [0, 1] for input %g", lvl, in)
		}
	}
}

package model

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/hpml/pkg/errors"
)

type fittedThing struct {
	Name  string
	Coef  []float64
	State *StateManager
}

func TestStateManager(t *testing.T) {
	var nilState *StateManager
	if nilState.IsFitted() {
		t.Error("nil StateManager should report not fitted")
	}

	s := NewStateManager()
	if err := s.RequireFitted("Ridge", "Predict"); err == nil {
		t.Fatal("expected NotFittedError before Fit")
	} else {
		var nf *errors.NotFittedError
		if !errors.As(err, &nf) {
			t.Errorf("expected *NotFittedError, got %T", err)
		}
	}

	s.SetDimensions(3, 12)
	s.SetFitted()
	if err := s.RequireFitted("Ridge", "Predict"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.RequireFeatures("Predict", 2); err == nil {
		t.Error("expected DimensionError for wrong column count")
	}
	if nf, ns := s.GetDimensions(); nf != 3 || ns != 12 {
		t.Errorf("GetDimensions() = %d, %d", nf, ns)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear fitted state")
	}
}

func TestSaveLoadModel(t *testing.T) {
	in := fittedThing{Name: "ridge", Coef: []float64{1.5, -2}, State: NewStateManager()}
	in.State.SetDimensions(2, 10)
	in.State.SetFitted()

	path := filepath.Join(t.TempDir(), "nested", "dir", "model.gob")
	if err := SaveModel(&in, path); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	var out fittedThing
	if err := LoadModel(&out, path); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if out.Name != in.Name || len(out.Coef) != 2 || out.Coef[1] != -2 {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if !out.State.IsFitted() {
		t.Error("fitted state should survive gob round trip")
	}
}

func TestLoadModelFromReaderError(t *testing.T) {
	var out fittedThing
	if err := LoadModelFromReader(&out, bytes.NewBufferString("not gob")); err == nil {
		t.Error("expected decode error")
	}
	if err := LoadModel(&out, filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected open error")
	}
}

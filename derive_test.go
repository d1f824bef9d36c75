/*
 * derive_test.go
 *
 * Copyright 2025 The gomotion authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 */

package motion

import (
	"math"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//identitySeq builds a sequence of n poses with identity orientation and the
//given translations (one [3]float64 per sample).
func identitySeq(Te *testing.T, name string, rate float64, trans [][3]float64) *TransformationSequence {
	Te.Helper()
	n := len(trans)
	rot := mat.NewDense(n, 9, nil)
	tr := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		rot.Set(i, 0, 1)
		rot.Set(i, 4, 1)
		rot.Set(i, 8, 1)
		tr.SetRow(i, trans[i][:])
	}
	s, err := NewSequence(name, rate, "mm", rot, tr)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

//spinSeq builds a sequence rotating about Z by step radians per sample, at
//the origin.
func spinSeq(Te *testing.T, rate, step float64, n int) *TransformationSequence {
	Te.Helper()
	rot := mat.NewDense(n, 9, nil)
	tr := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		eulerToRot9(0, 0, float64(i)*step, rot.RawRowView(i))
	}
	s, err := NewSequence("spin", rate, "mm", rot, tr)
	if err != nil {
		Te.Fatal(err)
	}
	return s
}

func TestTranslationalVelocity(Te *testing.T) {
	//uniform motion along X at 100 Hz: every stencil, one-sided and central,
	//must report the same 100 mm/s.
	s := identitySeq(Te, "session1", 100, [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	v, err := Derive(s, TranslationalVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := v.Dims()
	if r != 3 || c != 3 {
		Te.Fatalf("velocity shape %dx%d, want 3x3", r, c)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(v.At(i, 0)-100) > 1e-9 || math.Abs(v.At(i, 1)) > 1e-9 || math.Abs(v.At(i, 2)) > 1e-9 {
			Te.Errorf("sample %d: velocity %v, want (100,0,0)", i, mat.Row(nil, i, v))
		}
	}
	a, err := Derive(s, TranslationalAcceleration, true)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a.At(i, j)) > 1e-9 {
				Te.Errorf("uniform motion should have zero acceleration, got %v at %d,%d", a.At(i, j), i, j)
			}
		}
	}
	w, err := Derive(s, AngularVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(w.At(i, j)) > 1e-9 {
				Te.Errorf("fixed orientation should have zero angular velocity, got %v", w.At(i, j))
			}
		}
	}
}

func TestDerivativeShortSequence(Te *testing.T) {
	//a single sample cannot be differentiated; the result is zeros of the
	//same length, not an error.
	s := identitySeq(Te, "single", 60, [][3]float64{{5, 5, 5}})
	v, err := Derive(s, TranslationalVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := v.Dims()
	if r != 1 || c != 3 {
		Te.Fatalf("shape %dx%d, want 1x3", r, c)
	}
	if v.At(0, 0) != 0 || v.At(0, 1) != 0 || v.At(0, 2) != 0 {
		Te.Errorf("expected zeros, got %v", mat.Row(nil, 0, v))
	}
	w, err := Derive(s, AngularVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	if w.At(0, 0) != 0 || w.At(0, 1) != 0 || w.At(0, 2) != 0 {
		Te.Errorf("expected zero angular velocity, got %v", mat.Row(nil, 0, w))
	}
}

func TestZeroMotion(Te *testing.T) {
	//identical poses throughout: every derivative, translational and angular,
	//must be exactly zero.
	n := 10
	rot := mat.NewDense(n, 9, nil)
	trans := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		eulerToRot9(0.5, -0.3, 1.2, rot.RawRowView(i))
		trans.SetRow(i, []float64{7, -2, 3})
	}
	s, err := NewSequence("still", 200, "mm", rot, trans)
	if err != nil {
		Te.Fatal(err)
	}
	for kind := TranslationalVelocity; kind < nDerivativeKinds; kind++ {
		a, err := Derive(s, kind, true)
		if err != nil {
			Te.Fatal(err)
		}
		r, _ := a.Dims()
		if r != n {
			Te.Fatalf("%v: length %d, want %d", kind, r, n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < 3; j++ {
				if math.Abs(a.At(i, j)) > 1e-9 {
					Te.Errorf("%v not zero at %d,%d: %v", kind, i, j, a.At(i, j))
				}
			}
		}
	}
}

func TestAngularVelocityConstantSpin(Te *testing.T) {
	//constant spin about Z: omega must be (0,0,step*rate) at every sample,
	//including the backward-difference last one.
	rate, step := 120.0, 0.01
	s := spinSeq(Te, rate, step, 50)
	w, err := Derive(s, AngularVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	want := step * rate
	n, _ := w.Dims()
	for i := 0; i < n; i++ {
		if math.Abs(w.At(i, 0)) > 1e-9 || math.Abs(w.At(i, 1)) > 1e-9 || math.Abs(w.At(i, 2)-want) > 1e-9 {
			Te.Errorf("sample %d: omega %v, want (0,0,%v)", i, mat.Row(nil, i, w), want)
		}
	}
	//and its derivative must vanish
	aa, err := Derive(s, AngularAcceleration, true)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(aa.At(i, j)) > 1e-7 {
				Te.Errorf("constant spin should have zero angular acceleration, got %v", aa.At(i, j))
			}
		}
	}
}

func TestAngularVelocityBodyFrame(Te *testing.T) {
	//spin about the body Z axis after a fixed tilt: the body-frame omega is
	//still (0,0,step*rate) even though the spatial axis is tilted.
	rate, step, tilt := 100.0, 0.02, 0.8
	n := 20
	rot := mat.NewDense(n, 9, nil)
	tr := mat.NewDense(n, 3, nil)
	tiltR := make([]float64, 9)
	eulerToRot9(tilt, 0, 0, tiltR)
	spin := make([]float64, 9)
	for i := 0; i < n; i++ {
		eulerToRot9(0, 0, float64(i)*step, spin)
		rot9Mul(rot.RawRowView(i), tiltR, spin)
	}
	s, err := NewSequence("tilted", rate, "mm", rot, tr)
	if err != nil {
		Te.Fatal(err)
	}
	w, err := Derive(s, AngularVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	want := step * rate
	for i := 0; i < n; i++ {
		if math.Abs(w.At(i, 0)) > 1e-9 || math.Abs(w.At(i, 1)) > 1e-9 || math.Abs(w.At(i, 2)-want) > 1e-9 {
			Te.Errorf("sample %d: body omega %v, want (0,0,%v)", i, mat.Row(nil, i, w), want)
		}
	}
}

func TestDeriveStoredPrecedence(Te *testing.T) {
	s := identitySeq(Te, "stored", 100, [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}})
	sentinel := mat.NewDense(3, 3, []float64{7, 7, 7, 7, 7, 7, 7, 7, 7})
	s.Derivatives().Set(TranslationalVelocity, sentinel)

	v, err := Derive(s, TranslationalVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	if v != sentinel {
		Te.Error("preferStored should return the stored array itself")
	}

	fresh, err := Derive(s, TranslationalVelocity, false)
	if err != nil {
		Te.Fatal(err)
	}
	if fresh == sentinel {
		Te.Error("recompute returned the stored array")
	}
	if math.Abs(fresh.At(0, 0)-100) > 1e-9 {
		Te.Errorf("recomputed velocity %v, want 100", fresh.At(0, 0))
	}
	//the stored set must survive the recompute untouched
	if s.Derivatives().Get(TranslationalVelocity) != sentinel {
		Te.Error("recompute clobbered the stored derivative")
	}
}

func TestDerivativeAliases(Te *testing.T) {
	s := identitySeq(Te, "alias", 100, [][3]float64{{0, 0, 0}, {1, 0, 0}})
	sentinel := mat.NewDense(2, 3, nil)
	s.Derivatives().SetNamed("velocity", sentinel) //legacy name
	if s.Derivatives().Get(TranslationalVelocity) != sentinel {
		Te.Error("legacy alias did not slot into the canonical field")
	}
	got, err := DeriveNamed(s, "translational_velocity", true)
	if err != nil {
		Te.Fatal(err)
	}
	if got != sentinel {
		Te.Error("canonical lookup missed the alias-stored array")
	}
	if _, err := DeriveNamed(s, "jerk", true); err == nil {
		Te.Error("expected an UnsupportedDerivativeError for an unknown name")
	} else if _, ok := err.(*UnsupportedDerivativeError); !ok {
		Te.Errorf("wrong error type: %T", err)
	}
}

func TestDeriveOutOfRangeKind(Te *testing.T) {
	s := identitySeq(Te, "oob", 100, [][3]float64{{0, 0, 0}, {1, 0, 0}})
	_, err := Derive(s, DerivativeKind(7), true)
	if err == nil {
		Te.Fatal("expected an UnsupportedDerivativeError")
	}
	if !strings.Contains(err.Error(), "7") {
		Te.Errorf("error should name the requested kind: %v", err)
	}
}

func TestDeriveConcurrent(Te *testing.T) {
	//a loaded sequence may be read by several derivative and projection
	//calls at once; all of them must come back with the same cached arrays.
	s := spinSeq(Te, 100, 0.01, 40)
	const workers = 8
	var wg sync.WaitGroup
	accels := make([]*mat.Dense, workers)
	for g := 0; g < workers; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			a, err := Derive(s, TranslationalAcceleration, true)
			if err != nil {
				Te.Error(err)
				return
			}
			accels[g] = a
			if _, err := Derive(s, AngularAcceleration, true); err != nil {
				Te.Error(err)
			}
			s.Matrices()
		}(g)
	}
	wg.Wait()
	for g := 1; g < workers; g++ {
		if accels[g] != accels[0] {
			Te.Error("concurrent calls must share one cached array")
		}
	}
}

func TestFiniteDifferenceBoundaryOrder(Te *testing.T) {
	//x = t^2 is differentiated exactly by second-order stencils; the
	//one-sided boundary samples must be as accurate as the interior.
	rate := 50.0
	n := 20
	trans := make([][3]float64, n)
	for i := range trans {
		t := float64(i) / rate
		trans[i] = [3]float64{t * t, 0, 0}
	}
	s := identitySeq(Te, "quad", rate, trans)
	v, err := Derive(s, TranslationalVelocity, true)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < n; i++ {
		want := 2 * float64(i) / rate
		if math.Abs(v.At(i, 0)-want) > 1e-9 {
			Te.Errorf("sample %d: velocity %v, want %v", i, v.At(i, 0), want)
		}
	}
}

func TestFiniteDifferenceIntegrationConsistency(Te *testing.T) {
	//differentiating a sampled sine and trapezoid-integrating back should
	//recover the displacement, with the residual shrinking at higher rates.
	residual := func(rate float64) float64 {
		n := int(rate) //one second
		trans := make([][3]float64, n)
		for i := range trans {
			t := float64(i) / rate
			trans[i] = [3]float64{math.Sin(2 * math.Pi * t), 0, 0}
		}
		s := identitySeq(Te, "sine", rate, trans)
		v, err := Derive(s, TranslationalVelocity, true)
		if err != nil {
			Te.Fatal(err)
		}
		integral := 0.0
		worst := 0.0
		for i := 1; i < n; i++ {
			integral += (v.At(i-1, 0) + v.At(i, 0)) / (2 * rate)
			if d := math.Abs(integral - (trans[i][0] - trans[0][0])); d > worst {
				worst = d
			}
		}
		return worst
	}
	lo := residual(50)
	hi := residual(500)
	if hi >= lo {
		Te.Errorf("residual should shrink with rate: 50Hz=%v 500Hz=%v", lo, hi)
	}
	if hi > 1e-3 {
		Te.Errorf("500Hz residual too large: %v", hi)
	}
}

func TestNorms(Te *testing.T) {
	a := mat.NewDense(2, 3, []float64{3, 4, 0, 0, 0, 2})
	n := Norms(a)
	if len(n) != 2 || math.Abs(n[0]-5) > 1e-12 || math.Abs(n[1]-2) > 1e-12 {
		Te.Errorf("norms %v, want [5 2]", n)
	}
}

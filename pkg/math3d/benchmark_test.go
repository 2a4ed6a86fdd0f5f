package math3d

import (
	"math"
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2, _ := Rotate(0.5, V3(0, 1, 0))

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	rot, _ := Rotate(0.5, V3(0, 1, 0))
	m := Translate(V3(1, 2, 3)).Mul(rot)
	v := Point(1, 2, 3)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkRotate(b *testing.B) {
	axis := V3(1, 2, 3)

	for b.Loop() {
		_, _ = Rotate(0.7, axis)
	}
}

func BenchmarkPerspective(b *testing.B) {
	for b.Loop() {
		_, _ = Perspective(math.Pi/3, 1.333, 0.1, 100.0)
	}
}

func BenchmarkLookAt(b *testing.B) {
	eye := V3(3, 4, 5)
	target := V3(0, 0, 0)
	up := V3(0, 1, 0)

	for b.Loop() {
		_, _ = LookAt(eye, target, up)
	}
}

func BenchmarkModelViewProjection(b *testing.B) {
	// Same composition the pipeline performs once per mesh per frame.
	view, _ := LookAt(V3(3, 4, 5), V3(0, 0, 0), V3(0, 1, 0))
	proj, _ := Perspective(math.Pi/3, 1.333, 0.1, 100.0)
	rot, _ := Rotate(0.5, V3(0, 1, 0))
	model := Translate(V3(1, 1, 1)).Mul(rot)

	for b.Loop() {
		_ = proj.Mul(view).Mul(model)
	}
}

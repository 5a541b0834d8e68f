package model

import (
	"context"
	"math"
	"testing"
)

func TestHashingEncoderDeterministic(t *testing.T) {
	enc := NewHashingEncoder(64)
	ctx := context.Background()

	a, err := enc.Encode(ctx, []string{"The Matrix Action Sci-Fi"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := enc.Encode(ctx, []string{"The Matrix Action Sci-Fi"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for d := range a[0] {
		if a[0][d] != b[0][d] {
			t.Fatal("same text produced different vectors")
		}
	}
}

func TestHashingEncoderProperties(t *testing.T) {
	enc := NewHashingEncoder(0)
	if enc.Dimension() != 256 {
		t.Errorf("default Dimension = %d, want 256", enc.Dimension())
	}

	vecs, err := enc.Encode(context.Background(), []string{
		"Inception Action Sci-Fi",
		"",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 256 {
		t.Fatalf("shape = %dx%d, want 2x256", len(vecs), len(vecs[0]))
	}

	// 非空文本得到非零向量
	var nonzero bool
	for _, v := range vecs[0] {
		if v != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("non-empty text encoded to the zero vector")
	}

	// 空文本得到零向量
	for d, v := range vecs[1] {
		if v != 0 {
			t.Errorf("empty text has non-zero component at %d: %v", d, v)
		}
	}
}

func TestHashingEncoderTokenOverlap(t *testing.T) {
	enc := NewHashingEncoder(128)
	ctx := context.Background()

	vecs, err := enc.Encode(ctx, []string{
		"Alien Horror Sci-Fi",
		"Aliens Horror Sci-Fi",
		"Toy Story Animation Comedy",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// token 重叠多的文本对余弦更高
	overlapping := cosine(vecs[0], vecs[1])
	disjoint := cosine(vecs[0], vecs[2])
	if overlapping <= disjoint {
		t.Errorf("cosine(overlapping)=%v <= cosine(disjoint)=%v", overlapping, disjoint)
	}
}

func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

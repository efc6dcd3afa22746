package tensor_test

import (
	"testing"

	"github.com/born-ml/quant/tensor"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape tensor.Shape
		want  int
	}{
		{tensor.Shape{}, 1},
		{tensor.Shape{4}, 4},
		{tensor.Shape{2, 3}, 6},
		{tensor.Shape{2, 3, 4}, 24},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (tensor.Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Validate({2,3}) = %v, want nil", err)
	}
	if err := (tensor.Shape{2, -1}).Validate(); err == nil {
		t.Error("Validate({2,-1}) = nil, want error")
	}
	if err := (tensor.Shape{0, 3}).Validate(); err == nil {
		t.Error("Validate({0,3}) = nil, want error")
	}
}

func TestComputeStrides(t *testing.T) {
	strides := tensor.Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	if len(strides) != len(want) {
		t.Fatalf("ComputeStrides({2,3,4}) = %v, want %v", strides, want)
	}
	for i := range want {
		if strides[i] != want[i] {
			t.Errorf("stride[%d] = %d, want %d", i, strides[i], want[i])
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b tensor.Shape
		want tensor.Shape
	}{
		{tensor.Shape{2, 3}, tensor.Shape{2, 3}, tensor.Shape{2, 3}},
		{tensor.Shape{2, 3}, tensor.Shape{3}, tensor.Shape{2, 3}},
		{tensor.Shape{2, 1}, tensor.Shape{1, 3}, tensor.Shape{2, 3}},
		{tensor.Shape{4, 1, 3}, tensor.Shape{2, 1}, tensor.Shape{4, 2, 3}},
		{tensor.Shape{5}, tensor.Shape{1}, tensor.Shape{5}},
	}
	for _, tt := range tests {
		got, _, err := tensor.BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) error: %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBroadcastShapesIncompatible(t *testing.T) {
	if _, _, err := tensor.BroadcastShapes(tensor.Shape{2}, tensor.Shape{3}); err == nil {
		t.Error("BroadcastShapes({2}, {3}) = nil error, want mismatch")
	}
}

func TestShapeCloneIsIndependent(t *testing.T) {
	orig := tensor.Shape{2, 3}
	clone := orig.Clone()
	clone[0] = 99
	if orig[0] != 2 {
		t.Errorf("mutating clone changed the original: %v", orig)
	}
}

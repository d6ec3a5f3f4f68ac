package tensor

import (
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
		{Shape{1, 1, 1}, 1},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Shape{2, 3}.Validate() = %v, want nil", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Shape{2, 0}.Validate() = nil, want error")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("Shape{-1, 3}.Validate() = nil, want error")
	}
}

func TestShapeEqual(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("identical shapes should be equal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("permuted shapes should not be equal")
	}
	if (Shape{2, 3}).Equal(Shape{2, 3, 1}) {
		t.Error("shapes of different rank should not be equal")
	}
}

func TestShapeClone(t *testing.T) {
	orig := Shape{2, 3, 4}
	clone := orig.Clone()

	clone[0] = 99
	if orig[0] != 2 {
		t.Error("mutating the clone should not affect the original")
	}
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{5}, []int{1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.want) {
			t.Fatalf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ComputeStrides(%v) = %v, want %v", tt.shape, got, tt.want)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Shape
		want    Shape
		needed  bool
		wantErr bool
	}{
		{"same shape", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"scalar-ish", Shape{2, 3}, Shape{1}, Shape{2, 3}, true, false},
		{"row broadcast", Shape{2, 3}, Shape{1, 3}, Shape{2, 3}, true, false},
		{"rank extension", Shape{2, 3, 4}, Shape{4}, Shape{2, 3, 4}, true, false},
		{"mask broadcast", Shape{2, 4, 5, 5}, Shape{2, 1, 1, 5}, Shape{2, 4, 5, 5}, true, false},
		{"incompatible", Shape{2, 3}, Shape{2, 4}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, needed, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BroadcastShapes(%v, %v) = %v, want error", tt.a, tt.b, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastShapes(%v, %v) error: %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if needed != tt.needed {
				t.Errorf("BroadcastShapes(%v, %v) needed = %v, want %v", tt.a, tt.b, needed, tt.needed)
			}
		})
	}
}

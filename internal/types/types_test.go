package types

import "testing"

func TestConversionCost(t *testing.T) {
	tests := []struct {
		from, to Kind
		wantCost int
		wantOK   bool
	}{
		{I32, I32, 0, true},
		{I32, I64, 1, true},
		{I64, I32, 0, false},
		{I32, F64, 2, true},
		{I64, F64, 1, true},
		{Bool, I32, 0, false},
		{Str, Str, 0, true},
	}
	for _, tt := range tests {
		cost, ok := ConversionCost(tt.from, tt.to)
		if ok != tt.wantOK || (ok && cost != tt.wantCost) {
			t.Errorf("ConversionCost(%s,%s) = (%d,%v), want (%d,%v)", tt.from, tt.to, cost, ok, tt.wantCost, tt.wantOK)
		}
	}
}

func TestAssignCompatible(t *testing.T) {
	if !AssignCompatible(I32, F64) {
		t.Error("numeric-to-numeric should always be allowed")
	}
	if AssignCompatible(Bool, I32) {
		t.Error("bool-to-i32 should not be allowed")
	}
	if !AssignCompatible(Str, Str) {
		t.Error("same-type should always be allowed")
	}
}

package primitives

import (
	"testing"
)

func TestCharSet_AddAndContains(t *testing.T) {
	cs := NewCharSet()

	tests := []struct {
		name      string
		char      rune
		wantCount int
	}{
		{"add 'a'", 'a', 1},
		{"add 'b'", 'b', 2},
		{"add 'z'", 'z', 3},
		{"add 'a' again", 'a', 3}, // should not increase count
		{"add out of range low ignored", 'A', 3},
		{"add out of range high ignored", '~', 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs.Add(tt.char)
			if cs.count != tt.wantCount {
				t.Errorf("count = %d, want %d", cs.count, tt.wantCount)
			}
		})
	}

	for _, r := range "abz" {
		if !cs.Contains(r) {
			t.Errorf("Contains(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'c', 'A', '~', 'é'} {
		if cs.Contains(r) {
			t.Errorf("Contains(%q) = true, want false", r)
		}
	}
}

func TestCharSet_IsFull(t *testing.T) {
	cs := NewCharSet()

	if cs.IsFull() {
		t.Error("IsFull() = true, want false for empty set")
	}

	cs.Add('a')
	cs.Add('b')
	if cs.IsFull() {
		t.Error("IsFull() = true, want false for partially filled set")
	}

	for i := 'a'; i <= 'z'; i++ {
		cs.Add(i)
	}
	if !cs.IsFull() {
		t.Error("IsFull() = false, want true for full set")
	}

	// Out-of-range adds must not count toward fullness.
	cs = NewCharSet()
	for i := 'a'; i <= 'y'; i++ {
		cs.Add(i)
	}
	cs.Add('~')
	if cs.IsFull() {
		t.Error("IsFull() = true after 25 letters and an ignored character")
	}
}

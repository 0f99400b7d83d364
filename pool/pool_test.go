package pool

import "testing"

func TestBorrowAllocatesWhenEmpty(t *testing.T) {
	calls := 0
	p := New(func() *int {
		calls++
		v := 0
		return &v
	})
	a := p.Borrow()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	*a = 42
	p.GiveBack(a)
	if p.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", p.Len())
	}
	b := p.Borrow()
	if b != a {
		t.Fatal("Borrow after GiveBack did not return the same container")
	}
	if *b != 42 {
		t.Fatalf("*b = %d, want 42 (reused, not reallocated)", *b)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no new allocation on reuse)", calls)
	}
}

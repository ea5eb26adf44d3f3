package ratelimit

import "testing"

func TestLimiterBurstThenDeny(t *testing.T) {
	l := New(2, 0.001)

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatalf("expected burst of 2 to pass")
	}
	if l.Allow("k") {
		t.Fatalf("expected third request to be denied")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, 0.001)

	if !l.Allow("a") {
		t.Fatalf("expected first key to pass")
	}
	if !l.Allow("b") {
		t.Fatalf("expected second key to pass")
	}
	if l.Allow("a") {
		t.Fatalf("expected first key to be exhausted")
	}
}

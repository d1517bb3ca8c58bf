package ratelimit

import "testing"

func TestAllowDrainsBucket(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("binance", 3, 0) {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow("binance", 3, 0) {
		t.Fatalf("bucket must be empty after capacity is drained")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()

	for i := 0; i < 2; i++ {
		l.Allow("a", 2, 0)
	}
	if l.Allow("a", 2, 0) {
		t.Fatalf("a should be drained")
	}
	if !l.Allow("b", 2, 0) {
		t.Fatalf("b must not be affected by a's usage")
	}
}

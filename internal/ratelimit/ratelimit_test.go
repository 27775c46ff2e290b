package ratelimit

import "testing"

func TestAllow_Burst(t *testing.T) {
	krl := New(1, 2)

	if !krl.Allow("a") {
		t.Error("first request should be allowed")
	}
	if !krl.Allow("a") {
		t.Error("second request within burst should be allowed")
	}
	if krl.Allow("a") {
		t.Error("third request should exceed burst")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	krl := New(1, 1)

	if !krl.Allow("a") {
		t.Error("key a should be allowed")
	}
	if !krl.Allow("b") {
		t.Error("key b has its own bucket")
	}
	if krl.Allow("a") {
		t.Error("key a bucket exhausted")
	}
}

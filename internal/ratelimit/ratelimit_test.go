package ratelimit_test

import (
	"testing"

	"github.com/medetbek/finance-tracker/internal/ratelimit"
)

func TestNoop_AlwaysAllows(t *testing.T) {
	l := ratelimit.Noop{}
	for i := 0; i < 1000; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatal("noop limiter denied a request")
		}
	}
}

func TestPerKey_BurstThenDeny(t *testing.T) {
	l := ratelimit.NewPerKey(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d within burst was denied", i)
		}
	}
	if l.Allow("a") {
		t.Error("request beyond burst was allowed")
	}
}

func TestPerKey_KeysAreIndependent(t *testing.T) {
	l := ratelimit.NewPerKey(1, 1)

	if !l.Allow("a") {
		t.Fatal("first request for key a denied")
	}
	if !l.Allow("b") {
		t.Error("first request for key b denied after exhausting a")
	}
}

package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllow_BlocksAfterLimit(t *testing.T) {
	l := New(3, time.Minute)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("4th attempt allowed, want blocked")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("other key blocked, want allowed")
	}
}

func TestAllow_WindowExpires(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Close()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("k") {
		t.Fatal("first attempt blocked")
	}
	if l.Allow("k") {
		t.Fatal("second attempt allowed inside window")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Error("attempt after window blocked, want allowed")
	}
}

func TestReset(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Close()

	l.Allow("k")
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("third attempt allowed, want blocked")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Error("attempt after reset blocked, want allowed")
	}
	if !l.Allow("other") {
		t.Error("unrelated key blocked")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.1:5555", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.2 "}, "10.0.0.1:5555", "198.51.100.2"},
		{"no port", nil, "10.0.0.7", "10.0.0.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

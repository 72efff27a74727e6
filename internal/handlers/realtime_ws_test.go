package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsLocalhostRemoteAddr(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:5123", true},
		{"[::1]:5123", true},
		{"10.0.0.5:80", false},
		{"not-an-ip", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isLocalhostRemoteAddr(tc.addr); got != tc.want {
			t.Errorf("isLocalhostRemoteAddr(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestInternalWSAllowed(t *testing.T) {
	t.Setenv("INTERNAL_WS_SECRET", "")

	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	req.RemoteAddr = "127.0.0.1:9999"
	if !internalWSAllowed(req) {
		t.Fatalf("loopback should always be allowed")
	}

	req.RemoteAddr = "10.0.0.5:9999"
	if internalWSAllowed(req) {
		t.Fatalf("remote without a configured secret should be denied")
	}

	t.Setenv("INTERNAL_WS_SECRET", "s3cret")
	if internalWSAllowed(req) {
		t.Fatalf("remote without the header should be denied")
	}
	req.Header.Set("X-Internal-WS-Secret", "s3cret")
	if !internalWSAllowed(req) {
		t.Fatalf("remote with the right secret should be allowed")
	}
	req.Header.Set("X-Internal-WS-Secret", "wrong")
	if internalWSAllowed(req) {
		t.Fatalf("wrong secret should be denied")
	}
}

func TestRealtimeHub_NilSafety(t *testing.T) {
	var hub *realtimeHub
	hub.add(nil)
	hub.remove(nil)
	hub.broadcast([]byte("x"))
	if hub.count() != 0 {
		t.Fatalf("nil hub count should be 0")
	}
}

func TestEmitEvent_FillsTimestamp(t *testing.T) {
	h := New(nil)
	// No connections; just exercise the marshal + broadcast path.
	h.emitEvent(realtimeEvent{Type: "post.created", PostID: "p1"})
	if h.rt.count() != 0 {
		t.Fatalf("expected no connections")
	}
}

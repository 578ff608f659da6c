package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type recordingDisposer struct {
	name  string
	calls *[]string
	err   error
}

func (d recordingDisposer) Dispose(context.Context) error {
	*d.calls = append(*d.calls, d.name)
	return d.err
}

func TestSession_RegisterAndLookup(t *testing.T) {
	s := NewHost().BeginWithID("s1")
	if _, ok := s.Registered("k", LifetimeSession); ok {
		t.Fatalf("expected empty session")
	}
	s.Register("k", 42, LifetimeSession, false)
	v, ok := s.Registered("k", LifetimeSession)
	if !ok || v != 42 {
		t.Fatalf("unexpected value %v (%v)", v, ok)
	}
	if _, ok := s.Registered("k", LifetimeProcess); ok {
		t.Fatalf("session value leaked into process scope")
	}
}

func TestSession_FreshSessionHasNoSessionValues(t *testing.T) {
	host := NewHost()
	first := host.BeginWithID("s1")
	first.Register("session", "a", LifetimeSession, false)
	first.Register("process", "b", LifetimeProcess, false)
	if err := first.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := host.BeginWithID("s2")
	if _, ok := second.Registered("session", LifetimeSession); ok {
		t.Fatalf("session value survived into a new session")
	}
	if v, ok := second.Registered("process", LifetimeProcess); !ok || v != "b" {
		t.Fatalf("process value lost: %v %v", v, ok)
	}
}

func TestSession_CloseDisposesInReverseOrder(t *testing.T) {
	var calls []string
	s := NewHost().BeginWithID("s1")
	s.Register("a", recordingDisposer{name: "a", calls: &calls}, LifetimeSession, false)
	s.Register("plain", "value", LifetimeSession, false)
	s.Register("b", recordingDisposer{name: "b", calls: &calls, err: errors.New("busy")}, LifetimeSession, false)

	err := s.Close(context.Background())
	if err == nil || !strings.Contains(err.Error(), "dispose b: busy") {
		t.Fatalf("unexpected close error: %v", err)
	}
	if strings.Join(calls, ",") != "b,a" {
		t.Fatalf("unexpected dispose order: %v", calls)
	}
	if !errors.Is(s.Close(context.Background()), ErrClosed) {
		t.Fatalf("expected ErrClosed on second close")
	}
}

func TestSession_CollectKeepsPinnedValues(t *testing.T) {
	var calls []string
	s := NewHost().BeginWithID("s1")
	s.Register("cache", "x", LifetimeSession, true)
	s.Register("pinned", "y", LifetimeSession, false)
	s.Register("disposable", recordingDisposer{name: "d", calls: &calls}, LifetimeSession, true)

	if got := s.Collect(); got != 1 {
		t.Fatalf("expected one value collected, got %d", got)
	}
	if _, ok := s.Registered("cache", LifetimeSession); ok {
		t.Fatalf("early-collectible value survived")
	}
	if _, ok := s.Registered("pinned", LifetimeSession); !ok {
		t.Fatalf("pinned value collected")
	}
	if _, ok := s.Registered("disposable", LifetimeSession); !ok {
		t.Fatalf("disposable value collected before close")
	}
}

func TestFormatID(t *testing.T) {
	timestamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := FormatID(timestamp, "deadbeef"); got != "s20240102T030405Z-deadbeef" {
		t.Fatalf("unexpected session id: %q", got)
	}
}

func TestNewIDWithRand(t *testing.T) {
	timestamp := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	reader := bytes.NewReader([]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55})
	got, err := NewIDWithRand(timestamp, reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "s20240607T080910Z-001122334455" {
		t.Fatalf("unexpected session id: %q", got)
	}
	if _, err := NewIDWithRand(timestamp, nil); err == nil {
		t.Fatalf("expected error for nil reader")
	}
}

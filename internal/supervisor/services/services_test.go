// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ladle-app/ladle/internal/storage"
)

// fakeServer implements HTTPServer with controllable behavior.
type fakeServer struct {
	listenErr  error
	started    chan struct{}
	stop       chan struct{}
	shutdownOK atomic.Bool
}

func newFakeServer(listenErr error) *fakeServer {
	return &fakeServer{
		listenErr: listenErr,
		started:   make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

func (f *fakeServer) ListenAndServe() error {
	close(f.started)
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return errors.New("http: Server closed")
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdownOK.Store(true)
	close(f.stop)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newFakeServer(nil)
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-server.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
	if !server.shutdownOK.Load() {
		t.Error("Shutdown was never called")
	}
}

func TestHTTPServiceListenFailure(t *testing.T) {
	server := newFakeServer(errors.New("bind: address already in use"))
	svc := NewHTTPService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("Expected listen failure to propagate")
	}
}

// pingTier is a Tier whose Ping result can be flipped.
type pingTier struct {
	*storage.MemoryTier
	fail atomic.Bool
}

func (p *pingTier) Ping(ctx context.Context) error {
	if p.fail.Load() {
		return storage.ErrUnavailable
	}
	return nil
}

func TestProbeServiceStopsOnCancel(t *testing.T) {
	tier := &pingTier{MemoryTier: storage.NewMemoryTier()}
	svc := NewProbeService("nav", tier, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Probe did not stop on cancel")
	}
}

func TestServiceNames(t *testing.T) {
	tier := &pingTier{MemoryTier: storage.NewMemoryTier()}
	names := map[string]interface{ String() string }{
		"http-server":    NewHTTPService(newFakeServer(nil), time.Second),
		"memory-sweeper": NewSweeperService(nil, time.Minute),
		"badger-gc":      NewBadgerGCService(nil, time.Minute),
		"probe-nav":      NewProbeService("nav", tier, time.Minute),
	}
	for want, svc := range names {
		if got := svc.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}

// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type blockingService struct {
	ran atomic.Bool
}

func (b *blockingService) Serve(ctx context.Context) error {
	b.ran.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (b *blockingService) String() string { return "blocking" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTreeRunsAndStopsServices(t *testing.T) {
	tree := NewTree(discardLogger(), DefaultTreeConfig())

	dataSvc := &blockingService{}
	apiSvc := &blockingService{}
	tree.AddDataService(dataSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(5 * time.Second)
	for !dataSvc.ran.Load() || !apiSvc.ran.Load() {
		select {
		case <-deadline:
			t.Fatal("Services never started")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Unexpected termination error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Tree did not stop after cancellation")
	}
}

func TestTreeConfigZeroValuesGetDefaults(t *testing.T) {
	tree := NewTree(discardLogger(), TreeConfig{})
	if tree.root == nil || tree.data == nil || tree.api == nil {
		t.Fatal("Tree layers not constructed")
	}
}

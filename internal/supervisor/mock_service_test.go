// TCGVault - Card Catalog Synchronization and Price Tracking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tcgvault

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// mockService is a controllable suture.Service.
type mockService struct {
	name       string
	startCount atomic.Int32
	failCount  atomic.Int32

	mu       sync.Mutex
	maxFails int32
	err      error
}

func newMockService(name string) *mockService {
	return &mockService{name: name}
}

// Serve fails maxFails times, then returns err if set, otherwise runs until
// ctx is cancelled.
func (m *mockService) Serve(ctx context.Context) error {
	m.startCount.Add(1)

	m.mu.Lock()
	err, maxFails := m.err, m.maxFails
	m.mu.Unlock()

	if maxFails > 0 && m.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockService) setFailCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxFails = int32(n)
}

func (m *mockService) starts() int32 {
	return m.startCount.Load()
}

func (m *mockService) String() string {
	return m.name
}

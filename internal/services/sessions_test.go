package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rht/casedesk/internal/models"
	"github.com/rht/casedesk/internal/services"
	"github.com/rht/casedesk/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func emptyFilter() models.CaseFilter { return models.CaseFilter{} }

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	store := services.NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	sess := wizard.NewSession("s1")
	sess.Draft.Property.Address = "789 Pine Road"
	require.NoError(t, store.Save(ctx, sess))

	sess.Draft.Property.Address = "changed after save"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "789 Pine Road", loaded.Draft.Property.Address)
	assert.Equal(t, wizard.StepComplainant, loaded.CurrentStep)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	store := services.NewMemorySessionStore(-time.Second)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, wizard.NewSession("s1")))

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestMemorySessionStoreLock(t *testing.T) {
	store := services.NewMemorySessionStore(time.Hour)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "s1")
	require.NoError(t, err)

	_, err = store.Lock(ctx, "s1")
	assert.ErrorIs(t, err, services.ErrSessionBusy)

	other, err := store.Lock(ctx, "s2")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	again, err := store.Lock(ctx, "s1")
	require.NoError(t, err)
	again()
}

func TestMemorySessionStoreSweep(t *testing.T) {
	store := services.NewMemorySessionStore(-time.Second)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, wizard.NewSession("s1")))
	require.NoError(t, store.Save(ctx, wizard.NewSession("s2")))

	unlock, err := store.Lock(ctx, "s2")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Sweep(), "locked sessions are left for their holder")
	unlock()
	assert.Equal(t, 1, store.Sweep())
	assert.Zero(t, store.Sweep())
}

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 0
}

func TestSessionSweeperStopsOnCancel(t *testing.T) {
	sw := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		services.NewSessionSweeper(sw, zap.NewNop().Sugar()).Start(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSuspendGapSynthesizesBreak(t *testing.T) {
	api := &mockAPI{}
	api.On("StartBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store := &fakeStore{}
	m, clock := newTestManager(api, store)
	beginShift(m)

	t0 := clock.Now()
	m.observeTick(t0) // seeds lastTick

	// Heartbeat interval is 10s but the next tick lands 400s later: the
	// machine slept for ~390s.
	clock.Advance(400 * time.Second)
	m.observeTick(clock.Now())

	assert.Equal(t, OnBreak, m.State())
	assert.Equal(t, 390, seconds(m.breakTime))
	assert.Zero(t, seconds(m.activeTime), "sleep must never count as active work")
	assert.Equal(t, clock.Now(), m.lastUpdate)

	m.mu.Lock()
	assert.Equal(t, clock.Now().Add(-390*time.Second), m.breakStart)
	assert.True(t, m.sleepBreakActive)
	m.mu.Unlock()

	api.AssertNumberOfCalls(t, "StartBreak", 1)
	require.Len(t, store.sleeps, 1)
	assert.Equal(t, 390, store.sleeps[0].DurationSeconds)
	assert.Equal(t, clock.Now(), store.sleeps[0].WakeTime)
}

func TestSuspendGapNormalTickIsQuiet(t *testing.T) {
	api := &mockAPI{}
	store := &fakeStore{}
	m, clock := newTestManager(api, store)
	beginShift(m)

	m.observeTick(clock.Now())
	clock.Advance(10 * time.Second)
	m.observeTick(clock.Now())
	clock.Advance(65 * time.Second) // jittery but under threshold
	m.observeTick(clock.Now())

	assert.Equal(t, ClockedIn, m.State())
	assert.Zero(t, m.breakTime)
	assert.Empty(t, store.sleeps)
}

func TestSuspendGapDuringOpenBreak(t *testing.T) {
	api := &mockAPI{}
	api.On("StartBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m, clock := newTestManager(api, &fakeStore{})
	beginShift(m)

	require.NoError(t, m.StartBreak())
	api.AssertNumberOfCalls(t, "StartBreak", 1)

	m.observeTick(clock.Now())
	clock.Advance(300 * time.Second)
	m.observeTick(clock.Now())

	// Break was already open: the gap adds to break time but no second
	// remote break is started.
	assert.Equal(t, OnBreak, m.State())
	assert.Equal(t, 290, seconds(m.breakTime))
	api.AssertNumberOfCalls(t, "StartBreak", 1)
}

func TestSuspendGapWhileLoggedOut(t *testing.T) {
	api := &mockAPI{}
	store := &fakeStore{}
	m, clock := newTestManager(api, store)

	m.observeTick(clock.Now())
	clock.Advance(500 * time.Second)
	m.observeTick(clock.Now())

	// The event is still recorded for diagnostics, but no time is charged
	assert.Equal(t, LoggedOut, m.State())
	assert.Zero(t, m.breakTime)
	require.Len(t, store.sleeps, 1)
	api.AssertNotCalled(t, "StartBreak", mock.Anything, mock.Anything, mock.Anything)
}

func TestSuspendGapClearsPrehandledFlagWhileLoggedOut(t *testing.T) {
	m, clock := newTestManager(&mockAPI{}, &fakeStore{})

	// Flag left over from a sleep handler that fired right before the
	// session ended; the next wake must not carry it into a future shift.
	m.mu.Lock()
	m.sleepGapPrehandled = true
	m.mu.Unlock()

	m.observeTick(clock.Now())
	clock.Advance(500 * time.Second)
	m.observeTick(clock.Now())

	m.mu.Lock()
	assert.False(t, m.sleepGapPrehandled)
	m.mu.Unlock()
}

func TestOnSleepThenGapDoesNotDoubleOpen(t *testing.T) {
	api := &mockAPI{}
	api.On("StartBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m, clock := newTestManager(api, &fakeStore{})
	beginShift(m)

	m.observeTick(clock.Now())
	m.OnSleep()
	assert.Equal(t, OnBreak, m.State())
	api.AssertNumberOfCalls(t, "StartBreak", 1)

	sleepStart := clock.Now()
	clock.Advance(600 * time.Second)
	m.observeTick(clock.Now())

	// The detector credits the gap but keeps the break the OS hook opened
	api.AssertNumberOfCalls(t, "StartBreak", 1)
	m.mu.Lock()
	assert.Equal(t, sleepStart, m.breakStart)
	m.mu.Unlock()
	assert.Equal(t, 590, seconds(m.breakTime))
}

func TestOnResumeClosesSleepBreak(t *testing.T) {
	api := &mockAPI{}
	api.On("StartBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	api.On("EndBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m, clock := newTestManager(api, &fakeStore{})
	beginShift(m)

	m.OnSleep()
	clock.Advance(120 * time.Second)
	m.OnResume()

	assert.Equal(t, ClockedIn, m.State())
	assert.Equal(t, 120, seconds(m.breakTime))
	api.AssertNumberOfCalls(t, "EndBreak", 1)
	m.mu.Lock()
	assert.False(t, m.sleepBreakActive)
	m.mu.Unlock()
}

func TestOnResumeIgnoresManualBreak(t *testing.T) {
	api := &mockAPI{}
	api.On("StartBreak", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m, _ := newTestManager(api, &fakeStore{})
	beginShift(m)

	require.NoError(t, m.StartBreak())
	m.OnResume()

	// A break the user opened on purpose stays open through an unlock
	assert.Equal(t, OnBreak, m.State())
	api.AssertNotCalled(t, "EndBreak", mock.Anything, mock.Anything, mock.Anything)
}

package donation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsLifecycle(t *testing.T) {
	s := NewSessions(&fakeSubmitter{}, time.Minute, nil)

	id := s.Create()
	require.NotEmpty(t, id)
	assert.Equal(t, 1, s.Len())

	m, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateEntry, m.State())

	// Each session owns its own machine.
	other := s.Create()
	m2, err := s.Get(other)
	require.NoError(t, err)
	assert.NotSame(t, m, m2)

	s.Remove(id)
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsGetUnknown(t *testing.T) {
	s := NewSessions(&fakeSubmitter{}, time.Minute, nil)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsSweep(t *testing.T) {
	s := NewSessions(&fakeSubmitter{}, 10*time.Millisecond, nil)
	id := s.Create()

	time.Sleep(20 * time.Millisecond)
	fresh := s.Create()

	removed := s.Sweep()
	assert.Equal(t, 1, removed)
	_, err := s.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Get(fresh)
	assert.NoError(t, err)
}

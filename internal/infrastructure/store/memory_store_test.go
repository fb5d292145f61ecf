package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type record struct {
	ID     string
	Status string
}

func TestMemoryStore_PutGetExpire(t *testing.T) {
	s := NewMemoryStore[record](time.Minute, time.Minute)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Put("a", record{ID: "a", Status: "prepared"}, 0)
	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "prepared", got.Status)

	s.Put("a", record{ID: "a", Status: "success"}, time.Minute)
	got, _ = s.Get("a")
	assert.Equal(t, "success", got.Status)

	s.Expire("a")
	_, ok = s.Get("a")
	assert.False(t, ok)
}

func TestMemoryStore_TTLEviction(t *testing.T) {
	s := NewMemoryStore[record](time.Minute, 10*time.Millisecond)

	s.Put("short", record{ID: "short"}, 20*time.Millisecond)
	s.Put("long", record{ID: "long"}, time.Minute)

	assert.Eventually(t, func() bool {
		_, ok := s.Get("short")
		return !ok
	}, time.Second, 5*time.Millisecond)

	_, ok := s.Get("long")
	assert.True(t, ok)
	assert.Eventually(t, func() bool { return s.Len() == 1 }, time.Second, 5*time.Millisecond)
}

package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_AssignsMonotonicIdsPerPartition(t *testing.T) {
	r := NewRegistry()

	// GIVEN entities of different types registered interleaved
	s1 := addServer(r, Point{}, 1)
	u1 := &User{}
	r.AddUser(u1)
	s2 := addServer(r, Point{}, 1)

	// THEN ids increase monotonically within each type partition
	assert.Equal(t, 1, s1.ID)
	assert.Equal(t, 2, s2.ID)
	assert.Equal(t, 1, u1.ID)
}

func TestRegistry_AllIteratesInInsertionOrder(t *testing.T) {
	r := NewRegistry()
	s1 := addServer(r, Point{}, 1)
	s2 := addServer(r, Point{}, 2)
	s3 := addServer(r, Point{}, 3)

	servers := r.Servers()
	assert.Equal(t, []*EdgeServer{s1, s2, s3}, servers)
}

func TestRegistry_FindReturnsRegisteredEntity(t *testing.T) {
	r := NewRegistry()
	s := addServer(r, Point{}, 1)

	got, err := r.Server(s.ID)
	assert.NoError(t, err)
	assert.Same(t, s, got)
}

func TestRegistry_MissFailsWithLookupError(t *testing.T) {
	r := NewRegistry()
	addServer(r, Point{}, 1)

	_, err := r.Server(7)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	assert.Equal(t, "server", lookupErr.Kind)
	assert.Equal(t, 7, lookupErr.ID)

	_, err = r.Service(1)
	assert.Error(t, err)
}

func TestRegistry_DoubleRegistration_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on double registration, got none")
		}
	}()

	r := NewRegistry()
	s := addServer(r, Point{}, 1)
	r.AddServer(s)
}

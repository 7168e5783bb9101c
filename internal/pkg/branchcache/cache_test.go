package branchcache

import (
	"testing"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetInvalidate(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("b1")
	assert.False(t, ok)

	c.Set(branch.Branch{ID: "b1", Name: "HQ", Latitude: 12.9716, Longitude: 77.5946})

	got, ok := c.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "HQ", got.Name)
	assert.Equal(t, 12.9716, got.Latitude)

	c.Invalidate("b1")
	_, ok = c.Get("b1")
	assert.False(t, ok)
}

func TestCache_SetReplaces(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	defer c.Close()

	c.Set(branch.Branch{ID: "b1", Name: "HQ"})
	c.Set(branch.Branch{ID: "b1", Name: "HQ Renamed"})

	got, ok := c.Get("b1")
	require.True(t, ok)
	assert.Equal(t, "HQ Renamed", got.Name)
}

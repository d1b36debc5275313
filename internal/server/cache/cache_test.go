package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKoy/csv-version-compare/internal/server/cache"
)

func TestGetOrLoad(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	calls := 0
	load := func() (any, error) {
		calls++
		return []string{"canonical"}, nil
	}

	v, hit, err := c.GetOrLoad(cache.ProfilesKey(), load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"canonical"}, v)

	_, hit, err = c.GetOrLoad(cache.ProfilesKey(), load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
}

func TestGetOrLoadErrorNotCached(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	_, _, err := c.GetOrLoad(cache.ProfileKey("erp"), func() (any, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := cache.New(time.Minute, time.Minute)
	c.Set(cache.ProfileKey("erp"), "x")
	c.Set(cache.ProfileKey("legacy"), "y")
	assert.Equal(t, 2, c.ItemCount())

	v, ok := c.Get(cache.ProfileKey("erp"))
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	c.Clear()
	assert.Equal(t, 0, c.ItemCount())
}

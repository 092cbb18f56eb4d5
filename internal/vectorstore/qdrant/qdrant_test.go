package qdrant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6334, cfg.Port)
	assert.Equal(t, "documents", cfg.Collection)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestConfigApplyDefaultsKeepsSetValues(t *testing.T) {
	cfg := &Config{
		Host:           "qdrant.internal",
		Port:           7001,
		Collection:     "archive",
		RequestTimeout: 5 * time.Second,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "qdrant.internal", cfg.Host)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "archive", cfg.Collection)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestOwnerFilter(t *testing.T) {
	t.Run("empty owner means no filter", func(t *testing.T) {
		assert.Nil(t, OwnerFilter(""))
	})

	t.Run("owner becomes a must-match condition", func(t *testing.T) {
		filter := OwnerFilter("user-123")
		require.NotNil(t, filter)
		require.Len(t, filter.Must, 1)

		field := filter.Must[0].GetField()
		require.NotNil(t, field)
		assert.Equal(t, "owner_id", field.Key)
		assert.Equal(t, "user-123", field.Match.GetKeyword())
	})
}

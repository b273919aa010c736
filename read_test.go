package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsheet/graphsheet/internal/stream"
)

func TestSelectStreams(t *testing.T) {
	defs := []stream.Definition{
		{Name: "revenue"},
		{Name: "expenses"},
		{Name: "expenses_2"},
	}

	t.Run("no filter returns all", func(t *testing.T) {
		got, err := selectStreams(defs, nil)
		require.NoError(t, err)
		assert.Equal(t, defs, got)
	})

	t.Run("filter selects in request order", func(t *testing.T) {
		got, err := selectStreams(defs, []string{"expenses_2", "revenue"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "expenses_2", got[0].Name)
		assert.Equal(t, "revenue", got[1].Name)
	})

	t.Run("unknown name fails loudly", func(t *testing.T) {
		_, err := selectStreams(defs, []string{"revnue"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown stream "revnue"`)
		assert.Contains(t, err.Error(), "graphsheet discover")
	})
}

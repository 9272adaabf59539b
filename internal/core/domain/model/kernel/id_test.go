package kernel_test

import (
	"testing"

	"comanda/internal/core/domain/model/kernel"
	"comanda/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	t.Run("should trim and keep the value", func(t *testing.T) {
		id, err := kernel.NewID("  17 ")

		require.NoError(t, err)
		assert.Equal(t, "17", id.String())
		require.NoError(t, id.Validate())
	})

	t.Run("should reject blank values", func(t *testing.T) {
		for _, input := range []string{"", "   "} {
			_, err := kernel.NewID(input)

			require.ErrorIs(t, err, errs.ErrValueIsRequired)
		}
	})

	t.Run("IDFromInt matches the string form", func(t *testing.T) {
		assert.True(t, kernel.IDFromInt(7).IsEqual(kernel.MustID("7")))
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var id kernel.ID

		assert.True(t, id.IsZero())
		require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
	})
}

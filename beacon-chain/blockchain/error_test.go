package blockchain

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsInvalidBlock(t *testing.T) {
	require.Equal(t, false, IsInvalidBlock(ErrStateRootMismatch))
	err := invalidBlock{ErrStateRootMismatch}
	require.Equal(t, true, IsInvalidBlock(err))

	newErr := errors.Wrap(err, "wrap me")
	require.Equal(t, true, IsInvalidBlock(newErr))
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSpinnerMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Rendering 1 file page", renderSpinnerMessage(1))
	require.Equal(t, "Rendering 3 file pages", renderSpinnerMessage(3))
}

func TestStartRenderSpinner_ZeroIsNoop(t *testing.T) {
	t.Parallel()

	stop := startRenderSpinner(0)
	require.NotNil(t, stop)
	stop()
}

package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTrue(t *testing.T) {
	require.NotPanics(t, func() { IsTrue(true, "never") })
	require.PanicsWithError(t, "assertion failed: leaf 3 lost", func() { IsTrue(false, "leaf %d lost", 3) })
}

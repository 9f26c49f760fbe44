package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	require.Equal(t, 1.23, Round2(1.234))
	require.Equal(t, 1.24, Round2(1.235))
	require.Equal(t, -1.23, Round2(-1.234))
	require.Equal(t, 0.0, Round2(0))
	require.Equal(t, 100.0, Round2(99.999))
}

func TestPercentage(t *testing.T) {
	require.Equal(t, 50.0, Percentage(50, 100))
	require.Equal(t, 33.33, Percentage(1, 3))
	require.Equal(t, 0.0, Percentage(10, 0))
	require.Equal(t, 0.0, Percentage(0, 100))
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	require.Equal(t, 4, p.TotalPages)
	require.Equal(t, 10, p.Offset())

	p = NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 0, p.Offset())
}

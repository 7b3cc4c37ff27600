package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDSequence(t *testing.T) {
	seq := NewIDSequence(0)
	require.Equal(t, 1, seq.Peek())
	require.Equal(t, 1, seq.NewID())
	require.Equal(t, 2, seq.NewID())
	require.Equal(t, 3, seq.Peek())

	require.Equal(t, 10, NewIDSequence(9).NewID())
	require.Equal(t, 1, NewIDSequence(-5).NewID())
}

func TestBoltKeyOrder(t *testing.T) {
	require.Equal(t, 300, btoi(itob(300)))
	require.Equal(t, 0, btoi([]byte{1, 2}))
	// byte order must follow numeric order for cursor iteration
	require.Less(t, string(itob(9)), string(itob(10)))
}

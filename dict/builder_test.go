package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ==============================================================================
// Add / Len Tests
// ==============================================================================

func TestBuilder_AddAssignsInsertionOrder(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, uint32(0), b.Add("c"))
	require.Equal(t, uint32(1), b.Add("a"))
	require.Equal(t, uint32(2), b.Add("b"))
	require.Equal(t, 3, b.Len())
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, uint32(0), b.Add("name"))
	require.Equal(t, uint32(1), b.Add("age"))
	require.Equal(t, uint32(0), b.Add("name"))
	require.Equal(t, uint32(1), b.Add("age"))
	require.Equal(t, 2, b.Len())
}

// ==============================================================================
// Finish Tests
// ==============================================================================

func TestBuilder_FinishEmpty(t *testing.T) {
	meta, remap, err := NewBuilder().Finish(true)
	require.NoError(t, err)
	require.Nil(t, remap)
	// header, size=0, single offset 0
	require.Equal(t, []byte{0x11, 0, 0}, meta)
}

func TestBuilder_FinishSortedLayout(t *testing.T) {
	b := NewBuilder()
	b.Add("a")
	b.Add("b")

	meta, remap, err := b.Finish(true)
	require.NoError(t, err)
	require.Nil(t, remap, "already-sorted insertion order needs no remap")
	require.Equal(t, []byte{0x11, 2, 0, 1, 2, 'a', 'b'}, meta)
}

func TestBuilder_FinishRemapsUnsortedInsertion(t *testing.T) {
	b := NewBuilder()
	b.Add("c")
	b.Add("a")
	b.Add("b")

	meta, remap, err := b.Finish(true)
	require.NoError(t, err)
	require.Equal(t, []uint32{2, 0, 1}, remap)

	r, err := NewReader(meta)
	require.NoError(t, err)
	require.True(t, r.Sorted())
	require.Equal(t, 3, r.Len())

	for i, want := range []string{"a", "b", "c"} {
		got, err := r.Get(uint32(i))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBuilder_FinishUnsortedKeepsInsertionOrder(t *testing.T) {
	b := NewBuilder()
	b.Add("c")
	b.Add("a")

	meta, remap, err := b.Finish(false)
	require.NoError(t, err)
	require.Nil(t, remap)

	r, err := NewReader(meta)
	require.NoError(t, err)
	require.False(t, r.Sorted())

	got, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, "c", got)

	got, err = r.Get(1)
	require.NoError(t, err)
	require.Equal(t, "a", got)
}

func TestBuilder_FinishWideOffsets(t *testing.T) {
	b := NewBuilder()
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	b.Add(string(long))
	b.Add("y")

	meta, _, err := b.Finish(true)
	require.NoError(t, err)

	r, err := NewReader(meta)
	require.NoError(t, err)
	require.Equal(t, uint8(2), r.OffsetWidth(), "301 total bytes need 2-byte offsets")
	require.Equal(t, 2, r.Len())

	got, err := r.Get(0)
	require.NoError(t, err)
	require.Equal(t, string(long), got)
}

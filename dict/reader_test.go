package dict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varbin/varbin/errs"
)

func buildMeta(t *testing.T, sorted bool, names ...string) []byte {
	t.Helper()

	b := NewBuilder()
	for _, name := range names {
		b.Add(name)
	}

	meta, _, err := b.Finish(sorted)
	require.NoError(t, err)

	return meta
}

// ==============================================================================
// Parse Error Tests
// ==============================================================================

func TestNewReader_Truncated(t *testing.T) {
	_, err := NewReader(nil)
	require.ErrorIs(t, err, errs.ErrTruncatedValue)

	_, err = NewReader([]byte{0x11})
	require.ErrorIs(t, err, errs.ErrTruncatedValue)

	// header claims 2 entries but the offset table is cut short
	_, err = NewReader([]byte{0x11, 2, 0})
	require.ErrorIs(t, err, errs.ErrTruncatedValue)
}

func TestNewReader_BadVersion(t *testing.T) {
	meta := buildMeta(t, true, "a")
	meta[0] = meta[0]&^0x0F | 0x02

	_, err := NewReader(meta)
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestNewReader_DecreasingOffsets(t *testing.T) {
	// offsets [1, 0] for a single entry
	_, err := NewReader([]byte{0x11, 1, 1, 0, 'a'})
	require.ErrorIs(t, err, errs.ErrOffsetOutOfBounds)
}

func TestNewReader_OffsetBeyondStrings(t *testing.T) {
	// final offset 5 but only one string byte follows
	_, err := NewReader([]byte{0x11, 1, 0, 5, 'a'})
	require.ErrorIs(t, err, errs.ErrOffsetOutOfBounds)
}

func TestNewReader_TrailingStringBytes(t *testing.T) {
	// final offset 1 leaves an uncovered trailing byte
	_, err := NewReader([]byte{0x11, 1, 0, 1, 'a', 'b'})
	require.ErrorIs(t, err, errs.ErrOffsetOutOfBounds)
}

func TestNewReader_InvalidUTF8(t *testing.T) {
	_, err := NewReader([]byte{0x11, 1, 0, 1, 0xFF})
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

// ==============================================================================
// Accessor Tests
// ==============================================================================

func TestReader_Get(t *testing.T) {
	r, err := NewReader(buildMeta(t, true, "age", "name", "tags"))
	require.NoError(t, err)
	require.Equal(t, 3, r.Len())

	for i, want := range []string{"age", "name", "tags"} {
		got, err := r.Get(uint32(i))
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, []byte(want), r.EntryBytes(uint32(i)))
	}

	_, err = r.Get(3)
	require.ErrorIs(t, err, errs.ErrOffsetOutOfBounds)
}

func TestReader_Find(t *testing.T) {
	r, err := NewReader(buildMeta(t, true, "b", "d", "f"))
	require.NoError(t, err)

	for i, name := range []string{"b", "d", "f"} {
		id, ok, err := r.Find(name)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, uint32(i), id)
	}

	for _, name := range []string{"a", "c", "e", "g", ""} {
		_, ok, err := r.Find(name)
		require.NoError(t, err)
		require.False(t, ok, "name=%q", name)
	}
}

func TestReader_FindRequiresSortedFlag(t *testing.T) {
	r, err := NewReader(buildMeta(t, false, "a", "b"))
	require.NoError(t, err)

	_, _, err = r.Find("a")
	require.ErrorIs(t, err, errs.ErrUnsortedDictionary)
}

func TestReader_EmptyDictionary(t *testing.T) {
	r, err := NewReader(buildMeta(t, true))
	require.NoError(t, err)
	require.Equal(t, 0, r.Len())

	_, ok, err := r.Find("anything")
	require.NoError(t, err)
	require.False(t, ok)
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveUniqueAddsSuffix(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	first, err := store.SaveUnique("users/1", "cv.pdf", []byte("one"))
	require.NoError(t, err)
	require.Equal(t, "users/1/cv.pdf", first)

	second, err := store.SaveUnique("users/1", "cv.pdf", []byte("two"))
	require.NoError(t, err)
	require.Equal(t, "users/1/cv_1.pdf", second)

	third, err := store.SaveUnique("users/1", "cv.pdf", []byte("three"))
	require.NoError(t, err)
	require.Equal(t, "users/1/cv_2.pdf", third)

	content, err := store.ReadFile(second)
	require.NoError(t, err)
	require.Equal(t, "two", string(content))

	require.NoError(t, store.Remove(first))
	require.NoError(t, store.Remove(first))
	_, err = store.ReadFile(first)
	require.Error(t, err)
}

func TestSaveUniqueRejectsTraversal(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.SaveUnique("../outside", "cv.pdf", []byte("x"))
	require.Error(t, err)
}

package domain_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfind.dev/pkg/nfind/internal/adapter"
	"nfind.dev/pkg/nfind/internal/domain"
	"nfind.dev/pkg/nfind/internal/domain/filters"
	m "nfind.dev/pkg/nfind/internal/model"
)

func TestFilterSet_Init(t *testing.T) {
	set, err := domain.NewFilterSet(filters.Or, filters.IncludeExtension("nii.gz"))
	require.NoError(t, err)

	assert.Equal(t, filters.Or, set.Logic())
	require.Len(t, set.Filters(), 1)
	assert.True(t, filters.Equal(filters.IncludeExtension("nii.gz"), set.Filters()[0]))
}

func TestFilterSet_Add(t *testing.T) {
	var set domain.FilterSet

	require.NoError(t, set.Add(filters.IncludeExtension("nii.gz")))
	require.NoError(t, set.Add(filters.IncludeExtension("txt"), filters.IncludeFilePrefix("sub-")))

	assert.Equal(t, 3, set.Len())

	err := set.Add(filters.IncludeExtension("json"), nil)
	require.ErrorIs(t, err, filters.ErrNilFilter)
	assert.Equal(t, 3, set.Len(), "a rejected Add must not change the set")
}

func TestFilterSet_Remove(t *testing.T) {
	t.Run("by value", func(t *testing.T) {
		set, err := domain.NewFilterSet(filters.And,
			filters.IncludeExtension("nii.gz"),
			filters.ExcludeDirectoryPrefix("ses-"),
		)
		require.NoError(t, err)

		require.NoError(t, set.Remove(filters.IncludeExtension(".nii.gz")))
		require.Len(t, set.Filters(), 1)

		require.NoError(t, set.Remove(filters.ExcludeDirectoryPrefix("ses-")))
		assert.Empty(t, set.Filters())
	})

	t.Run("missing value leaves the set untouched", func(t *testing.T) {
		set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii.gz"))
		require.NoError(t, err)

		err = set.Remove(filters.IncludeExtension("nii.gz"), filters.IncludeExtension("txt"))
		require.ErrorIs(t, err, domain.ErrFilterNotFound)
		assert.Contains(t, err.Error(), `extension(".txt")`)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("co-location filters on another filesystem are not removed", func(t *testing.T) {
		memA := adapter.NewAferoFSAdapter(afero.NewMemMapFs())
		memB := adapter.NewAferoFSAdapter(afero.NewMemMapFs())

		onA, err := filters.IncludeIfFileExists("*.json", filters.WithFS(memA))
		require.NoError(t, err)

		onB, err := filters.IncludeIfFileExists("*.json", filters.WithFS(memB))
		require.NoError(t, err)

		set, err := domain.NewFilterSet(filters.And, onA)
		require.NoError(t, err)

		require.ErrorIs(t, set.Remove(onB), domain.ErrFilterNotFound)
		assert.Equal(t, 1, set.Len())

		require.NoError(t, set.Remove(onA))
		assert.Zero(t, set.Len())
	})

	t.Run("removes one occurrence per value", func(t *testing.T) {
		set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii"), filters.IncludeExtension("nii"))
		require.NoError(t, err)

		require.NoError(t, set.Remove(filters.IncludeExtension("nii")))
		assert.Equal(t, 1, set.Len())
	})
}

func TestFilterSet_RemoveAt(t *testing.T) {
	set, err := domain.NewFilterSet(filters.And,
		filters.IncludeExtension("nii.gz"),
		filters.IncludeExtension("txt"),
		filters.IncludeExtension("json"),
	)
	require.NoError(t, err)

	require.NoError(t, set.RemoveAt(-1))
	require.NoError(t, set.RemoveAt(0))

	require.Len(t, set.Filters(), 1)
	assert.True(t, filters.Equal(filters.IncludeExtension("txt"), set.Filters()[0]))

	require.ErrorIs(t, set.RemoveAt(1), domain.ErrIndexOutOfRange)
	require.ErrorIs(t, set.RemoveAt(-2), domain.ErrIndexOutOfRange)
	assert.Equal(t, 1, set.Len())
}

func TestFilterSet_Clear(t *testing.T) {
	set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii.gz"), filters.IncludeExtension("txt"))
	require.NoError(t, err)

	set.Clear()

	assert.Empty(t, set.Filters())
	assert.True(t, set.Accept("/ds/anything.bin"))
}

func TestFilterSet_Accept(t *testing.T) {
	set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii.gz"))
	require.NoError(t, err)

	paths := []m.Path{"/ds/data/file0.txt", "/ds/data/file1.nii.gz"}
	assert.False(t, set.Accept(paths[0]))
	assert.True(t, set.Accept(paths[1]))

	require.NoError(t, set.Add(filters.IncludeExtension("txt")))
	assert.False(t, set.Accept(paths[1]))

	require.NoError(t, set.SetLogic(filters.Or))
	assert.True(t, set.Accept(paths[0]))
	assert.True(t, set.Accept(paths[1]))

	require.ErrorIs(t, set.SetLogic(filters.Logic(3)), filters.ErrInvalidLogic)
	assert.Equal(t, filters.Or, set.Logic())
}

func TestFilterSet_AcceptShortCircuits(t *testing.T) {
	var calls []string

	recording := func(name string, result bool) filters.Filter {
		return filters.FilterFunc(func(m.Path) bool {
			calls = append(calls, name)
			return result
		})
	}

	set, err := domain.NewFilterSet(filters.And, recording("a", true), recording("b", false), recording("c", true))
	require.NoError(t, err)

	assert.False(t, set.Accept("/ds/a.nii.gz"))
	assert.Equal(t, []string{"a", "b"}, calls)

	calls = nil
	require.NoError(t, set.SetLogic(filters.Or))

	assert.True(t, set.Accept("/ds/a.nii.gz"))
	assert.Equal(t, []string{"a"}, calls)

	calls = nil
	set.Clear()

	assert.False(t, set.Accept("/ds/a.nii.gz"))
	assert.Empty(t, calls)
}

func TestFilterSet_SnapshotIsolation(t *testing.T) {
	set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii.gz"))
	require.NoError(t, err)

	snapshot := set.Snapshot()

	require.NoError(t, set.Add(filters.IncludeFilePrefix("never")))
	set.Clear()

	assert.True(t, snapshot.Accept("/ds/a.nii.gz"))
	assert.False(t, snapshot.Accept("/ds/a.txt"))
}

func TestFilterSet_FiltersIsACopy(t *testing.T) {
	set, err := domain.NewFilterSet(filters.And, filters.IncludeExtension("nii.gz"))
	require.NoError(t, err)

	view := set.Filters()
	view[0] = filters.IncludeExtension("txt")

	assert.True(t, set.Accept("/ds/a.nii.gz"))
}

func TestFilterSet_InvalidLogic(t *testing.T) {
	_, err := domain.NewFilterSet(filters.Logic(9))
	require.ErrorIs(t, err, filters.ErrInvalidLogic)
}

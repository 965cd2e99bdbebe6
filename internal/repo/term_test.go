package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avogt/rxminder/internal/repo"
	"github.com/avogt/rxminder/testutil"
)

// newTestTermRepo opens a rolled-back transaction and returns a TermRepo
// backed by it, without seeding.
func newTestTermRepo(t *testing.T) repo.TermRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTermRepo(tx)
}

func TestTermRepo_SeedIfEmpty(t *testing.T) {
	r := newTestTermRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SeedIfEmpty(ctx))

	terms, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 9)
	assert.Equal(t, 1, terms[0].ID)
	assert.Equal(t, "Before breakfast", terms[0].Label)
	assert.Equal(t, "After dinner", terms[8].Label)
}

func TestTermRepo_SeedIfEmpty_Idempotent(t *testing.T) {
	r := newTestTermRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SeedIfEmpty(ctx))
	require.NoError(t, r.SeedIfEmpty(ctx))

	terms, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, terms, 9, "reseeding must not duplicate terms")
}

func TestTermRepo_List_SortedBySortOrder(t *testing.T) {
	r := newTestTermRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SeedIfEmpty(ctx))

	terms, err := r.List(ctx)
	require.NoError(t, err)
	for i := 1; i < len(terms); i++ {
		assert.Less(t, terms[i-1].SortOrder, terms[i].SortOrder,
			"terms must be ascending by sort_order")
	}
}

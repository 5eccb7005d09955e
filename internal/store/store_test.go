package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/pkg/testutil"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "roadmap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			want := testutil.Household()
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStoreEmpty(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.True(t, got.Empty())
			assert.Equal(t, household.Avalanche, got.Strategy)
			assert.NoError(t, s.Ping(ctx))
		})
	}
}

func TestStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, testutil.Household()))

			smaller := testutil.SingleDebt(500, 10, 50, 400)
			require.NoError(t, s.Save(ctx, smaller))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got.Debts, 1)
			assert.Equal(t, 500.0, got.Debts[0].Balance)
			assert.Empty(t, got.Expenses)
			assert.Empty(t, got.LentMoney)
			assert.Empty(t, got.SpecialEvents)
		})
	}
}

func TestStoreAssignsIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			input := household.Snapshot{
				Debts: []household.Debt{
					{Name: "First", Balance: 100, MinimumPayment: 10},
					{Name: "Second", Balance: 200, MinimumPayment: 20},
				},
				Income: []household.Income{{Source: "Salary", Amount: 1000}},
			}
			require.NoError(t, s.Save(ctx, input))

			// the caller's copy is untouched
			assert.Empty(t, input.Debts[0].ID)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			require.Len(t, got.Debts, 2)
			assert.Equal(t, "First", got.Debts[0].Name)
			assert.Equal(t, "Second", got.Debts[1].Name)
			assert.NotEmpty(t, got.Debts[0].ID)
			assert.NotEqual(t, got.Debts[0].ID, got.Debts[1].ID)
			assert.NotEmpty(t, got.Income[0].ID)
			assert.Equal(t, household.Avalanche, got.Strategy)
		})
	}
}

func TestStoreKeepsInputOrder(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			input := household.Snapshot{
				Debts: []household.Debt{
					{ID: "z", Name: "Zed", Balance: 1, MinimumPayment: 1},
					{ID: "a", Name: "Alpha", Balance: 2, MinimumPayment: 1},
					{ID: "m", Name: "Mid", Balance: 3, MinimumPayment: 1},
				},
			}
			require.NoError(t, s.Save(ctx, input))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			ids := make([]string, 0, len(got.Debts))
			for _, d := range got.Debts {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, []string{"z", "a", "m"}, ids)
		})
	}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Ping(ctx), ErrClosed)
	assert.ErrorIs(t, m.Save(ctx, household.Snapshot{}), ErrClosed)
	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(ctx))
}

func TestNew(t *testing.T) {
	s, err := New("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = New("SQLite", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = New("postgres", "")
	assert.Error(t, err)
}

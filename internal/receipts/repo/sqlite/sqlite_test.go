package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemstr/skillgate/internal/receipts"
)

func TestNewRepo(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "receipts.db"))
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestNewRepoRequiresFile(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestCreateAndList(t *testing.T) {
	r, err := New(filepath.Join(t.TempDir(), "receipts.db"))
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	paid, err := r.Create(ctx, receipts.Receipt{
		Name:        "demo",
		TxHash:      "0xabc",
		From:        "0xbuyer",
		To:          "0xseller",
		Value:       `"1000000"`,
		BlockNumber: "123456",
		Timestamp:   `"2024-01-01T00:00:00Z"`,
		Fulfilled:   true,
		CreatedAt:   now.Add(-time.Minute),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, paid.ID)

	unfulfilled, err := r.Create(ctx, receipts.Receipt{
		Name:      "gone",
		TxHash:    "0xdef",
		Fulfilled: false,
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NotEqual(t, paid.ID, unfulfilled.ID)

	all, err := r.List(ctx, receipts.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "gone", all[0].Name)
	assert.Equal(t, "demo", all[1].Name)
	assert.Equal(t, "0xbuyer", all[1].From)
	assert.Equal(t, `"1000000"`, all[1].Value)
	assert.True(t, all[1].Fulfilled)

	open, err := r.List(ctx, receipts.ListOptions{UnfulfilledOnly: true})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "0xdef", open[0].TxHash)

	limited, err := r.List(ctx, receipts.ListOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

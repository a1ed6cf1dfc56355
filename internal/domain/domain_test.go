package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[int]StockStatus{
		0:   OutOfStock,
		1:   LowStock,
		4:   LowStock,
		5:   InStock,
		500: InStock,
	}
	for qty, want := range cases {
		require.Equal(t, want, StatusFor(qty), "qty=%d", qty)
	}
}

func TestNewTransactionChangeAmount(t *testing.T) {
	now := time.Now()
	c := NewTransaction(1, TxCreate, nil, 10, "r", now)
	require.Nil(t, c.OldQuantity)
	require.Equal(t, 10, c.ChangeAmount)

	old := 15
	d := NewTransaction(1, TxDecrement, &old, 12, "r", now)
	require.Equal(t, -3, d.ChangeAmount)
}

func TestReplay(t *testing.T) {
	now := time.Now()
	ten, fifteen := 10, 15
	entries := []Transaction{
		NewTransaction(1, TxCreate, nil, 10, "a", now),
		NewTransaction(1, TxIncrement, &ten, 15, "b", now),
		NewTransaction(1, TxDecrement, &fifteen, 12, "c", now),
	}
	qty, ok := Replay(entries)
	require.True(t, ok)
	require.Equal(t, 12, qty)

	_, ok = Replay(entries[1:])
	require.False(t, ok, "history must start with CREATE")

	broken := append([]Transaction{}, entries[0], entries[2])
	_, ok = Replay(broken)
	require.False(t, ok, "gap in the chain must be detected")
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFoundf("product %d does not exist", 7))
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrValidation))
	require.True(t, IsNotFound(err))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, Kind(""), KindOf(errors.New("plain")))

	require.ErrorIs(t, InsufficientStock(10, 15), ErrInsufficientStock)
	require.Contains(t, InsufficientStock(10, 15).Error(), "available 10, requested 15")
}

func TestStorageWrap(t *testing.T) {
	require.NoError(t, Storage("x", nil))

	cause := errors.New("disk I/O error")
	err := Storage("update product", cause)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)
	require.True(t, IsRetryable(err))
	require.Contains(t, err.Error(), "disk I/O error")

	// already classified errors keep their kind
	v := Validationf("bad")
	require.Same(t, v, Storage("x", v))
	require.False(t, IsRetryable(v))
}

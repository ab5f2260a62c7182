package stream

import (
	"testing"

	"github.com/shale-scm/shale/src/internal/errors"
	"github.com/shale-scm/shale/src/internal/pctx"
	"github.com/shale-scm/shale/src/internal/require"
)

func TestIsEOS(t *testing.T) {
	require.True(t, IsEOS(EOS()))
	require.False(t, errors.Is(EOS(), EOS()))
}

func TestIsNotReady(t *testing.T) {
	require.True(t, IsNotReady(NotReady()))
	require.False(t, IsNotReady(EOS()))
	require.False(t, IsEOS(NotReady()))
}

func TestFromSlice(t *testing.T) {
	ctx := pctx.TestContext(t)
	xs, err := Collect[int](ctx, FromSlice([]int{1, 2, 3}), 10)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, xs)
}

func TestCollectMax(t *testing.T) {
	ctx := pctx.TestContext(t)
	_, err := Collect[int](ctx, FromSlice([]int{1, 2, 3}), 2)
	require.YesError(t, err)
}

func TestNewFromForEach(t *testing.T) {
	ctx := pctx.TestContext(t)
	it := NewFromForEach[string](ctx, func(cb func(string) error) error {
		for _, s := range []string{"a", "b"} {
			if err := cb(s); err != nil {
				return err
			}
		}
		return nil
	})
	xs, err := Collect[string](ctx, it, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, xs)
}

func TestNewFromForEachError(t *testing.T) {
	ctx := pctx.TestContext(t)
	boom := errors.New("boom")
	it := NewFromForEach[string](ctx, func(cb func(string) error) error {
		if err := cb("a"); err != nil {
			return err
		}
		return boom
	})
	var s string
	require.NoError(t, it.Next(ctx, &s))
	require.Equal(t, "a", s)
	require.ErrorIs(t, it.Next(ctx, &s), boom)
}

package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func movieIDs(movies []model.Movie) []int64 {
	ids := make([]int64, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestFavorites_ToggleIsItsOwnInverse(t *testing.T) {
	ctx := context.Background()
	favorites := NewFavorites(newFlakyStore(t), nil)
	favorites.Load(ctx)
	favorites.Toggle(ctx, model.Movie{ID: 1})
	favorites.Toggle(ctx, model.Movie{ID: 2})
	before := movieIDs(favorites.Items())

	assert.True(t, favorites.Toggle(ctx, model.Movie{ID: 3}))
	assert.True(t, favorites.Contains(3))
	assert.False(t, favorites.Toggle(ctx, model.Movie{ID: 3}))
	assert.False(t, favorites.Contains(3))

	assert.Equal(t, before, movieIDs(favorites.Items()))
}

func TestFavorites_RemoveAndReAddMovesToEnd(t *testing.T) {
	ctx := context.Background()
	favorites := NewFavorites(newFlakyStore(t), nil)
	for _, id := range []int64{1, 2, 3} {
		favorites.Toggle(ctx, model.Movie{ID: id})
	}

	favorites.Toggle(ctx, model.Movie{ID: 1})
	favorites.Toggle(ctx, model.Movie{ID: 1})

	assert.Equal(t, []int64{2, 3, 1}, movieIDs(favorites.Items()))
}

func TestFavorites_PersistsWholeListOncePerToggle(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	favorites := NewFavorites(st, nil)

	favorites.Toggle(ctx, model.Movie{ID: 1, Title: "Alien"})
	favorites.Toggle(ctx, model.Movie{ID: 2, Title: "Aliens"})
	assert.Equal(t, 2, st.writes(store.KeyFavorites))

	favorites.Toggle(ctx, model.Movie{ID: 1})
	favorites.Toggle(ctx, model.Movie{ID: 2})
	assert.Equal(t, 4, st.writes(store.KeyFavorites))
	assert.Equal(t, "[]", st.lastValue[store.KeyFavorites])
}

func TestFavorites_RoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	favorites := NewFavorites(st, nil)
	for _, id := range []int64{42, 7, 19} {
		favorites.Toggle(ctx, model.Movie{ID: id, Title: "Movie"})
	}

	reloaded := NewFavorites(st, nil)
	items := reloaded.Load(ctx)
	assert.Equal(t, []int64{42, 7, 19}, movieIDs(items))
	assert.Equal(t, "Movie", items[0].Title)
}

func TestFavorites_LoadCorruptOrAbsentIsEmpty(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)

	assert.Empty(t, NewFavorites(st, nil).Load(ctx))

	require.NoError(t, st.Set(ctx, store.KeyFavorites, "not json"))
	assert.Empty(t, NewFavorites(st, nil).Load(ctx))
}

func TestFavorites_WriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	st.failSet = true
	favorites := NewFavorites(st, nil)

	assert.True(t, favorites.Toggle(ctx, model.Movie{ID: 9}))
	assert.True(t, favorites.Contains(9))
}

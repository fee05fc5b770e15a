package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

func TestBoardStore_ListByOrganization(t *testing.T) {
	s := NewBoardStore()
	ctx := context.Background()
	orgID := uuid.New()
	now := time.Now()

	active := &models.Board{BoardID: uuid.New(), OrgID: orgID, Name: "Active", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Create(ctx, active))

	archivedAt := now.Add(time.Minute)
	archived := &models.Board{BoardID: uuid.New(), OrgID: orgID, Name: "Archived", ArchivedAt: &archivedAt, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Create(ctx, archived))

	other := &models.Board{BoardID: uuid.New(), OrgID: uuid.New(), Name: "Other org", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Create(ctx, other))

	boards, err := s.ListByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	require.Equal(t, active.BoardID, boards[0].BoardID)

	t.Run("archived board still readable by id", func(t *testing.T) {
		got, err := s.Get(ctx, archived.BoardID)
		require.NoError(t, err)
		require.NotNil(t, got.ArchivedAt)
	})
}

func TestListStore_Ordering(t *testing.T) {
	s := NewListStore()
	ctx := context.Background()
	boardID := uuid.New()
	now := time.Now()

	mk := func(pos float64) *models.List {
		list := &models.List{ListID: uuid.New(), BoardID: boardID, Name: "L", Position: pos, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, s.Create(ctx, list))
		return list
	}

	c := mk(3)
	a := mk(1)
	b := mk(2)

	lists, err := s.ListByBoard(ctx, boardID)
	require.NoError(t, err)
	require.Len(t, lists, 3)
	require.Equal(t, a.ListID, lists[0].ListID)
	require.Equal(t, b.ListID, lists[1].ListID)
	require.Equal(t, c.ListID, lists[2].ListID)

	t.Run("ties break on id", func(t *testing.T) {
		x := mk(2)
		y := mk(2)

		lists, err := s.ListByBoard(ctx, boardID)
		require.NoError(t, err)
		require.Len(t, lists, 5)

		// the three lists at position 2 are id-ordered among themselves
		var tied []uuid.UUID
		for _, l := range lists {
			if l.Position == 2 {
				tied = append(tied, l.ListID)
			}
		}
		require.Len(t, tied, 3)
		require.Contains(t, tied, b.ListID)
		require.Contains(t, tied, x.ListID)
		require.Contains(t, tied, y.ListID)
		for i := 1; i < len(tied); i++ {
			require.Less(t, tied[i-1].String(), tied[i].String())
		}
	})
}

func TestListStore_MaxPosition(t *testing.T) {
	s := NewListStore()
	ctx := context.Background()
	boardID := uuid.New()

	max, err := s.MaxPosition(ctx, boardID)
	require.NoError(t, err)
	require.Equal(t, 0.0, max)

	now := time.Now()
	for _, pos := range []float64{1, 2, 5} {
		require.NoError(t, s.Create(ctx, &models.List{ListID: uuid.New(), BoardID: boardID, Position: pos, CreatedAt: now, UpdatedAt: now}))
	}

	max, err = s.MaxPosition(ctx, boardID)
	require.NoError(t, err)
	require.Equal(t, 5.0, max)
}

func TestListStore_Delete(t *testing.T) {
	s := NewListStore()
	ctx := context.Background()
	now := time.Now()

	list := &models.List{ListID: uuid.New(), BoardID: uuid.New(), Position: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Create(ctx, list))
	require.NoError(t, s.Delete(ctx, list.ListID))

	err := s.Delete(ctx, list.ListID)
	require.ErrorIs(t, err, store.ErrListNotFound)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/taskboard/internal/auth"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

func TestCardService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first card in an empty list gets position 1", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)

		card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
		require.NoError(t, err)
		require.Equal(t, 1.0, card.Position)
	})

	t.Run("default position is max plus one", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)
		listID := lists[0].ListID

		for _, pos := range []float64{1, 2, 5} {
			_, err := f.cards.Create(ctx, alice.UserID, listID, "Task", "", nil, models.Set(pos))
			require.NoError(t, err)
		}

		card, err := f.cards.Create(ctx, alice.UserID, listID, "Last", "", nil, models.Optional[float64]{})
		require.NoError(t, err)
		require.Equal(t, 6.0, card.Position)
	})

	t.Run("returned card carries the creator", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)

		due := time.Now().Add(48 * time.Hour)
		card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "details", &due, models.Optional[float64]{})
		require.NoError(t, err)
		require.Equal(t, alice.UserID, card.Creator.UserID)
		require.Equal(t, "Alice", card.Creator.Name)
		require.NotNil(t, card.DueAt)
	})

	t.Run("unknown list", func(t *testing.T) {
		f := newFixture(t)
		alice, _ := f.register(t, "alice@example.com", "Alice")

		_, err := f.cards.Create(ctx, alice.UserID, uuid.New(), "Task", "", nil, models.Optional[float64]{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCardService_GetByBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, org := f.register(t, "alice@example.com", "Alice")
	board, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
	require.NoError(t, err)

	_, err = f.cards.Create(ctx, alice.UserID, lists[1].ListID, "Underway", "", nil, models.Optional[float64]{})
	require.NoError(t, err)

	grouped, err := f.cards.GetByBoard(ctx, alice.UserID, board.BoardID)
	require.NoError(t, err)
	require.Len(t, grouped, 3)

	// every list is present, empty ones with an empty slice
	require.NotNil(t, grouped[lists[0].ListID])
	require.Empty(t, grouped[lists[0].ListID])
	require.Len(t, grouped[lists[1].ListID], 1)
	require.Empty(t, grouped[lists[2].ListID])
}

func TestCardService_GetByList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, org := f.register(t, "alice@example.com", "Alice")
	_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
	require.NoError(t, err)
	listID := lists[0].ListID

	second, err := f.cards.Create(ctx, alice.UserID, listID, "Second", "", nil, models.Set(2.0))
	require.NoError(t, err)
	first, err := f.cards.Create(ctx, alice.UserID, listID, "First", "", nil, models.Set(1.0))
	require.NoError(t, err)

	got, err := f.cards.GetByList(ctx, alice.UserID, listID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, first.CardID, got[0].CardID)
	require.Equal(t, second.CardID, got[1].CardID)
}

func TestCardService_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, org := f.register(t, "alice@example.com", "Alice")
	_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
	require.NoError(t, err)

	card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
	require.NoError(t, err)

	t.Run("read is stable", func(t *testing.T) {
		a, err := f.cards.GetByID(ctx, alice.UserID, card.CardID)
		require.NoError(t, err)
		b, err := f.cards.GetByID(ctx, alice.UserID, card.CardID)
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("outsider is denied", func(t *testing.T) {
		mallory, _ := f.register(t, "mallory@example.com", "Mallory")

		_, err := f.cards.GetByID(ctx, mallory.UserID, card.CardID)
		require.ErrorIs(t, err, auth.ErrAccessDenied)
	})
}

func TestCardService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, org := f.register(t, "alice@example.com", "Alice")
	_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
	require.NoError(t, err)

	due := time.Now().Add(24 * time.Hour)
	card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "details", &due, models.Optional[float64]{})
	require.NoError(t, err)

	t.Run("absent fields untouched", func(t *testing.T) {
		got, err := f.cards.Update(ctx, alice.UserID, card.CardID, CardUpdate{
			Title: models.Set("Retitled"),
		})
		require.NoError(t, err)
		require.Equal(t, "Retitled", got.Title)
		require.Equal(t, "details", got.Description)
		require.NotNil(t, got.DueAt)
	})

	t.Run("null clears due date and description", func(t *testing.T) {
		got, err := f.cards.Update(ctx, alice.UserID, card.CardID, CardUpdate{
			Description: models.Null[string](),
			DueAt:       models.Null[time.Time](),
		})
		require.NoError(t, err)
		require.Empty(t, got.Description)
		require.Nil(t, got.DueAt)
	})

	t.Run("title cannot be cleared", func(t *testing.T) {
		_, err := f.cards.Update(ctx, alice.UserID, card.CardID, CardUpdate{
			Title: models.Null[string](),
		})
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestCardService_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("card changes list and position together", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)

		card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
		require.NoError(t, err)

		moved, err := f.cards.Move(ctx, alice.UserID, card.CardID, lists[2].ListID, 2.5)
		require.NoError(t, err)
		require.Equal(t, lists[2].ListID, moved.ListID)
		require.Equal(t, 2.5, moved.Position)
	})

	t.Run("unknown target list is a validation error", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)

		card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
		require.NoError(t, err)

		_, err = f.cards.Move(ctx, alice.UserID, card.CardID, uuid.New(), 1)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("denied target leaves the card untouched", func(t *testing.T) {
		f := newFixture(t)
		alice, org := f.register(t, "alice@example.com", "Alice")
		bob, bobOrg := f.register(t, "bob@example.com", "Bob")

		_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
		require.NoError(t, err)
		_, bobLists, err := f.boards.Create(ctx, bob.UserID, bobOrg.OrgID, "Bob's", "")
		require.NoError(t, err)

		card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
		require.NoError(t, err)

		_, err = f.cards.Move(ctx, alice.UserID, card.CardID, bobLists[0].ListID, 1)
		require.ErrorIs(t, err, auth.ErrAccessDenied)

		got, err := f.cards.GetByID(ctx, alice.UserID, card.CardID)
		require.NoError(t, err)
		require.Equal(t, lists[0].ListID, got.ListID)
		require.Equal(t, card.Position, got.Position)
	})
}

func TestCardService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, org := f.register(t, "alice@example.com", "Alice")
	_, lists, err := f.boards.Create(ctx, alice.UserID, org.OrgID, "Roadmap", "")
	require.NoError(t, err)

	card, err := f.cards.Create(ctx, alice.UserID, lists[0].ListID, "Task", "", nil, models.Optional[float64]{})
	require.NoError(t, err)
	comment, err := f.comments.Create(ctx, alice.UserID, card.CardID, "note to self")
	require.NoError(t, err)

	require.NoError(t, f.cards.Delete(ctx, alice.UserID, card.CardID))

	t.Run("card is gone", func(t *testing.T) {
		_, err := f.cards.GetByID(ctx, alice.UserID, card.CardID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("comments go with it", func(t *testing.T) {
		_, err := f.comStore.Get(ctx, comment.CommentID)
		require.ErrorIs(t, err, store.ErrCommentNotFound)
	})
}

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

type cardStoreFixture struct {
	users    *UserStore
	lists    *ListStore
	comments *CommentStore
	cards    *CardStore

	creator *models.User
	listID  uuid.UUID
}

func newCardStoreFixture(t *testing.T) *cardStoreFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	f := &cardStoreFixture{
		users:    NewUserStore(),
		lists:    NewListStore(),
		comments: NewCommentStore(),
	}
	f.cards = NewCardStore(f.users, f.lists, f.comments)

	f.creator = newUser("creator@example.com", now)
	require.NoError(t, f.users.Create(ctx, f.creator))

	list := &models.List{ListID: uuid.New(), BoardID: uuid.New(), Name: "List", Position: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.lists.Create(ctx, list))
	f.listID = list.ListID

	return f
}

func (f *cardStoreFixture) addCard(t *testing.T, pos float64) *models.Card {
	t.Helper()

	now := time.Now()
	card := &models.Card{
		CardID:    uuid.New(),
		ListID:    f.listID,
		Title:     "Card",
		Position:  pos,
		CreatedBy: f.creator.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.cards.Create(context.Background(), card))

	return card
}

func TestCardStore_Get(t *testing.T) {
	f := newCardStoreFixture(t)
	ctx := context.Background()

	card := f.addCard(t, 1)

	detail, err := f.cards.Get(ctx, card.CardID)
	require.NoError(t, err)
	require.Equal(t, card.CardID, detail.CardID)
	require.Equal(t, f.creator.UserID, detail.Creator.UserID)
	require.Equal(t, f.creator.Email, detail.Creator.Email)

	_, err = f.cards.Get(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestCardStore_ListByList(t *testing.T) {
	f := newCardStoreFixture(t)
	ctx := context.Background()

	b := f.addCard(t, 2)
	a := f.addCard(t, 1)

	cards, err := f.cards.ListByList(ctx, f.listID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, a.CardID, cards[0].CardID)
	require.Equal(t, b.CardID, cards[1].CardID)
}

func TestCardStore_MaxPositionAndCount(t *testing.T) {
	f := newCardStoreFixture(t)
	ctx := context.Background()

	max, err := f.cards.MaxPosition(ctx, f.listID)
	require.NoError(t, err)
	require.Equal(t, 0.0, max)

	f.addCard(t, 1)
	f.addCard(t, 5)

	max, err = f.cards.MaxPosition(ctx, f.listID)
	require.NoError(t, err)
	require.Equal(t, 5.0, max)

	count, err := f.cards.CountByList(ctx, f.listID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestCardStore_DeleteCascadesComments(t *testing.T) {
	f := newCardStoreFixture(t)
	ctx := context.Background()
	now := time.Now()

	card := f.addCard(t, 1)

	comment := &models.Comment{
		CommentID: uuid.New(),
		CardID:    card.CardID,
		AuthorID:  f.creator.UserID,
		Body:      "note",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.comments.Create(ctx, comment))

	require.NoError(t, f.cards.Delete(ctx, card.CardID))

	_, err := f.cards.Get(ctx, card.CardID)
	require.ErrorIs(t, err, store.ErrCardNotFound)

	_, err = f.comments.Get(ctx, comment.CommentID)
	require.ErrorIs(t, err, store.ErrCommentNotFound)
}

func TestCardStore_ListByBoard(t *testing.T) {
	f := newCardStoreFixture(t)
	ctx := context.Background()
	now := time.Now()

	// second list on the same board
	boardID := uuid.New()
	list1, err := f.lists.Get(ctx, f.listID)
	require.NoError(t, err)
	list1.BoardID = boardID
	require.NoError(t, f.lists.Update(ctx, list1))

	list2 := &models.List{ListID: uuid.New(), BoardID: boardID, Name: "Second", Position: 2, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.lists.Create(ctx, list2))

	f.addCard(t, 2)
	card2 := &models.Card{CardID: uuid.New(), ListID: list2.ListID, Title: "Other", Position: 1, CreatedBy: f.creator.UserID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.cards.Create(ctx, card2))

	cards, err := f.cards.ListByBoard(ctx, boardID)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	// position-ordered across lists
	require.Equal(t, card2.CardID, cards[0].CardID)
}

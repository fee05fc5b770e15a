//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/taskboard/internal/models"
	"github.com/wolfeidau/taskboard/internal/store"
)

func setupPostgres(t *testing.T, ctx context.Context) *DB {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{ConnString: connString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))

	return NewDB(pool)
}

func seedUser(t *testing.T, ctx context.Context, users *UserStore, email string) *models.User {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:       id,
		Email:        email,
		PasswordHash: "hash",
		Name:         email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, users.Create(ctx, user))

	return user
}

func seedOrg(t *testing.T, ctx context.Context, orgs *OrganizationStore, createdBy uuid.UUID, slug string) *models.Organization {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	org := &models.Organization{
		OrgID:     id,
		Name:      slug,
		Slug:      slug,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, orgs.Create(ctx, org))

	return org
}

func TestIntegration_Stores(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t, ctx)

	users := NewUserStore(db)
	orgs := NewOrganizationStore(db)
	memberships := NewMembershipStore(db)
	boards := NewBoardStore(db)
	lists := NewListStore(db)
	cards := NewCardStore(db)
	comments := NewCommentStore(db)

	alice := seedUser(t, ctx, users, "alice@example.com")
	org := seedOrg(t, ctx, orgs, alice.UserID, "acme")

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, RunMigrations(ctx, db.Pool()))
	})

	t.Run("duplicate email maps to the sentinel", func(t *testing.T) {
		id, err := uuid.NewV7()
		require.NoError(t, err)

		now := time.Now()
		err = users.Create(ctx, &models.User{
			UserID:       id,
			Email:        "ALICE@example.com", // unique index is on lower(email)
			PasswordHash: "hash",
			Name:         "Alice again",
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		require.ErrorIs(t, err, store.ErrEmailTaken)
	})

	t.Run("duplicate slug maps to the sentinel", func(t *testing.T) {
		err := orgs.Create(ctx, &models.Organization{
			OrgID:     uuid.New(),
			Name:      "Acme again",
			Slug:      "acme",
			CreatedBy: alice.UserID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrSlugTaken)
	})

	t.Run("membership lifecycle", func(t *testing.T) {
		m := &models.Membership{
			OrgID:    org.OrgID,
			UserID:   alice.UserID,
			Role:     models.RoleOwner,
			JoinedAt: time.Now(),
		}
		require.NoError(t, memberships.Create(ctx, m))

		err := memberships.Create(ctx, m)
		require.ErrorIs(t, err, store.ErrMembershipExists)

		got, err := memberships.Get(ctx, org.OrgID, alice.UserID)
		require.NoError(t, err)
		require.Equal(t, models.RoleOwner, got.Role)

		count, err := memberships.CountByRole(ctx, org.OrgID, models.RoleOwner)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		listed, err := orgs.ListByMember(ctx, alice.UserID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
	})

	t.Run("transaction rolls back every write", func(t *testing.T) {
		boom := errors.New("boom")

		err := db.WithinTx(ctx, func(ctx context.Context) error {
			if err := seedOrgErr(ctx, orgs, alice.UserID, "doomed"); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = orgs.Create(ctx, &models.Organization{
			OrgID:     uuid.New(),
			Name:      "doomed",
			Slug:      "doomed",
			CreatedBy: alice.UserID,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		})
		require.NoError(t, err, "slug should be free after the rollback")
	})

	t.Run("failed transaction does not poison a retry in a fresh one", func(t *testing.T) {
		err := db.WithinTx(ctx, func(ctx context.Context) error {
			return seedOrgErr(ctx, orgs, alice.UserID, "acme") // taken slug
		})
		require.ErrorIs(t, err, store.ErrSlugTaken)

		// the first transaction is aborted and gone; a new one with a fresh
		// slug goes through
		require.NoError(t, seedOrgErr(ctx, orgs, alice.UserID, "acme-retried"))
	})

	t.Run("board hierarchy with ordering and cascade", func(t *testing.T) {
		now := time.Now()

		board := &models.Board{BoardID: mustV7(t), OrgID: org.OrgID, Name: "Roadmap", CreatedBy: alice.UserID, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, boards.Create(ctx, board))

		list := &models.List{ListID: mustV7(t), BoardID: board.BoardID, Name: "To Do", Position: 1, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, lists.Create(ctx, list))

		var created []*models.Card
		for _, pos := range []float64{2, 1, 5} {
			card := &models.Card{CardID: mustV7(t), ListID: list.ListID, Title: "Card", Position: pos, CreatedBy: alice.UserID, CreatedAt: now, UpdatedAt: now}
			require.NoError(t, cards.Create(ctx, card))
			created = append(created, card)
		}

		ordered, err := cards.ListByList(ctx, list.ListID)
		require.NoError(t, err)
		require.Len(t, ordered, 3)
		require.Equal(t, 1.0, ordered[0].Position)
		require.Equal(t, 5.0, ordered[2].Position)
		require.Equal(t, "alice@example.com", ordered[0].Creator.Email)

		max, err := cards.MaxPosition(ctx, list.ListID)
		require.NoError(t, err)
		require.Equal(t, 5.0, max)

		// the FK restrict fires as long as cards reference the list
		err = lists.Delete(ctx, list.ListID)
		require.ErrorIs(t, err, store.ErrListNotEmpty)

		comment := &models.Comment{CommentID: mustV7(t), CardID: created[0].CardID, AuthorID: alice.UserID, Body: "hi", CreatedAt: now, UpdatedAt: now}
		require.NoError(t, comments.Create(ctx, comment))

		// card delete takes the comment with it (FK cascade)
		require.NoError(t, cards.Delete(ctx, created[0].CardID))
		_, err = comments.Get(ctx, comment.CommentID)
		require.ErrorIs(t, err, store.ErrCommentNotFound)

		// archived boards drop out of the listing but stay readable
		archivedAt := time.Now()
		board.ArchivedAt = &archivedAt
		require.NoError(t, boards.Update(ctx, board))

		listed, err := boards.ListByOrganization(ctx, org.OrgID)
		require.NoError(t, err)
		require.Empty(t, listed)

		got, err := boards.Get(ctx, board.BoardID)
		require.NoError(t, err)
		require.NotNil(t, got.ArchivedAt)
	})
}

func mustV7(t *testing.T) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return id
}

func seedOrgErr(ctx context.Context, orgs *OrganizationStore, createdBy uuid.UUID, slug string) error {
	now := time.Now()
	return orgs.Create(ctx, &models.Organization{
		OrgID:     uuid.New(),
		Name:      slug,
		Slug:      slug,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/taskboard/internal/agent"
	"github.com/wolfeidau/taskboard/internal/auth"
	taskhttp "github.com/wolfeidau/taskboard/internal/http"
	"github.com/wolfeidau/taskboard/internal/logger"
	"github.com/wolfeidau/taskboard/internal/service"
	"github.com/wolfeidau/taskboard/internal/store"
	memorystore "github.com/wolfeidau/taskboard/internal/store/memory"
	postgresstore "github.com/wolfeidau/taskboard/internal/store/postgres"
)

type ServeCmd struct {
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"TASKBOARD_LISTEN"`
	Config string `help:"path to YAML config file" default:"" env:"TASKBOARD_CONFIG"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"postgres" env:"TASKBOARD_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`

	// Automation configuration
	SystemActorEmail string `help:"email of the user automated operations run as (defaults to the earliest-created user)" default:"" env:"TASKBOARD_SYSTEM_ACTOR_EMAIL"`

	userStore store.UserStore
}

type PostgresStoreFlags struct {
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"2"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"TASKBOARD_POSTGRES_AUTO_MIGRATE"`
}

// App bundles the wired core: the component services the transport layer
// dispatches into.
type App struct {
	Identity *service.IdentityService
	Boards   *service.BoardService
	Lists    *service.ListService
	Cards    *service.CardService
	Comments *service.CommentService

	healthy func(ctx context.Context) error
}

func (c *ServeCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	fileCfg, err := loadFileConfig(c.Config)
	if err != nil {
		return err
	}
	if c.PostgresStore.ConnString == "" {
		c.PostgresStore.ConnString = fileCfg.Postgres.ConnString
	}
	if c.SystemActorEmail == "" {
		c.SystemActorEmail = fileCfg.SystemActorEmail
	}
	if fileCfg.Listen != "" && c.Listen == "0.0.0.0:8080" {
		c.Listen = fileCfg.Listen
	}

	app, cleanup, err := c.buildApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// The automation actor is optional at boot: an empty database has no
	// user to resolve yet.
	if actor, err := agent.Resolve(ctx, c.userStore, c.SystemActorEmail); err != nil {
		log.Warn().Err(err).Msg("No system actor resolved; automation disabled")
	} else {
		log.Info().Str("user_id", actor.UserID.String()).Msg("Automation enabled")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.healthy(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})

	srv := configureHTTPServer(c.Listen, taskhttp.RequestLogger(log)(mux))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", c.Listen).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (c *ServeCmd) buildApp(ctx context.Context) (*App, func(), error) {
	switch c.StoreType {
	case "memory":
		users := memorystore.NewUserStore()
		memberships := memorystore.NewMembershipStore()
		orgs := memorystore.NewOrganizationStore(memberships)
		boards := memorystore.NewBoardStore()
		lists := memorystore.NewListStore()
		comments := memorystore.NewCommentStore()
		cards := memorystore.NewCardStore(users, lists, comments)
		tx := memorystore.NewTxRunner()

		c.userStore = users

		app := newApp(users, orgs, memberships, boards, lists, cards, comments, tx)
		app.healthy = func(ctx context.Context) error { return nil }
		return app, func() {}, nil

	case "postgres":
		poolCfg := &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		}

		// The database may still be coming up alongside us; retry the
		// initial connection before giving up.
		pool, err := backoff.Retry(ctx, func() (*pgxpool.Pool, error) {
			return postgresstore.NewPool(ctx, poolCfg)
		}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(5))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}

		db := postgresstore.NewDB(pool)
		users := postgresstore.NewUserStore(db)
		orgs := postgresstore.NewOrganizationStore(db)
		memberships := postgresstore.NewMembershipStore(db)
		boards := postgresstore.NewBoardStore(db)
		lists := postgresstore.NewListStore(db)
		cards := postgresstore.NewCardStore(db)
		comments := postgresstore.NewCommentStore(db)

		c.userStore = users

		app := newApp(users, orgs, memberships, boards, lists, cards, comments, db)
		app.healthy = func(ctx context.Context) error { return pool.Ping(ctx) }
		return app, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store type %q", c.StoreType)
	}
}

func newApp(users store.UserStore, orgs store.OrganizationStore, memberships store.MembershipStore, boards store.BoardStore, lists store.ListStore, cards store.CardStore, comments store.CommentStore, tx store.TxRunner) *App {
	guard := auth.NewGuard(memberships, boards, lists, cards, comments)

	return &App{
		Identity: service.NewIdentityService(users, orgs, memberships, guard, tx),
		Boards:   service.NewBoardService(boards, lists, guard, tx),
		Lists:    service.NewListService(lists, cards, guard),
		Cards:    service.NewCardService(cards, lists, guard, tx),
		Comments: service.NewCommentService(comments, guard),
	}
}

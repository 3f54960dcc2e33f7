package app

import (
	"context"
	"errors"

	"github.com/matheus3301/chatmock/internal/attachment"
	"github.com/matheus3301/chatmock/internal/bus"
	"github.com/matheus3301/chatmock/internal/chat"
	"github.com/matheus3301/chatmock/internal/config"
	"github.com/matheus3301/chatmock/internal/lock"
	"github.com/matheus3301/chatmock/internal/logging"
	"github.com/matheus3301/chatmock/internal/session"
	"github.com/matheus3301/chatmock/internal/status"
	"github.com/matheus3301/chatmock/internal/store"
	"github.com/matheus3301/chatmock/internal/tui"
	"github.com/matheus3301/chatmock/internal/workspace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the resolved workspace passed to the fx module.
type Params struct {
	Workspace  string
	ConfigPath string // optional override for testing; empty = use default
}

// Startup records what happened while restoring the workspace.
type Startup struct {
	// RestoreErr is set when a persisted session had to be discarded.
	RestoreErr error
}

// Module returns the fx module composing the stores, their storage and the
// terminal UI.
func Module(p Params) fx.Option {
	return fx.Module("chatmock",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideSessionStore,
			provideChatStore,
			provideRegistry,
			provideResolver,
			provideTUI,
			func() *Startup { return &Startup{} },
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = workspace.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(workspace.LogPath(p.Workspace), p.Workspace, cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := workspace.EnsureDir(p.Workspace); err != nil {
		return nil, err
	}
	logger.Info("acquiring workspace lock", zap.String("workspace", p.Workspace))
	l, err := lock.Acquire(workspace.Dir(p.Workspace))
	if err != nil {
		return nil, err
	}
	logger.Info("workspace lock acquired")
	return l, nil
}

// provideStore depends on the lock so the database is only opened by the
// lock holder.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := workspace.LocalDBPath(p.Workspace)
	db, result, err := store.OpenMigrated(dbPath)
	if err != nil {
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideSessionStore(db *store.DB, m *status.Machine, b *bus.Bus, logger *zap.Logger) *session.Store {
	return session.NewStore(db, m, b, logger.Named("session"))
}

func provideChatStore(cfg *config.Config, b *bus.Bus) *chat.Store {
	var seed []chat.Chat
	if cfg.ShouldSeed() {
		seed = chat.Seed()
	}
	return chat.NewStore(b, seed)
}

func provideRegistry(logger *zap.Logger) *attachment.Registry {
	return attachment.NewRegistry(logger.Named("attachment"))
}

func provideResolver(cfg *config.Config, reg *attachment.Registry, logger *zap.Logger) *attachment.Resolver {
	return attachment.NewResolver(reg, cfg.MaxAttachmentBytes, logger.Named("attachment"))
}

func provideTUI(p Params, sess *session.Store, chats *chat.Store, res *attachment.Resolver, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(tui.Deps{
		Workspace: p.Workspace,
		Session:   sess,
		Chats:     chats,
		Resolver:  res,
		Bus:       b,
		Logger:    logger.Named("tui"),
	})
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, db *store.DB, sess *session.Store, reg *attachment.Registry, st *Startup, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			err := sess.Restore()
			switch {
			case errors.Is(err, session.ErrCorruptRecord):
				st.RestoreErr = err
			case err != nil:
				return err
			}
			logger.Info("workspace ready", zap.String("status", string(sess.Status())))
			return nil
		},
		OnStop: func(_ context.Context) error {
			reg.ReleaseAll()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("workspace closed")
			_ = logger.Sync()
			return nil
		},
	})
}

package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/itchan-dev/authcore/shared/config"
	"github.com/itchan-dev/authcore/shared/logger"
	sharedpg "github.com/itchan-dev/authcore/shared/storage/pg"
)

// queryTimeout bounds every store call on top of the caller's context.
const queryTimeout = 5 * time.Second

// emailConstraint is the unique index enforcing one account per email.
const emailConstraint = "users_email_lower_idx"

// Storage is the PostgreSQL User Store and Token Store.
type Storage struct {
	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config, connCfg sharedpg.ConnectionConfig) (*Storage, error) {
	logger.Log.Info("connecting to db", "host", cfg.Private.Pg.Host, "dbname", cfg.Private.Pg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg.Private.Pg, connCfg)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return NewWithDB(db), nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// Ping is used by the readiness probe.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BRajendra10/yotube-backend/internal/repository"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx both,
// so every repo works inside and outside transactions
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Video() repository.VideoRepo {
	return &VideoRepo{DB: s.db}
}

func (s *Storage) Comment() repository.CommentRepo {
	return &CommentRepo{DB: s.db}
}

func (s *Storage) Like() repository.LikeRepo {
	return &LikeRepo{DB: s.db}
}

func (s *Storage) Playlist() repository.PlaylistRepo {
	return &PlaylistRepo{DB: s.db}
}

func (s *Storage) Post() repository.PostRepo {
	return &PostRepo{DB: s.db}
}

func (s *Storage) Subscription() repository.SubscriptionRepo {
	return &SubscriptionRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/store"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, cols map[string]any) (*model.User, error)
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]*model.User, error)
	Usernames(ctx context.Context) ([]string, error)
}

type userRepository struct {
	table *store.Table[model.User]
}

func NewUserRepository(db *sqlx.DB, now func() time.Time) UserRepository {
	table := store.NewTable[model.User](db, store.Schema{Name: "users", Columns: model.UserColumns})
	return &userRepository{table: table.WithClock(now)}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.table.Insert(ctx, user)
	if store.IsDuplicateOn(err, "username") {
		return fmt.Errorf("%w: %w", ErrDuplicateUsername, err)
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := r.table.Get(ctx, id)
	return user, notFound(err, ErrUserNotFound)
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := r.table.FindOne(ctx, sq.Eq{"username": username})
	return user, notFound(err, ErrUserNotFound)
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.table.Exists(ctx, sq.Eq{"id": id})
}

func (r *userRepository) Update(ctx context.Context, id string, cols map[string]any) (*model.User, error) {
	user, err := r.table.Update(ctx, id, cols)
	return user, notFound(err, ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return notFound(r.table.Delete(ctx, id), ErrUserNotFound)
}

func (r *userRepository) All(ctx context.Context) ([]*model.User, error) {
	return r.table.All(ctx)
}

func (r *userRepository) Usernames(ctx context.Context) ([]string, error) {
	return r.table.Distinct(ctx, "username")
}

// notFound tags store.ErrNotFound with the entity-specific sentinel while
// keeping the store error in the chain.
func notFound(err, sentinel error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

package repository

import (
	"context"
	"database/sql"
)

// PrefsRepo is the local key-value cache for UI preferences.
type PrefsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	All(ctx context.Context) (map[string]string, error)
}

type Repository struct {
	Prefs PrefsRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Prefs: NewPrefsSQLite(db),
	}
}

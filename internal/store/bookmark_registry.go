package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/migrations"
	"github.com/MKhiriev/geosync/models"
)

// BookmarkRegistry persists named endpoint configurations so layers can be
// reactivated across restarts. Pure storage: no synchronization logic.
type BookmarkRegistry interface {
	// Save stores the bookmark under its name. Without overwrite a name
	// collision fails with ErrDuplicateBookmark.
	Save(ctx context.Context, bookmark models.Bookmark, overwrite bool) error

	// Load returns the bookmark saved under name, or ErrBookmarkNotFound.
	Load(ctx context.Context, name string) (models.Bookmark, error)

	// List returns all saved bookmarks ordered by name.
	List(ctx context.Context) ([]models.Bookmark, error)

	// Delete removes the named bookmark, or fails with ErrBookmarkNotFound.
	Delete(ctx context.Context, name string) error

	// TouchSynced records the completion time of a successful push.
	TouchSynced(ctx context.Context, name string, at time.Time) error

	// Close releases the underlying database handle.
	Close() error
}

type sqliteBookmarkRegistry struct {
	db  *sql.DB
	log *logger.Logger
}

// NewBookmarkRegistry opens (creating if necessary) the registry database at
// dsn and applies pending schema migrations.
func NewBookmarkRegistry(dsn string, log *logger.Logger) (BookmarkRegistry, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping registry db: %w", err)
	}
	if err = migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate registry db: %w", err)
	}

	return &sqliteBookmarkRegistry{db: db, log: log}, nil
}

// NewBookmarkRegistryFromDB wraps an already-open database handle. The
// caller is responsible for the schema; intended for tests.
func NewBookmarkRegistryFromDB(db *sql.DB, log *logger.Logger) BookmarkRegistry {
	return &sqliteBookmarkRegistry{db: db, log: log}
}

func (r *sqliteBookmarkRegistry) Save(ctx context.Context, bookmark models.Bookmark, overwrite bool) error {
	if err := bookmark.Validate(); err != nil {
		return fmt.Errorf("validate bookmark: %w", err)
	}

	if !overwrite {
		if _, err := r.Load(ctx, bookmark.Name); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateBookmark, bookmark.Name)
		} else if !errors.Is(err, ErrBookmarkNotFound) {
			return err
		}
	}

	token := sql.NullString{String: bookmark.Token, Valid: bookmark.Token != ""}
	lastSynced := sql.NullTime{}
	if bookmark.LastSyncedAt != nil {
		lastSynced = sql.NullTime{Time: *bookmark.LastSyncedAt, Valid: true}
	}

	query, args, err := sq.Insert("bookmarks").
		Columns("name", "url", "token", "refresh_seconds", "last_synced_at").
		Values(bookmark.Name, bookmark.URL, token, int64(bookmark.RefreshInterval/time.Second), lastSynced).
		Suffix("ON CONFLICT(name) DO UPDATE SET url=excluded.url, token=excluded.token, refresh_seconds=excluded.refresh_seconds, last_synced_at=excluded.last_synced_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save bookmark %s: %w", bookmark.Name, err)
	}

	r.log.Debug().Str("bookmark", bookmark.Name).Msg("bookmark saved")
	return nil
}

func (r *sqliteBookmarkRegistry) Load(ctx context.Context, name string) (models.Bookmark, error) {
	query, args, err := sq.Select("name", "url", "token", "refresh_seconds", "last_synced_at").
		From("bookmarks").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("build load query: %w", err)
	}

	bookmark, err := scanBookmark(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bookmark{}, fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("load bookmark %s: %w", name, err)
	}
	return bookmark, nil
}

func (r *sqliteBookmarkRegistry) List(ctx context.Context) ([]models.Bookmark, error) {
	query, args, err := sq.Select("name", "url", "token", "refresh_seconds", "last_synced_at").
		From("bookmarks").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var out []models.Bookmark
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		out = append(out, bookmark)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}
	return out, nil
}

func (r *sqliteBookmarkRegistry) Delete(ctx context.Context, name string) error {
	query, args, err := sq.Delete("bookmarks").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete bookmark %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}

	r.log.Debug().Str("bookmark", name).Msg("bookmark deleted")
	return nil
}

func (r *sqliteBookmarkRegistry) TouchSynced(ctx context.Context, name string, at time.Time) error {
	query, args, err := sq.Update("bookmarks").
		Set("last_synced_at", at.UTC()).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("touch bookmark %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch bookmark %s: %w", name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrBookmarkNotFound, name)
	}
	return nil
}

func (r *sqliteBookmarkRegistry) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (models.Bookmark, error) {
	var (
		bookmark       models.Bookmark
		token          sql.NullString
		refreshSeconds int64
		lastSynced     sql.NullTime
	)
	if err := row.Scan(&bookmark.Name, &bookmark.URL, &token, &refreshSeconds, &lastSynced); err != nil {
		return models.Bookmark{}, err
	}

	bookmark.Token = token.String
	bookmark.RefreshInterval = time.Duration(refreshSeconds) * time.Second
	if lastSynced.Valid {
		t := lastSynced.Time
		bookmark.LastSyncedAt = &t
	}
	return bookmark, nil
}

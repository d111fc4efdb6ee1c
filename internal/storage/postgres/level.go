package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/smclevel/internal/level"
)

// ErrLevelNotFound is returned when a catalog lookup yields no results.
var ErrLevelNotFound = errors.New("level not found")

// LevelRecord is the catalog summary of one level file.
type LevelRecord struct {
	ID              uuid.UUID
	Path            string
	Author          string
	Version         string
	Description     string
	Difficulty      int
	EngineVersion   int
	LastSaved       int64
	Music           string
	LandType        string
	BackgroundCount int
	ObjectCount     int
	HasScript       bool
	ImportedAt      time.Time
}

// RecordFromLevel summarizes lvl for the catalog.
//
// Precondition: lvl must be non-nil.
// Postcondition: ID and ImportedAt are zero; Upsert assigns them.
func RecordFromLevel(path string, lvl *level.Level) LevelRecord {
	return LevelRecord{
		Path:            path,
		Author:          lvl.Author,
		Version:         lvl.Version,
		Description:     lvl.Description,
		Difficulty:      lvl.Difficulty,
		EngineVersion:   lvl.EngineVersion,
		LastSaved:       lvl.LastSaved,
		Music:           lvl.Music,
		LandType:        lvl.LandType.String(),
		BackgroundCount: len(lvl.Backgrounds),
		ObjectCount:     len(lvl.Objects),
		HasScript:       lvl.Script != "",
	}
}

const levelColumns = `id, path, author, version, description, difficulty, engine_version,
	last_saved, music, land_type, background_count, object_count, has_script, imported_at`

// LevelRepository provides level catalog persistence operations.
type LevelRepository struct {
	db *pgxpool.Pool
}

// NewLevelRepository creates a LevelRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewLevelRepository(db *pgxpool.Pool) *LevelRepository {
	return &LevelRepository{db: db}
}

// Upsert inserts rec, or replaces the row with the same path. A new row gets
// a fresh UUID; an existing row keeps its ID.
//
// Precondition: rec.Path must be non-empty.
// Postcondition: Returns the stored record with ID and ImportedAt set.
func (r *LevelRepository) Upsert(ctx context.Context, rec LevelRecord) (LevelRecord, error) {
	if rec.Path == "" {
		return LevelRecord{}, errors.New("level record path must not be empty")
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO levels (id, path, author, version, description, difficulty, engine_version,
		                     last_saved, music, land_type, background_count, object_count, has_script)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (path) DO UPDATE SET
		     author = EXCLUDED.author,
		     version = EXCLUDED.version,
		     description = EXCLUDED.description,
		     difficulty = EXCLUDED.difficulty,
		     engine_version = EXCLUDED.engine_version,
		     last_saved = EXCLUDED.last_saved,
		     music = EXCLUDED.music,
		     land_type = EXCLUDED.land_type,
		     background_count = EXCLUDED.background_count,
		     object_count = EXCLUDED.object_count,
		     has_script = EXCLUDED.has_script,
		     imported_at = NOW()
		 RETURNING `+levelColumns,
		uuid.New(), rec.Path, rec.Author, rec.Version, rec.Description, rec.Difficulty, rec.EngineVersion,
		rec.LastSaved, rec.Music, rec.LandType, rec.BackgroundCount, rec.ObjectCount, rec.HasScript,
	)
	stored, err := scanLevel(row)
	if err != nil {
		return LevelRecord{}, fmt.Errorf("upserting level %s: %w", rec.Path, err)
	}
	return stored, nil
}

// GetByPath retrieves the catalog entry for path.
//
// Postcondition: Returns the record or ErrLevelNotFound.
func (r *LevelRepository) GetByPath(ctx context.Context, path string) (LevelRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+levelColumns+` FROM levels WHERE path = $1`, path)
	rec, err := scanLevel(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LevelRecord{}, ErrLevelNotFound
		}
		return LevelRecord{}, fmt.Errorf("querying level %s: %w", path, err)
	}
	return rec, nil
}

// List returns every catalog entry ordered by path.
func (r *LevelRepository) List(ctx context.Context) ([]LevelRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+levelColumns+` FROM levels ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	defer rows.Close()

	var out []LevelRecord
	for rows.Next() {
		rec, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning level: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	return out, nil
}

// Delete removes the catalog entry for path.
//
// Postcondition: Returns nil or ErrLevelNotFound when no row matched.
func (r *LevelRepository) Delete(ctx context.Context, path string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM levels WHERE path = $1`, path)
	if err != nil {
		return fmt.Errorf("deleting level %s: %w", path, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLevelNotFound
	}
	return nil
}

func scanLevel(row pgx.Row) (LevelRecord, error) {
	var rec LevelRecord
	err := row.Scan(
		&rec.ID, &rec.Path, &rec.Author, &rec.Version, &rec.Description, &rec.Difficulty,
		&rec.EngineVersion, &rec.LastSaved, &rec.Music, &rec.LandType,
		&rec.BackgroundCount, &rec.ObjectCount, &rec.HasScript, &rec.ImportedAt,
	)
	return rec, err
}

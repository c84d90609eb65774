package characters

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/pkg/clock"
)

const characterSchema = `
CREATE TABLE IF NOT EXISTS characters (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL UNIQUE,
	player_name       TEXT NOT NULL DEFAULT '',
	class             TEXT NOT NULL DEFAULT '',
	level             INTEGER NOT NULL DEFAULT 1,
	hp_current        INTEGER NOT NULL,
	hp_max            INTEGER NOT NULL,
	armor_class       INTEGER NOT NULL,
	abilities         TEXT NOT NULL,
	modifiers         TEXT NOT NULL,
	saving_throws     TEXT NOT NULL,
	proficiency_bonus INTEGER NOT NULL DEFAULT 2,
	created_at        INTEGER NOT NULL,
	updated_at        INTEGER NOT NULL
);
`

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// SQLiteConfig contains configuration for the SQLite character repository.
type SQLiteConfig struct {
	// Path is the database file location. ":memory:" is allowed for tests.
	Path  string
	Clock clock.Clock
}

// Validate validates the SQLiteConfig.
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Path == "" {
		return errors.InvalidArgument("path cannot be empty")
	}
	return nil
}

// NewSQLite opens a SQLite-backed character repository, creating the
// schema if it does not exist yet.
func NewSQLite(cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn = filepath.Clean(dsn) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping sqlite db")
	}
	if _, err := db.Exec(characterSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to create schema")
	}

	return &sqliteRepository{db: db, clock: c}, nil
}

// Ensure sqliteRepository implements Repository
var _ Repository = (*sqliteRepository)(nil)

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func marshalScores(m map[entities.AbilityKey]int) (string, error) {
	if m == nil {
		m = map[entities.AbilityKey]int{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal ability scores")
	}
	return string(data), nil
}

func unmarshalScores(data string) (map[entities.AbilityKey]int, error) {
	m := map[entities.AbilityKey]int{}
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal ability scores")
	}
	return m, nil
}

func (r *sqliteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}
	if input.Character.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM characters WHERE id = ? OR name = ?`,
		input.Character.ID, input.Character.Name,
	).Scan(&exists)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check existence")
	}
	if exists > 0 {
		return nil, errors.AlreadyExists("character with ID " + input.Character.ID + " already exists")
	}

	now := r.clock.Now()
	input.Character.CreatedAt = now
	input.Character.UpdatedAt = now

	abilities, err := marshalScores(input.Character.Abilities)
	if err != nil {
		return nil, err
	}
	modifiers, err := marshalScores(input.Character.Modifiers)
	if err != nil {
		return nil, err
	}
	saves, err := marshalScores(input.Character.SavingThrows)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO characters (
			id, name, player_name, class, level,
			hp_current, hp_max, armor_class,
			abilities, modifiers, saving_throws,
			proficiency_bonus, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Character.ID, input.Character.Name, input.Character.PlayerName,
		input.Character.Class, input.Character.Level,
		input.Character.HPCurrent, input.Character.HPMax, input.Character.ArmorClass,
		abilities, modifiers, saves,
		input.Character.ProficiencyBonus, toMillis(now), toMillis(now),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: input.Character}, nil
}

func (r *sqliteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	char, err := r.scanOne(r.db.QueryRowContext(ctx,
		selectCharacterColumns+` WHERE id = ?`, input.ID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character %s not found", input.ID)
		}
		return nil, err
	}

	return &GetOutput{Character: char}, nil
}

func (r *sqliteRepository) GetByName(ctx context.Context, input GetByNameInput) (*GetByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	char, err := r.scanOne(r.db.QueryRowContext(ctx,
		selectCharacterColumns+` WHERE name = ?`, input.Name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("character named %q not found", input.Name)
		}
		return nil, err
	}

	return &GetByNameOutput{Character: char}, nil
}

func (r *sqliteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, selectCharacterColumns+` ORDER BY name`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	var list []*entities.Character
	for rows.Next() {
		char, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, char)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}

	return &ListOutput{Characters: list}, nil
}

func (r *sqliteRepository) UpdateHP(ctx context.Context, input UpdateHPInput) (*UpdateHPOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	now := r.clock.Now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE characters SET hp_current = ?, updated_at = ? WHERE id = ?`,
		input.HP, toMillis(now), input.ID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update character HP")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update character HP")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}

	out, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}
	return &UpdateHPOutput{Character: out.Character}, nil
}

func (r *sqliteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	if affected == 0 {
		return nil, errors.NotFoundf("character %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// Close releases the underlying database handle.
func (r *sqliteRepository) Close() error {
	return r.db.Close()
}

const selectCharacterColumns = `
	SELECT id, name, player_name, class, level,
	       hp_current, hp_max, armor_class,
	       abilities, modifiers, saving_throws,
	       proficiency_bonus, created_at, updated_at
	FROM characters`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *sqliteRepository) scanOne(row rowScanner) (*entities.Character, error) {
	var (
		char                     entities.Character
		abilities, mods, saves   string
		createdMillis, updMillis int64
	)

	err := row.Scan(
		&char.ID, &char.Name, &char.PlayerName, &char.Class, &char.Level,
		&char.HPCurrent, &char.HPMax, &char.ArmorClass,
		&abilities, &mods, &saves,
		&char.ProficiencyBonus, &createdMillis, &updMillis,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to scan character")
	}

	if char.Abilities, err = unmarshalScores(abilities); err != nil {
		return nil, err
	}
	if char.Modifiers, err = unmarshalScores(mods); err != nil {
		return nil, err
	}
	if char.SavingThrows, err = unmarshalScores(saves); err != nil {
		return nil, err
	}

	char.CreatedAt = fromMillis(createdMillis)
	char.UpdatedAt = fromMillis(updMillis)
	return &char, nil
}

package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/identity"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const accountColumns = `id, username, pass_hash, level, exp, gold, hp, max_hp,
pos_x, pos_y, pos_z, rotation_y, inventory, quests, created_at, updated_at`

// ProfileStore keeps durable account profiles in a SQLite file.
type ProfileStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*ProfileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &ProfileStore{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *ProfileStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *ProfileStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateAccount registers a new account with no durable fields set.
// A username whose canonical form is taken yields ErrConflict.
func (s *ProfileStore) CreateAccount(ctx context.Context, username, passHash string) (domain.AccountRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" || passHash == "" {
		return domain.AccountRecord{}, fmt.Errorf("%w: username and password hash are required", domain.ErrValidation)
	}

	now := s.now().UTC()
	rec := domain.AccountRecord{
		ID:        domain.AccountID(utils.GenerateID()),
		Username:  username,
		PassHash:  passHash,
		Inventory: domain.Inventory{},
		Quests:    []domain.QuestProgress{},
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
		UpdatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, username_key, pass_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Username, identity.CanonicalUsername(username), passHash,
		now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.AccountRecord{}, fmt.Errorf("%w: username %q is taken", domain.ErrConflict, username)
		}
		return domain.AccountRecord{}, fmt.Errorf("insert account: %w", err)
	}
	return rec, nil
}

// FindByUsername looks an account up by its canonical username.
func (s *ProfileStore) FindByUsername(ctx context.Context, username string) (domain.AccountRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username_key = ?`,
		identity.CanonicalUsername(username),
	)
	return scanAccount(row)
}

// LoadAccount fetches an account by id.
func (s *ProfileStore) LoadAccount(ctx context.Context, id domain.AccountID) (domain.AccountRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id.String())
	return scanAccount(row)
}

// SaveAccount writes the populated fields of patch and leaves the others
// untouched. An unknown id yields ErrNotFound.
func (s *ProfileStore) SaveAccount(ctx context.Context, id domain.AccountID, patch domain.ProfilePatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("%w: empty profile patch", domain.ErrValidation)
	}

	var posX, posY, posZ any
	if patch.Pos != nil {
		posX, posY, posZ = patch.Pos.X, patch.Pos.Y, patch.Pos.Z
	}
	var inventory, quests any
	if patch.Inventory != nil {
		data, err := encodeInventory(*patch.Inventory)
		if err != nil {
			return err
		}
		inventory = data
	}
	if patch.Quests != nil {
		data, err := encodeQuests(*patch.Quests)
		if err != nil {
			return err
		}
		quests = data
	}

	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET
		level      = COALESCE(?, level),
		exp        = COALESCE(?, exp),
		gold       = COALESCE(?, gold),
		hp         = COALESCE(?, hp),
		max_hp     = COALESCE(?, max_hp),
		pos_x      = COALESCE(?, pos_x),
		pos_y      = COALESCE(?, pos_y),
		pos_z      = COALESCE(?, pos_z),
		rotation_y = COALESCE(?, rotation_y),
		inventory  = COALESCE(?, inventory),
		quests     = COALESCE(?, quests),
		updated_at = ?
		WHERE id = ?`,
		intArg(patch.Level), intArg(patch.Exp), intArg(patch.Gold), intArg(patch.HP), intArg(patch.MaxHP),
		posX, posY, posZ, floatArg(patch.RotationY),
		inventory, quests,
		s.now().UTC().UnixMilli(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("update account %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}
	return nil
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func floatArg(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func scanAccount(row *sql.Row) (domain.AccountRecord, error) {
	var (
		rec                         domain.AccountRecord
		id                          string
		level, exp, gold, hp, maxHP sql.NullInt64
		posX, posY, posZ, rot       sql.NullFloat64
		inventory, quests           []byte
		createdAt, updatedAt        int64
	)
	err := row.Scan(&id, &rec.Username, &rec.PassHash, &level, &exp, &gold, &hp, &maxHP,
		&posX, &posY, &posZ, &rot, &inventory, &quests, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AccountRecord{}, domain.ErrNotFound
		}
		return domain.AccountRecord{}, fmt.Errorf("scan account: %w", err)
	}

	rec.ID = domain.AccountID(id)
	rec.Level = nullInt(level)
	rec.Exp = nullInt(exp)
	rec.Gold = nullInt(gold)
	rec.HP = nullInt(hp)
	rec.MaxHP = nullInt(maxHP)
	if posX.Valid && posY.Valid {
		rec.Pos = &domain.Position{X: posX.Float64, Y: posY.Float64, Z: posZ.Float64}
	}
	if rot.Valid {
		v := rot.Float64
		rec.RotationY = &v
	}
	if rec.Inventory, err = decodeInventory(inventory); err != nil {
		return domain.AccountRecord{}, err
	}
	if rec.Quests, err = decodeQuests(quests); err != nil {
		return domain.AccountRecord{}, err
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return rec, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

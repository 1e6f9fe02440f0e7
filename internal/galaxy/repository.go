package galaxy

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/errors"
)

const uniqueViolation = "23505"

type Repository struct {
	db database.Executor
}

func NewRepository(db database.Executor) *Repository {
	logger := slog.With("component", "galaxy_repository", "operation", "init")
	logger.Debug("Initializing galaxy repository")
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rec *Record) error {
	logger := slog.With(
		"component", "galaxy_repository",
		"operation", "create",
		"galaxy_id", rec.ID,
		"seed", rec.Seed,
	)
	logger.Debug("Persisting galaxy run")

	query := `
		INSERT INTO galaxy_runs (id, seed, star_count, resource_multiplier, planet_count, regenerations, rule_kinds, digest, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.ID,
		rec.Seed,
		rec.StarCount,
		rec.ResourceMultiplier,
		rec.PlanetCount,
		rec.Regenerations,
		pq.Array(rec.RuleKinds),
		rec.Digest,
		rec.CreatedBy,
	).Scan(&rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return errors.Conflictf("galaxy with digest %s already saved by %s", rec.Digest, rec.CreatedBy)
		}
		return errors.WrapInternal("failed to create galaxy run", err)
	}

	logger.Info("Galaxy run persisted")
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "get", "galaxy_id", id)
	logger.Debug("Getting galaxy run")

	query := `
		SELECT id, seed, star_count, resource_multiplier, planet_count, regenerations, rule_kinds, digest, created_by, created_at
		FROM galaxy_runs
		WHERE id = $1
	`

	var rec Record
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.Seed,
		&rec.StarCount,
		&rec.ResourceMultiplier,
		&rec.PlanetCount,
		&rec.Regenerations,
		pq.Array(&rec.RuleKinds),
		&rec.Digest,
		&rec.CreatedBy,
		&rec.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundf("galaxy %s not found", id)
		}
		return nil, errors.WrapInternal("failed to get galaxy run", err)
	}

	return &rec, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, owner string) error {
	logger := slog.With("component", "galaxy_repository", "operation", "delete", "galaxy_id", id)

	result, err := r.db.ExecContext(ctx, `DELETE FROM galaxy_runs WHERE id = $1 AND created_by = $2`, id, owner)
	if err != nil {
		return errors.WrapInternal("failed to delete galaxy run", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to delete galaxy run", err)
	}
	if n == 0 {
		return errors.NotFoundf("galaxy %s not found", id)
	}

	logger.Info("Galaxy run deleted")
	return nil
}

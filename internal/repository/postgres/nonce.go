package postgres

import (
	"context"
	"database/sql"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/repository"
)

type nonceRepository struct {
	db *sql.DB
}

func NewNonceRepository(db *sql.DB) repository.NonceRepository {
	return &nonceRepository{db: db}
}

func (r *nonceRepository) Current(ctx context.Context, signer domain.Address) (uint64, error) {
	var counter uint64
	query := `SELECT COALESCE((SELECT counter FROM signer_nonces WHERE signer = $1), 0)`
	err := r.db.QueryRowContext(ctx, query, signer.Normalize()).Scan(&counter)
	return counter, err
}

func (r *nonceRepository) Advance(ctx context.Context, signer domain.Address) (uint64, error) {
	var counter uint64
	query := `INSERT INTO signer_nonces (signer, counter) VALUES ($1, 1)
	          ON CONFLICT (signer) DO UPDATE SET counter = signer_nonces.counter + 1
	          RETURNING counter`
	err := r.db.QueryRowContext(ctx, query, signer.Normalize()).Scan(&counter)
	return counter, err
}

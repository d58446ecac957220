package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"leasemarket-backend/internal/repository"
)

// Store bundles the postgres-backed repositories behind one handle.
type Store struct {
	db *sql.DB
	repository.OfferRepository
	repository.NegotiationRepository
	repository.NonceRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		OfferRepository:       NewOfferRepository(db),
		NegotiationRepository: NewNegotiationRepository(db),
		NonceRepository:       NewNonceRepository(db),
	}
}

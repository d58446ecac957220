package postgres

import (
	"context"
	"database/sql"
	"errors"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/repository"
)

type negotiationRepository struct {
	db *sql.DB
}

func NewNegotiationRepository(db *sql.DB) repository.NegotiationRepository {
	return &negotiationRepository{db: db}
}

func (r *negotiationRepository) UpsertRefund(ctx context.Context, req *domain.RefundRequest) error {
	query := `INSERT INTO refund_requests (asset, item_id, landlord, payout_amount, proposed_by)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (asset, item_id, landlord)
	          DO UPDATE SET payout_amount = EXCLUDED.payout_amount, proposed_by = EXCLUDED.proposed_by`
	_, err := r.db.ExecContext(ctx, query, req.Asset, req.ItemID, req.Landlord, req.PayoutAmount, req.ProposedBy)
	return err
}

func (r *negotiationRepository) GetRefund(ctx context.Context, key domain.OfferKey) (*domain.RefundRequest, error) {
	req := &domain.RefundRequest{}
	query := `SELECT asset, item_id, landlord, payout_amount, proposed_by FROM refund_requests
	          WHERE asset = $1 AND item_id = $2 AND landlord = $3`
	err := r.db.QueryRowContext(ctx, query, key.Asset, key.ItemID, key.Landlord).
		Scan(&req.Asset, &req.ItemID, &req.Landlord, &req.PayoutAmount, &req.ProposedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *negotiationRepository) DeleteRefund(ctx context.Context, key domain.OfferKey) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refund_requests WHERE asset=$1 AND item_id=$2 AND landlord=$3`,
		key.Asset, key.ItemID, key.Landlord)
	return err
}

func (r *negotiationRepository) UpsertExtend(ctx context.Context, req *domain.ExtendRequest) error {
	query := `INSERT INTO extend_requests (asset, item_id, landlord, payout_amount, extended_duration, renter_agreed)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (asset, item_id, landlord)
	          DO UPDATE SET payout_amount = EXCLUDED.payout_amount, extended_duration = EXCLUDED.extended_duration, renter_agreed = EXCLUDED.renter_agreed`
	_, err := r.db.ExecContext(ctx, query, req.Asset, req.ItemID, req.Landlord, req.PayoutAmount, req.ExtendedDuration, req.RenterAgreed)
	return err
}

func (r *negotiationRepository) GetExtend(ctx context.Context, key domain.OfferKey) (*domain.ExtendRequest, error) {
	req := &domain.ExtendRequest{}
	query := `SELECT asset, item_id, landlord, payout_amount, extended_duration, renter_agreed FROM extend_requests
	          WHERE asset = $1 AND item_id = $2 AND landlord = $3`
	err := r.db.QueryRowContext(ctx, query, key.Asset, key.ItemID, key.Landlord).
		Scan(&req.Asset, &req.ItemID, &req.Landlord, &req.PayoutAmount, &req.ExtendedDuration, &req.RenterAgreed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *negotiationRepository) DeleteExtend(ctx context.Context, key domain.OfferKey) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM extend_requests WHERE asset=$1 AND item_id=$2 AND landlord=$3`,
		key.Asset, key.ItemID, key.Landlord)
	return err
}

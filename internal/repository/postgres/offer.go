package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"leasemarket-backend/internal/domain"
	"leasemarket-backend/internal/repository"
)

type offerRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

const offerColumns = `asset, item_id, landlord, pay_token, pass_token, min_duration, max_duration, start_discount_at, unit_price, discount_unit_price, end_time, current_renter, created_on, updated_on`

func (r *offerRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `INSERT INTO offers (` + offerColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.ExecContext(ctx, query,
		o.Asset, o.ItemID, o.Landlord, o.PayToken, o.PassToken,
		o.MinDuration, o.MaxDuration, o.StartDiscountAt, o.UnitPrice, o.DiscountUnitPrice,
		nullTime(o.EndTime), o.CurrentRenter, time.Now(), time.Now())
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *offerRepository) Get(ctx context.Context, key domain.OfferKey) (*domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE asset = $1 AND item_id = $2 AND landlord = $3`
	row := r.db.QueryRowContext(ctx, query, key.Asset, key.ItemID, key.Landlord)
	return scanOffer(row)
}

func (r *offerRepository) Update(ctx context.Context, o *domain.Offer) error {
	query := `UPDATE offers SET start_discount_at=$1, unit_price=$2, discount_unit_price=$3, end_time=$4, current_renter=$5, updated_on=$6
	          WHERE asset=$7 AND item_id=$8 AND landlord=$9`
	res, err := r.db.ExecContext(ctx, query,
		o.StartDiscountAt, o.UnitPrice, o.DiscountUnitPrice,
		nullTime(o.EndTime), o.CurrentRenter, time.Now(),
		o.Asset, o.ItemID, o.Landlord)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, key domain.OfferKey) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE asset=$1 AND item_id=$2 AND landlord=$3`,
		key.Asset, key.ItemID, key.Landlord)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *offerRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Offer, error) {
	query := `SELECT ` + offerColumns + ` FROM offers WHERE end_time IS NOT NULL AND end_time <= $1`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (*domain.Offer, error) {
	o := &domain.Offer{}
	var endTime sql.NullTime
	err := row.Scan(&o.Asset, &o.ItemID, &o.Landlord, &o.PayToken, &o.PassToken,
		&o.MinDuration, &o.MaxDuration, &o.StartDiscountAt, &o.UnitPrice, &o.DiscountUnitPrice,
		&endTime, &o.CurrentRenter, &o.CreatedOn, &o.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		o.EndTime = endTime.Time
	}
	return o, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/sqlinline"
)

// PGDonations implements domain.DonationRepository with jsonb documents.
type PGDonations struct {
	sql infra.SQLExecutor
}

func NewPGDonations(sql infra.SQLExecutor) *PGDonations {
	return &PGDonations{sql: sql}
}

func (r *PGDonations) Create(ctx context.Context, d *domain.Donation) (*domain.InsertResult, error) {
	raw, err := encodeDoc(d.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode donation: %w", err)
	}
	id := uuid.New()
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertDonation, id, raw); err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: id.String()}, nil
}

func (r *PGDonations) ListByDonor(ctx context.Context, email string) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonationsByDonor, email)
	if err != nil {
		return nil, fmt.Errorf("query donations: %w", err)
	}
	items, err := scanDocs(rows, func(d *domain.Donation, id string) { d.ID = id })
	if err != nil {
		return nil, fmt.Errorf("scan donations: %w", err)
	}
	return items, nil
}

var _ domain.DonationRepository = (*PGDonations)(nil)

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"crowdfund/internal/domain"
	"crowdfund/internal/infra"
	"crowdfund/internal/sqlinline"
)

// PGCampaigns implements domain.CampaignRepository with jsonb documents in
// PostgreSQL. Ids are UUIDs.
type PGCampaigns struct {
	sql infra.SQLExecutor
}

func NewPGCampaigns(sql infra.SQLExecutor) *PGCampaigns {
	return &PGCampaigns{sql: sql}
}

func setCampaignID(c *domain.Campaign, id string) { c.ID = id }

func (r *PGCampaigns) Create(ctx context.Context, c *domain.Campaign) (*domain.InsertResult, error) {
	raw, err := encodeDoc(c.Fields())
	if err != nil {
		return nil, fmt.Errorf("encode campaign: %w", err)
	}
	id := uuid.New()
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertCampaign, id, raw); err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: id.String()}, nil
}

func (r *PGCampaigns) List(ctx context.Context) ([]domain.Campaign, error) {
	return r.query(ctx, sqlinline.QListCampaigns)
}

func (r *PGCampaigns) ListSortedByMinimumDonation(ctx context.Context) ([]domain.Campaign, error) {
	return r.query(ctx, sqlinline.QListCampaignsByMinimumDonation)
}

func (r *PGCampaigns) ListByOwner(ctx context.Context, email string) ([]domain.Campaign, error) {
	return r.query(ctx, sqlinline.QListCampaignsByOwner, email)
}

func (r *PGCampaigns) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	var gotID string
	var raw []byte
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectCampaignByID, parsed).Scan(&gotID, &raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select campaign: %w", err)
	}
	var c domain.Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode campaign %s: %w", gotID, err)
	}
	c.ID = gotID
	return &c, nil
}

func (r *PGCampaigns) Upsert(ctx context.Context, id string, u domain.CampaignUpdate) (*domain.UpdateResult, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	raw, err := encodeDoc(u)
	if err != nil {
		return nil, fmt.Errorf("encode campaign update: %w", err)
	}
	var matched int64
	var modified bool
	if err := r.sql.QueryRow(ctx, sqlinline.QUpsertCampaign, parsed, raw).Scan(&matched, &modified); err != nil {
		return nil, fmt.Errorf("upsert campaign: %w", err)
	}
	out := &domain.UpdateResult{Acknowledged: true, MatchedCount: matched}
	if modified {
		out.ModifiedCount = 1
	}
	if matched == 0 {
		out.UpsertedCount = 1
		out.UpsertedID = parsed.String()
	}
	return out, nil
}

func (r *PGCampaigns) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	parsed, err := parseUUID(id)
	if err != nil {
		return nil, err
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteCampaign, parsed)
	if err != nil {
		return nil, fmt.Errorf("delete campaign: %w", err)
	}
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: tag.RowsAffected()}, nil
}

func (r *PGCampaigns) query(ctx context.Context, q string, args ...any) ([]domain.Campaign, error) {
	rows, err := r.sql.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	items, err := scanDocs(rows, setCampaignID)
	if err != nil {
		return nil, fmt.Errorf("scan campaigns: %w", err)
	}
	return items, nil
}

var _ domain.CampaignRepository = (*PGCampaigns)(nil)

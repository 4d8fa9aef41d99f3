package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/domain"
	"crowdfund/internal/sqlinline"
)

type execCall struct {
	query string
	args  []any
}

type fakeSQL struct {
	execs    []execCall
	execTag  pgconn.CommandTag
	execErr  error
	rowScan  func(dest ...any) error
	rows     [][2]any
	queryErr error
	queries  []execCall
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.execTag, f.execErr
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	f.queries = append(f.queries, execCall{query: query, args: args})
	return scanRow(f.rowScan)
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, execCall{query: query, args: args})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return &docRows{rows: f.rows}, nil
}

type scanRow func(dest ...any) error

func (s scanRow) Scan(dest ...any) error {
	if s == nil {
		return pgx.ErrNoRows
	}
	return s(dest...)
}

type docRows struct {
	rows [][2]any
	idx  int
}

func (d *docRows) Close()                                       {}
func (d *docRows) Err() error                                   { return nil }
func (d *docRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (d *docRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (d *docRows) Values() ([]any, error)                       { return nil, fmt.Errorf("not supported") }
func (d *docRows) RawValues() [][]byte                          { return nil }
func (d *docRows) Conn() *pgx.Conn                              { return nil }

func (d *docRows) Next() bool {
	if d.idx >= len(d.rows) {
		return false
	}
	d.idx++
	return true
}

func (d *docRows) Scan(dest ...any) error {
	row := d.rows[d.idx-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*[]byte) = []byte(row[1].(string))
	return nil
}

func TestPGCampaignsCreateEncodesDocument(t *testing.T) {
	sql := &fakeSQL{}
	repo := NewPGCampaigns(sql)

	res, err := repo.Create(context.Background(), &domain.Campaign{ID: "ignored", CampaignTitle: "Wells", MinimumDonation: 5, UserEmail: "u@x.com"})
	require.NoError(t, err)
	_, err = uuid.Parse(res.InsertedID)
	require.NoError(t, err)

	require.Len(t, sql.execs, 1)
	assert.Equal(t, sqlinline.QInsertCampaign, sql.execs[0].query)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(sql.execs[0].args[1].([]byte), &doc))
	assert.Equal(t, "Wells", doc["campaignTitle"])
	assert.Equal(t, 5.0, doc["minimumDonation"])
	assert.NotContains(t, doc, "_id")
}

func TestPGCampaignsListSetsIDs(t *testing.T) {
	id := uuid.NewString()
	sql := &fakeSQL{rows: [][2]any{{id, `{"campaignTitle":"Wells","minimumDonation":"15","userEmail":"u@x.com"}`}}}
	repo := NewPGCampaigns(sql)

	items, err := repo.ListSortedByMinimumDonation(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, domain.Amount(15), items[0].MinimumDonation)
	assert.Equal(t, sqlinline.QListCampaignsByMinimumDonation, sql.queries[0].query)
}

func TestPGCampaignsKeepPostedFields(t *testing.T) {
	sql := &fakeSQL{}
	repo := NewPGCampaigns(sql)

	c := domain.CampaignFromFields(map[string]any{
		"campaignTitle":   "Wells",
		"minimumDonation": "ten",
		"email":           "u@x.com",
		"tags":            []any{"water"},
	})
	_, err := repo.Create(context.Background(), &c)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(sql.execs[0].args[1].([]byte), &doc))
	assert.Equal(t, "ten", doc["minimumDonation"])
	assert.Equal(t, "u@x.com", doc["email"])
	assert.Equal(t, []any{"water"}, doc["tags"])

	sql.rows = [][2]any{{uuid.NewString(), string(sql.execs[0].args[1].([]byte))}}
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ten", items[0].Fields()["minimumDonation"])
	assert.Equal(t, "u@x.com", items[0].Extra["email"])
}

func TestPGCampaignsUpsertSendsOnlyUpdatableFields(t *testing.T) {
	sql := &fakeSQL{rowScan: func(dest ...any) error {
		*dest[0].(*int64) = 1
		*dest[1].(*bool) = true
		return nil
	}}
	body := domain.CampaignFromFields(map[string]any{"email": "u@x.com", "campaignTitle": "New"})

	_, err := NewPGCampaigns(sql).Upsert(context.Background(), uuid.NewString(), body.Update())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(sql.queries[0].args[1].([]byte), &doc))
	assert.Len(t, doc, len(domain.CampaignFields))
	assert.Equal(t, "New", doc["campaignTitle"])
	assert.NotContains(t, doc, "email")
}

func TestPGCampaignsListByOwnerPassesEmail(t *testing.T) {
	sql := &fakeSQL{}
	repo := NewPGCampaigns(sql)

	items, err := repo.ListByOwner(context.Background(), "u@x.com")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, []any{"u@x.com"}, sql.queries[0].args)
}

func TestPGCampaignsGetByID(t *testing.T) {
	id := uuid.NewString()

	t.Run("found", func(t *testing.T) {
		sql := &fakeSQL{rowScan: func(dest ...any) error {
			*dest[0].(*string) = id
			*dest[1].(*[]byte) = []byte(`{"campaignTitle":"Wells"}`)
			return nil
		}}
		c, err := NewPGCampaigns(sql).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, "Wells", c.CampaignTitle)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := NewPGCampaigns(&fakeSQL{}).GetByID(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		sql := &fakeSQL{}
		_, err := NewPGCampaigns(sql).GetByID(context.Background(), "64b7f0c2e1")
		assert.ErrorIs(t, err, domain.ErrInvalidID)
		assert.Empty(t, sql.queries)
	})
}

func TestPGCampaignsUpsert(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name     string
		matched  int64
		modified bool
		want     domain.UpdateResult
	}{
		{name: "insert", matched: 0, want: domain.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}},
		{name: "update", matched: 1, modified: true, want: domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}},
		{name: "no-op update", matched: 1, want: domain.UpdateResult{Acknowledged: true, MatchedCount: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql := &fakeSQL{rowScan: func(dest ...any) error {
				*dest[0].(*int64) = tc.matched
				*dest[1].(*bool) = tc.modified
				return nil
			}}
			res, err := NewPGCampaigns(sql).Upsert(context.Background(), id, domain.Campaign{CampaignTitle: "x"}.Update())
			require.NoError(t, err)
			assert.Equal(t, tc.want, *res)
			assert.Equal(t, sqlinline.QUpsertCampaign, sql.queries[0].query)
		})
	}
}

func TestPGCampaignsDelete(t *testing.T) {
	sql := &fakeSQL{execTag: pgconn.NewCommandTag("DELETE 0")}
	res, err := NewPGCampaigns(sql).Delete(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)

	sql = &fakeSQL{execErr: errors.New("conn reset")}
	_, err = NewPGCampaigns(sql).Delete(context.Background(), uuid.NewString())
	assert.ErrorContains(t, err, "conn reset")
}

func TestPGDonations(t *testing.T) {
	sql := &fakeSQL{rows: [][2]any{{"a2c7e8f4-8a48-4c55-9d49-9f0c1d1c2b33", `{"donorEmail":"d@x.com","amount":12.5,"donatedAt":"2024-03-01T10:00:00Z"}`}}}
	repo := NewPGDonations(sql)

	res, err := repo.Create(context.Background(), &domain.Donation{DonorEmail: "d@x.com", Amount: 12.5})
	require.NoError(t, err)
	assert.NotEmpty(t, res.InsertedID)
	assert.Equal(t, sqlinline.QInsertDonation, sql.execs[0].query)

	items, err := repo.ListByDonor(context.Background(), "d@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a2c7e8f4-8a48-4c55-9d49-9f0c1d1c2b33", items[0].ID)
	assert.Equal(t, domain.Amount(12.5), items[0].Amount)
	assert.Equal(t, "2024-03-01T10:00:00Z", items[0].DonatedAt)
}

func TestEnsureSchema(t *testing.T) {
	sql := &fakeSQL{}
	require.NoError(t, EnsureSchema(context.Background(), sql))
	assert.Equal(t, sqlinline.QEnsureSchema, sql.execs[0].query)
}

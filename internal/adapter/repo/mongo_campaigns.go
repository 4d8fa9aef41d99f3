package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crowdfund/internal/domain"
)

const campaignCollection = "campaigns"

// MongoCampaigns implements domain.CampaignRepository on a MongoDB collection.
type MongoCampaigns struct {
	coll *mongo.Collection
}

// NewMongoCampaigns returns a repository over db's campaigns collection.
func NewMongoCampaigns(db *mongo.Database) *MongoCampaigns {
	return &MongoCampaigns{coll: db.Collection(campaignCollection)}
}

func (r *MongoCampaigns) Create(ctx context.Context, c *domain.Campaign) (*domain.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, toBSON(c.Fields(), domain.CampaignFields))
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: hexID(res.InsertedID)}, nil
}

func (r *MongoCampaigns) List(ctx context.Context) ([]domain.Campaign, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoCampaigns) ListSortedByMinimumDonation(ctx context.Context) ([]domain.Campaign, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "minimumDonation", Value: 1}}))
}

func (r *MongoCampaigns) ListByOwner(ctx context.Context, email string) ([]domain.Campaign, error) {
	return r.find(ctx, bson.D{{Key: "userEmail", Value: email}})
}

func (r *MongoCampaigns) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	c := domain.CampaignFromFields(fromBSON(doc))
	return &c, nil
}

// Upsert writes the update's fields onto id, creating the document when it
// does not exist.
func (r *MongoCampaigns) Upsert(ctx context.Context, id string, u domain.CampaignUpdate) (*domain.UpdateResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: toBSON(u, domain.CampaignFields)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert campaign: %w", err)
	}
	out := &domain.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if res.UpsertedID != nil {
		out.UpsertedID = hexID(res.UpsertedID)
	}
	return out, nil
}

func (r *MongoCampaigns) Delete(ctx context.Context, id string) (*domain.DeleteResult, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return nil, fmt.Errorf("delete campaign: %w", err)
	}
	return &domain.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *MongoCampaigns) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]domain.Campaign, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find campaigns: %w", err)
	}
	docs, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	items := make([]domain.Campaign, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.CampaignFromFields(d))
	}
	return items, nil
}

var _ domain.CampaignRepository = (*MongoCampaigns)(nil)

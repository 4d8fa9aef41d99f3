package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"crowdfund/internal/domain"
)

const donationCollection = "donations"

// MongoDonations implements domain.DonationRepository on a MongoDB collection.
type MongoDonations struct {
	coll *mongo.Collection
}

func NewMongoDonations(db *mongo.Database) *MongoDonations {
	return &MongoDonations{coll: db.Collection(donationCollection)}
}

func (r *MongoDonations) Create(ctx context.Context, d *domain.Donation) (*domain.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, toBSON(d.Fields(), domain.DonationFields))
	if err != nil {
		return nil, fmt.Errorf("insert donation: %w", err)
	}
	return &domain.InsertResult{Acknowledged: true, InsertedID: hexID(res.InsertedID)}, nil
}

func (r *MongoDonations) ListByDonor(ctx context.Context, email string) ([]domain.Donation, error) {
	cur, err := r.coll.Find(ctx, bson.D{{Key: "donorEmail", Value: email}})
	if err != nil {
		return nil, fmt.Errorf("find donations: %w", err)
	}
	docs, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode donations: %w", err)
	}
	items := make([]domain.Donation, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.DonationFromFields(d))
	}
	return items, nil
}

var _ domain.DonationRepository = (*MongoDonations)(nil)

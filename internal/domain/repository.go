package domain

import "context"

// CampaignRepository defines persistence for campaigns. Implementations
// return ErrInvalidID for identifiers their store cannot parse.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) (*InsertResult, error)
	List(ctx context.Context) ([]Campaign, error)
	ListSortedByMinimumDonation(ctx context.Context) ([]Campaign, error)
	ListByOwner(ctx context.Context, email string) ([]Campaign, error)
	// GetByID returns ErrNotFound when no campaign has the id.
	GetByID(ctx context.Context, id string) (*Campaign, error)
	Upsert(ctx context.Context, id string, update CampaignUpdate) (*UpdateResult, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) (*InsertResult, error)
	ListByDonor(ctx context.Context, email string) ([]Donation, error)
}

// Pinger reports store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

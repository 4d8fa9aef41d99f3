package domain

import "encoding/json"

// DonationFields lists the typed donation fields in stored order.
var DonationFields = []string{
	"campaignId",
	"campaignTitle",
	"donorEmail",
	"donorName",
	"amount",
	"message",
	"country",
	"locale",
	"donatedAt",
}

// Donation represents a supporter contribution record. Like Campaign, any
// other posted field is kept in Extra and stored as sent.
type Donation struct {
	ID            string
	CampaignID    string
	CampaignTitle string
	DonorEmail    string
	DonorName     string
	Amount        Amount
	Message       string
	Country       string
	Locale        string
	// DonatedAt is kept in the format the client sent; the server stamps
	// RFC 3339 when it is empty.
	DonatedAt string
	Extra     map[string]any
}

func DonationFromFields(fields map[string]any) Donation {
	r := newFieldReader(fields)
	return Donation{
		ID:            r.str("_id"),
		CampaignID:    r.str("campaignId"),
		CampaignTitle: r.str("campaignTitle"),
		DonorEmail:    r.str("donorEmail"),
		DonorName:     r.str("donorName"),
		Amount:        r.amount("amount"),
		Message:       r.str("message"),
		Country:       r.str("country"),
		Locale:        r.str("locale"),
		DonatedAt:     r.str("donatedAt"),
		Extra:         r.extra(),
	}
}

// Fields returns the donation as a document. Optional text fields are left
// out when empty.
func (d Donation) Fields() map[string]any {
	fields := map[string]any{
		"campaignId": d.CampaignID,
		"donorEmail": d.DonorEmail,
		"amount":     float64(d.Amount),
		"donatedAt":  d.DonatedAt,
	}
	optional := map[string]string{
		"campaignTitle": d.CampaignTitle,
		"donorName":     d.DonorName,
		"message":       d.Message,
		"country":       d.Country,
		"locale":        d.Locale,
	}
	for k, v := range optional {
		if v != "" {
			fields[k] = v
		}
	}
	merge(fields, d.Extra)
	if d.ID != "" {
		fields["_id"] = d.ID
	}
	return fields
}

func (d Donation) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields())
}

func (d *Donation) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}
	*d = DonationFromFields(fields)
	return nil
}

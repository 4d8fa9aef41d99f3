package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// CampaignFields lists the typed campaign fields in stored order. An update
// overwrites exactly these.
var CampaignFields = []string{
	"imageURL",
	"campaignTitle",
	"campaignType",
	"description",
	"minimumDonation",
	"deadline",
	"userEmail",
	"userName",
}

// Campaign is a fundraising effort owned by UserEmail.
//
// Extra carries posted fields other than the typed ones, plus typed fields
// whose value did not fit (a non-numeric minimumDonation, say). Extra is
// stored and returned unchanged, so a campaign round-trips as it was sent.
type Campaign struct {
	ID              string
	ImageURL        string
	CampaignTitle   string
	CampaignType    string
	Description     string
	MinimumDonation Amount
	Deadline        string
	UserEmail       string
	UserName        string
	Extra           map[string]any
}

// CampaignFromFields builds a campaign from a decoded document. "_id" is
// taken as the id when it is a string.
func CampaignFromFields(fields map[string]any) Campaign {
	r := newFieldReader(fields)
	return Campaign{
		ID:              r.str("_id"),
		ImageURL:        r.str("imageURL"),
		CampaignTitle:   r.str("campaignTitle"),
		CampaignType:    r.str("campaignType"),
		Description:     r.str("description"),
		MinimumDonation: r.amount("minimumDonation"),
		Deadline:        r.str("deadline"),
		UserEmail:       r.str("userEmail"),
		UserName:        r.str("userName"),
		Extra:           r.extra(),
	}
}

// Fields returns the campaign as a document. "_id" is present only when the
// campaign has an id.
func (c Campaign) Fields() map[string]any {
	fields := map[string]any{
		"imageURL":        c.ImageURL,
		"campaignTitle":   c.CampaignTitle,
		"campaignType":    c.CampaignType,
		"description":     c.Description,
		"minimumDonation": float64(c.MinimumDonation),
		"deadline":        c.Deadline,
		"userEmail":       c.UserEmail,
		"userName":        c.UserName,
	}
	merge(fields, c.Extra)
	if c.ID != "" {
		fields["_id"] = c.ID
	}
	return fields
}

func (c Campaign) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Fields())
}

func (c *Campaign) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}
	*c = CampaignFromFields(fields)
	return nil
}

// CampaignUpdate holds the CampaignFields values an update writes, as sent.
type CampaignUpdate map[string]any

// Update returns the values of c that an update overwrites. Absent typed
// fields are written as their zero value.
func (c Campaign) Update() CampaignUpdate {
	fields := c.Fields()
	u := make(CampaignUpdate, len(CampaignFields))
	for _, k := range CampaignFields {
		u[k] = fields[k]
	}
	return u
}

// Apply returns c with u written over it. The id is kept.
func (c Campaign) Apply(u CampaignUpdate) Campaign {
	fields := c.Fields()
	for k, v := range u {
		fields[k] = v
	}
	out := CampaignFromFields(fields)
	out.ID = c.ID
	return out
}

var deadlineLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// DeadlineDate returns the deadline's calendar date in loc.
func (c Campaign) DeadlineDate(loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(c.Deadline)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// IsRunning reports whether the campaign's deadline is today or later.
// Campaigns with an unparseable deadline are not running.
func (c Campaign) IsRunning(now time.Time) bool {
	deadline, ok := c.DeadlineDate(now.Location())
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !deadline.Before(today)
}

// FilterRunning keeps the campaigns whose deadline has not passed.
func FilterRunning(campaigns []Campaign, now time.Time) []Campaign {
	out := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if c.IsRunning(now) {
			out = append(out, c)
		}
	}
	return out
}

package handlers

import (
	"net/http"
	"time"

	"crowdfund/internal/domain"
	"crowdfund/internal/middleware"
)

// DonationsCreate records a donation. Country, locale and time are filled
// from the request when the client left them empty.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var d domain.Donation
	if !a.decode(w, r, &d) {
		return
	}
	d.ID = ""
	if d.Country == "" {
		d.Country = middleware.CountryFromContext(r.Context())
	}
	if d.Locale == "" {
		d.Locale = middleware.LocaleFromContext(r.Context())
	}
	if d.DonatedAt == "" {
		d.DonatedAt = a.now().UTC().Format(time.RFC3339)
	}
	defer timeStore(r, "donations.insert")()
	res, err := a.Donations.Create(r.Context(), &d)
	if err != nil {
		a.storeError(w, r, "donations.insert", err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	defer timeStore(r, "donations.findByDonor")()
	items, err := a.Donations.ListByDonor(r.Context(), email)
	if err != nil {
		a.storeError(w, r, "donations.findByDonor", err)
		return
	}
	a.json(w, http.StatusOK, items)
}

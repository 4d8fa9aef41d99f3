package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/domain"
	"crowdfund/internal/middleware"
)

func (a *App) CampaignCreate(w http.ResponseWriter, r *http.Request) {
	var c domain.Campaign
	if !a.decode(w, r, &c) {
		return
	}
	defer timeStore(r, "campaigns.insert")()
	res, err := a.Campaigns.Create(r.Context(), &c)
	if err != nil {
		a.storeError(w, r, "campaigns.insert", err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) CampaignList(w http.ResponseWriter, r *http.Request) {
	defer timeStore(r, "campaigns.find")()
	items, err := a.Campaigns.List(r.Context())
	if err != nil {
		a.storeError(w, r, "campaigns.find", err)
		return
	}
	a.json(w, http.StatusOK, items)
}

// CampaignGet answers a missing campaign with a 200 null body.
func (a *App) CampaignGet(w http.ResponseWriter, r *http.Request) {
	defer timeStore(r, "campaigns.findOne")()
	c, err := a.Campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		a.json(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		a.storeError(w, r, "campaigns.findOne", err)
		return
	}
	a.json(w, http.StatusOK, c)
}

// CampaignMine lists the caller's campaigns. The body email has already been
// matched against the session by middleware.MatchBodyEmail.
func (a *App) CampaignMine(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.EmailFromContext(r.Context())
	defer timeStore(r, "campaigns.findByOwner")()
	items, err := a.Campaigns.ListByOwner(r.Context(), email)
	if err != nil {
		a.storeError(w, r, "campaigns.findByOwner", err)
		return
	}
	a.json(w, http.StatusOK, items)
}

// CampaignUpdate upserts the campaign. The stored owner is not compared with
// the caller.
func (a *App) CampaignUpdate(w http.ResponseWriter, r *http.Request) {
	var body domain.Campaign
	if !a.decode(w, r, &body) {
		return
	}
	defer timeStore(r, "campaigns.upsert")()
	res, err := a.Campaigns.Upsert(r.Context(), chi.URLParam(r, "id"), body.Update())
	if err != nil {
		a.storeError(w, r, "campaigns.upsert", err)
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) CampaignDelete(w http.ResponseWriter, r *http.Request) {
	defer timeStore(r, "campaigns.delete")()
	res, err := a.Campaigns.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.storeError(w, r, "campaigns.delete", err)
		return
	}
	a.json(w, http.StatusOK, res)
}

// CampaignsRunning lists campaigns whose deadline is today or later.
func (a *App) CampaignsRunning(w http.ResponseWriter, r *http.Request) {
	stop := timeStore(r, "campaigns.find")
	items, err := a.Campaigns.List(r.Context())
	stop()
	if err != nil {
		a.storeError(w, r, "campaigns.find", err)
		return
	}
	a.json(w, http.StatusOK, domain.FilterRunning(items, a.now()))
}

func (a *App) CampaignsSorted(w http.ResponseWriter, r *http.Request) {
	defer timeStore(r, "campaigns.sorted")()
	items, err := a.Campaigns.ListSortedByMinimumDonation(r.Context())
	if err != nil {
		a.storeError(w, r, "campaigns.sorted", err)
		return
	}
	a.json(w, http.StatusOK, items)
}

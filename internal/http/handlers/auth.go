package handlers

import (
	"net/http"
)

type sessionRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	Acknowledgement bool   `json:"acknowledgement"`
	Status          string `json:"status"`
}

// IssueSession signs a token for the posted email and stores it in the
// session cookie.
func (a *App) IssueSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !a.decode(w, r, &req) {
		return
	}
	token, err := a.Tokens.Issue(req.Email)
	if err != nil {
		a.logger(r).Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	a.Cookies.Set(w, token)
	a.json(w, http.StatusOK, sessionResponse{Acknowledgement: true, Status: "cookie created"})
}

// Logout clears the session cookie.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	a.Cookies.Clear(w)
	a.json(w, http.StatusOK, sessionResponse{Acknowledgement: true, Status: "cookie deleted"})
}

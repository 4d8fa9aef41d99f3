package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"crowdfund/internal/auth"
)

type emailKey struct{}

const maxIdentityBody = 1 << 20

var (
	accessDenied    = &Rejection{Status: http.StatusUnauthorized, Message: "Access Denied"}
	invalidToken    = &Rejection{Status: http.StatusBadRequest, Message: "Invalid Token"}
	payloadTooLarge = &Rejection{Status: http.StatusRequestEntityTooLarge, Message: "Payload Too Large"}
)

// TokenVerifier checks a session token and returns the email it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate requires a valid session cookie and stores its email in the
// request context.
func Authenticate(verifier TokenVerifier) Guard {
	return func(r *http.Request) (*http.Request, *Rejection) {
		token, ok := auth.FromRequest(r)
		if !ok {
			return nil, accessDenied
		}
		email, err := verifier.Verify(token)
		if err != nil {
			return nil, invalidToken
		}
		return r.WithContext(ContextWithEmail(r.Context(), email)), nil
	}
}

// MatchBodyEmail requires the JSON body's "email" field to equal the
// authenticated email. It must run after Authenticate. The body is restored
// for the handler. Bodies over 1 MiB are rejected with 413.
//
// Only the caller is checked; the owner of the record a route touches is not.
func MatchBodyEmail() Guard {
	return func(r *http.Request) (*http.Request, *Rejection) {
		authed, ok := EmailFromContext(r.Context())
		if !ok {
			return nil, accessDenied
		}
		claimed, err := peekBodyEmail(r)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, payloadTooLarge
		}
		if err != nil || claimed == "" || claimed != authed {
			return nil, accessDenied
		}
		return r, nil
	}
}

func peekBodyEmail(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", io.EOF
	}
	raw, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxIdentityBody))
	_ = r.Body.Close()
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", err
	}
	return body.Email, nil
}

// ContextWithEmail returns ctx carrying the authenticated email.
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// EmailFromContext returns the email stored by Authenticate.
func EmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey{}).(string)
	return v, ok
}

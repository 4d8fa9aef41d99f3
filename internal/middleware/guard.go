package middleware

import (
	"encoding/json"
	"net/http"
)

// Rejection is the response a guard sends instead of calling the next handler.
type Rejection struct {
	Status  int
	Message string
}

// Guard inspects a request and either lets it through, possibly with an
// enriched request, or rejects it.
type Guard func(r *http.Request) (*http.Request, *Rejection)

// Chain runs guards in order before next. The first rejection ends the
// chain and is written as {"message": ...}.
func Chain(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, guard := range guards {
				nr, rej := guard(r)
				if rej != nil {
					writeRejection(w, rej)
					return
				}
				if nr != nil {
					r = nr
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeRejection(w http.ResponseWriter, rej *Rejection) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rej.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": rej.Message})
}

package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/damz-ai/detect-console/internal/state"
)

// Sessions ties a browser to its view state through a cookie holding a
// random session id.
type Sessions struct {
	store      state.Store
	cookieName string
}

func NewSessions(store state.Store, cookieName string) *Sessions {
	return &Sessions{
		store:      store,
		cookieName: cookieName,
	}
}

// Load returns the session id and view state of the request, issuing a new
// id when the cookie is missing or malformed.
func (s *Sessions) Load(w http.ResponseWriter, r *http.Request) (string, *state.ViewState, error) {
	id := ""
	if c, err := r.Cookie(s.cookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	st, err := s.store.Load(r.Context(), id)
	if err != nil {
		return "", nil, err
	}
	return id, st, nil
}

func (s *Sessions) Reload(ctx context.Context, id string) (*state.ViewState, error) {
	return s.store.Load(ctx, id)
}

func (s *Sessions) Save(ctx context.Context, id string, st *state.ViewState) error {
	return s.store.Save(ctx, id, st)
}

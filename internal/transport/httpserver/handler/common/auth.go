package common

import (
	"net/http"
	"time"

	"family-chores-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	AvatarURL string     `json:"avatar_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	resp := authMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}

	if h.Users != nil {
		profile, found, err := h.Users.GetProfile(r.Context(), user.ID)
		if err != nil {
			WriteFailure(w, h.log, "auth.me: get profile failed", err, "user_id", user.ID)
			return
		}
		if found {
			if resp.Name == "" && profile.Name != nil {
				resp.Name = *profile.Name
			}
			if resp.AvatarURL == "" && profile.AvatarURL != nil {
				resp.AvatarURL = *profile.AvatarURL
			}
			createdAt := profile.CreatedAt
			resp.CreatedAt = &createdAt
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

package api

import (
	"log"
	"net/http"
	"strings"

	"campusbarter/apperr"
	"campusbarter/metrics"
	"campusbarter/objects"
)

type userResponse struct {
	ID        string `json:"user_id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

func userView(user *objects.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		AvatarURL: user.AvatarURL,
	}
}

// bearerToken extracts the credential from the Authorization header
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperr.E(apperr.InvalidCredential, "missing Authorization header")
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", apperr.E(apperr.InvalidCredential, "malformed Authorization header")
	}
	return token, nil
}

// withUser wraps a handler with credential verification. The token must
// verify AND the verified email must belong to a registered user; login
// is the only endpoint that creates users.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request, *objects.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			metrics.RecordAuthFailure()
			s.writeError(w, r, err)
			return
		}

		verified, err := s.ctx.Identity.Verify(r.Context(), token)
		if err != nil {
			metrics.RecordAuthFailure()
			s.writeError(w, r, err)
			return
		}

		user, err := s.ctx.Repo.FindUserByEmail(verified.Email)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if user == nil {
			metrics.RecordAuthFailure()
			s.writeError(w, r, apperr.E(apperr.InvalidCredential, "user is not registered"))
			return
		}

		next(w, r, user)
	}
}

type loginRequest struct {
	Token string `json:"token"`
}

// handleLogin verifies an identity token and upserts the user profile.
// First login registers the user; later logins refresh nickname and avatar.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Token == "" {
		s.writeError(w, r, apperr.E(apperr.InvalidCredential, "token is required"))
		return
	}

	verified, err := s.ctx.Identity.Verify(r.Context(), req.Token)
	if err != nil {
		metrics.RecordAuthFailure()
		s.writeError(w, r, err)
		return
	}

	user, err := s.ctx.Repo.FindUserByEmail(verified.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	newUser := user == nil
	if newUser {
		user = objects.NewUser(verified.Email, verified.Name, verified.AvatarURL)
		log.Printf("[API] Registering new user %s", user.ID)
	} else {
		user.Nickname = verified.Name
		user.AvatarURL = verified.AvatarURL
	}

	if err := s.ctx.Repo.SaveUser(user); err != nil {
		s.writeError(w, r, err)
		return
	}

	metrics.RecordLogin(newUser)
	writeJSON(w, http.StatusOK, userView(user))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user *objects.User) {
	writeJSON(w, http.StatusOK, userView(user))
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"

	authApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/auth"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

const sessionName = "gateway_session"

type AuthHandler struct {
	Service        *authApplication.Service
	Sessions       *sessions.CookieStore
	OAuth          *oauth2.Config
	FrontendOrigin string
	Logger         logging.Logger
}

type SignUpRequest struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Service.SignUp(req.Nome, req.Email, req.Senha); err != nil {
		if errors.Is(err, authApplication.ErrEmailInUse) {
			writeError(w, http.StatusBadRequest, "email already in use")
			return
		}
		h.Logger.Error("signup failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "user registered"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, u, err := h.Service.Login(req.Email, req.Senha)
	if err != nil {
		if errors.Is(err, authApplication.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Logger.Error("login failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"nome": u.Name, "email": u.Email},
	})
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	session, _ := h.Sessions.Get(r, sessionName)
	session.Values["oauth_state"] = state
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start login")
		return
	}

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Sessions.Get(r, sessionName)

	if state, _ := session.Values["oauth_state"].(string); state == "" || state != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	token, err := h.OAuth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.Logger.Error("oauth exchange failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to log in with google")
		return
	}

	resp, err := h.OAuth.Client(r.Context(), token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		h.Logger.Error("userinfo fetch failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to log in with google")
		return
	}
	defer resp.Body.Close()

	var profile struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to log in with google")
		return
	}

	u, err := h.Service.UpsertGoogleUser(profile.ID, profile.Name, profile.Email)
	if err != nil {
		h.Logger.Error("google upsert failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "failed to log in with google")
		return
	}

	delete(session.Values, "oauth_state")
	session.Values["user_id"] = u.ID
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	http.Redirect(w, r, h.FrontendOrigin+"/dashboard", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Sessions.Get(r, sessionName)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	session, _ := h.Sessions.Get(r, sessionName)

	userID, _ := session.Values["user_id"].(string)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	u, err := h.Service.CurrentUser(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"nome": u.Name, "email": u.Email})
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pacelog/pacelog/internal/telemetry/tracing"
	"github.com/pacelog/pacelog/pkg"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type usersStore interface {
	Add(ctx context.Context, username, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type sessions interface {
	Login(ctx context.Context, userID string) (string, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	users     usersStore
	sessions  sessions
	jwtSecret string
	jwtTTL    time.Duration
}

func NewHandler(users usersStore, sessions sessions, jwtSecret string) *Handler {
	return &Handler{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		jwtTTL:    DefaultTTL,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func credentialsFromRequest(r *http.Request) (*credentialsRequest, error) {
	var creds credentialsRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return nil, fmt.Errorf("unmarshal json params: %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		creds = credentialsRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	creds.Username = strings.TrimSpace(creds.Username)
	return &creds, nil
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("register failed: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if len(creds.Password) < 8 {
		http.Error(w, "error, password too short", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		log.Errorf("register failed, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.users.Add(ctx, creds.Username, passwordHash)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "error, username taken", http.StatusConflict)
			return
		}
		log.Errorf("register failed, add user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new user registered: %s", user.Username)
	pkg.WriteResponseBytes(
		w, pkg.ContentType.JSON,
		[]byte(fmt.Sprintf(`{"id": "%s", "username": "%s"}`, user.ID, user.Username)),
		http.StatusCreated,
	)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	user, err := handler.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Errorf("login failed, get user: %s", err)
		}
		log.Tracef("[username] failed login attempt for user: %s", creds.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := handler.sessions.Login(ctx, user.ID)
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

// HandleToken issues a JWT for API clients that prefer stateless auth over
// a redis session. Credentials are checked the same way as for login.
func (handler *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.token")
	defer span.End()

	creds, err := credentialsFromRequest(r)
	if err != nil {
		log.Errorf("token request failed: %s", err)
		http.Error(w, "token request failed", http.StatusBadRequest)
		return
	}

	user, err := handler.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		log.Tracef("[username] failed token request for user: %s", creds.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed token request for user: %s", creds.Username)
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}

	token, err := SignJWT(handler.jwtSecret, user.ID, handler.jwtTTL)
	if err != nil {
		log.Errorf("token request failed, sign: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get("X-PACELOG-TOKEN")
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.sessions.Logout(ctx, authToken); err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	log.Trace("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}

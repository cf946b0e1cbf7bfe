// Package devserver is a self-contained backend for local development and
// end-to-end testing of the client. It keeps accounts in memory, hashes
// passwords with bcrypt and issues HS256 JWTs as bearer tokens.
package devserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

const resetTokenTTL = 15 * time.Minute

type account struct {
	ID        string
	FirstName string
	LastName  string
	Username  string
	Email     string
	Profile   api.AccountType
	Status    api.AccountStatus
	Hash      []byte
}

type resetEntry struct {
	Email   string
	Expires time.Time
}

// Server holds the in-memory state. All maps are keyed case-insensitively
// where the platform treats the value as case-insensitive (e-mails and
// usernames).
type Server struct {
	log      logging.Logger
	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	accounts map[string]*account   // lowercase email -> account
	resets   map[string]resetEntry // reset token -> entry
}

func NewServer(log logging.Logger, secret []byte) *Server {
	return &Server{
		log:      log,
		secret:   secret,
		tokenTTL: 24 * time.Hour,
		accounts: make(map[string]*account),
		resets:   make(map[string]resetEntry),
	}
}

// Router wires the public endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/auth", s.handleLogin)
	r.Post("/auth/reset-password", s.handleResetInitiate)
	r.Post("/auth/check-code-reset-password", s.handleResetValidate)
	r.Post("/auth/change-password", s.handleResetComplete)

	r.Get("/user/check-username", s.handleCheckUsername)
	r.Get("/user/check-email", s.handleCheckEmail)
	r.Post("/user", s.handleSignup)

	return r
}

func (s *Server) findByEmail(email string) *account {
	return s.accounts[strings.ToLower(email)]
}

func (s *Server) findByUsername(username string) *account {
	username = strings.ToLower(username)
	for _, acc := range s.accounts {
		if strings.ToLower(acc.Username) == username {
			return acc
		}
	}
	return nil
}

// issueToken signs an HS256 JWT for the account.
func (s *Server) issueToken(acc *account, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   acc.ID,
		"email": acc.Email,
		"name":  acc.FirstName + " " + acc.LastName,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	s.mu.Lock()
	acc := s.findByEmail(creds.Email)
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.Hash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
		return
	}

	token, err := s.issueToken(acc, time.Now())
	if err != nil {
		s.log.Error(r.Context(), "token signing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		User: api.User{
			ID:        acc.ID,
			Name:      acc.FirstName + " " + acc.LastName,
			FirstName: acc.FirstName,
			LastName:  acc.LastName,
			Email:     acc.Email,
		},
		Token: token,
	})
}

func (s *Server) handleResetInitiate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	acc := s.findByEmail(body.Email)
	if acc != nil {
		token := uuid.NewString()
		s.resets[token] = resetEntry{
			Email:   strings.ToLower(acc.Email),
			Expires: time.Now().Add(resetTokenTTL),
		}
		// Printed instead of mailed; this backend has no outbox.
		s.log.Info(r.Context(), "password reset requested", "email", acc.Email, "token", token)
	}
	s.mu.Unlock()

	// Unknown e-mails get the same answer so the endpoint does not leak
	// which accounts exist.
	writeJSON(w, http.StatusOK, api.ResetResult{
		Success: true,
		Message: "Se o e-mail estiver cadastrado, você receberá um link de redefinição.",
		Email:   body.Email,
	})
}

func (s *Server) handleResetValidate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	s.mu.Lock()
	entry, ok := s.resets[body.Token]
	s.mu.Unlock()

	if !ok || time.Now().After(entry.Expires) {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Token inválido ou expirado")
		return
	}

	writeJSON(w, http.StatusOK, api.ResetResult{Success: true, Email: entry.Email})
}

func (s *Server) handleResetComplete(w http.ResponseWriter, r *http.Request) {
	var req api.PasswordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Password == "" || req.Password != req.PasswordConfirmation {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Senhas não coincidem")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Senha deve ter no mínimo 8 caracteres")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.resets[req.Token]
	if !ok || time.Now().After(entry.Expires) {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Token inválido ou expirado")
		return
	}

	acc := s.accounts[entry.Email]
	if acc == nil {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Token inválido ou expirado")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	acc.Hash = hash

	// Tokens are single use.
	delete(s.resets, req.Token)

	writeJSON(w, http.StatusOK, api.ResetResult{
		Success: true,
		Message: "Senha redefinida com sucesso",
		Email:   acc.Email,
	})
}

func (s *Server) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	s.mu.Lock()
	exists := s.findByUsername(username) != nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.CheckResponse{Exists: exists})
}

func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	s.mu.Lock()
	exists := s.findByEmail(email) != nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, api.CheckResponse{Exists: exists})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Dados de cadastro incompletos")
		return
	}
	if req.Profile != api.AccountInfluencer && req.Profile != api.AccountAdvertiser {
		writeError(w, http.StatusBadRequest, "VALIDATION", "Selecione um tipo de conta")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmail(req.Email) != nil {
		writeError(w, http.StatusConflict, "CONFLICT", "E-mail já está em uso")
		return
	}
	if s.findByUsername(req.Username) != nil {
		writeError(w, http.StatusConflict, "CONFLICT", "Nome de usuário já está em uso")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	acc := &account{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Profile:   req.Profile,
		Status:    api.StatusActive,
		Hash:      hash,
	}
	s.accounts[strings.ToLower(req.Email)] = acc

	writeJSON(w, http.StatusCreated, api.AccountSummary{
		ID:        acc.ID,
		Owner:     true,
		Status:    acc.Status,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Email:     acc.Email,
		Profile:   acc.Profile,
		Username:  acc.Username,
	})
}

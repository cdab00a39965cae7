// Package stubserver is an in-memory stand-in for the marketplace backend
// and the identity provider's token endpoint. Tests and local development
// run against it; it implements the same wire contract the production
// services expose, including the one-decision rule on artist requests.
package stubserver

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/artmarket/marketplace-client/internal/domain"
)

type Config struct {
	Realm        string
	ClientID     string
	ClientSecret string
	TokenTTL     time.Duration
	JWTSecret    []byte
}

type Server struct {
	cfg    Config
	store  *store
	router chi.Router
}

func New(cfg Config) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if len(cfg.JWTSecret) == 0 {
		secret := make([]byte, 32)
		_, _ = rand.Read(secret)
		cfg.JWTSecret = secret
	}

	s := &Server{cfg: cfg, store: newStore()}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)

	r.Post("/realms/{realm}/protocol/openid-connect/token", s.tokenEndpoint)

	r.Route("/api", func(r chi.Router) {
		r.Post("/pre-register", s.preRegister)
		r.Post("/verify-email-code", s.verifyEmailCode)
		r.Get("/verify-email", s.verifyEmailLink)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/users/me", s.me)
			r.Post("/select-role", s.selectRole)
			r.Post("/upload-artist-docs", s.uploadArtistDocs)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.adminMiddleware)
				r.Get("/artist-requests/pending", s.pendingRequests)
				r.Post("/artist-requests/{request_id}/review", s.reviewRequest)
			})
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SeedAdmin provisions an administrator account. Admin is never reachable
// through the self-service lifecycle, so the stub mirrors the out-of-band
// provisioning the production realm uses.
func (s *Server) SeedAdmin(email, name, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.store.mutate(func() {
		acct := &account{
			Subject:       uuid.NewString(),
			Email:         email,
			Name:          name,
			PasswordHash:  hash,
			EmailVerified: true,
			Role:          domain.RoleAdmin,
			Status:        domain.StatusVerified,
		}
		s.store.byEmail[email] = acct
		s.store.bySub[acct.Subject] = acct
	})
	return nil
}

// VerificationCode exposes the emailed code for tests and the dev loop,
// where no mail actually goes out.
func (s *Server) VerificationCode(email string) (string, bool) {
	acct, ok := s.store.accountByEmail(email)
	if !ok {
		return "", false
	}
	return acct.VerifyCode, true
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		stubLogger().Info("request completed",
			"operation", "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func stubLogger() *slog.Logger {
	return slog.Default().With("component", "stubserver")
}

// randomDigits returns a numeric code of the given size for the emailed
// verification step.
func randomDigits(size int) string {
	raw := make([]byte, size)
	_, _ = rand.Read(raw)
	code := ""
	for _, b := range raw {
		code += fmt.Sprintf("%d", int(b)%10)
	}
	return code
}

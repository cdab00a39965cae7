package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/artmarket/marketplace-client/internal/domain"
)

type contextKey string

const accountContextKey contextKey = "stubserver.account"

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// tokenEndpoint implements the password grant the way the realm's
// openid-connect endpoint does. Tokens are issued even before email
// verification; the backend decides what the holder may do with them.
func (s *Server) tokenEndpoint(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if chi.URLParam(r, "realm") != s.cfg.Realm {
		writeError(w, http.StatusNotFound, "realm not found")
		return
	}
	if r.PostForm.Get("grant_type") != "password" {
		writeError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}
	if r.PostForm.Get("client_id") != s.cfg.ClientID {
		writeError(w, http.StatusUnauthorized, "invalid_client")
		return
	}
	if s.cfg.ClientSecret != "" && r.PostForm.Get("client_secret") != s.cfg.ClientSecret {
		writeError(w, http.StatusUnauthorized, "invalid_client")
		return
	}

	acct, ok := s.store.accountByEmail(r.PostForm.Get("username"))
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_grant")
		return
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(r.PostForm.Get("password"))); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_grant")
		return
	}

	access, err := s.issueAccessToken(acct, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"refresh_token": uuid.NewString(),
		"expires_in":    int(s.cfg.TokenTTL.Seconds()),
		"token_type":    "Bearer",
	})
}

func (s *Server) preRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, name and password are required")
		return
	}

	acct, err := s.store.createAccount(req.Email, req.Name, req.Password, randomDigits(6))
	if err != nil {
		writeError(w, http.StatusBadRequest, "an account with this email already exists")
		return
	}

	stubLogger().Info("account pre-registered", "operation", "pre_register", "sub", acct.Subject)
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "registration received, check your email for the verification code",
	})
}

func (s *Server) verifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	s.completeVerification(w, req.Email, req.Code)
}

// verifyEmailLink is the emailed-link variant of code verification. The
// link carries the same one-time code as a query parameter.
func (s *Server) verifyEmailLink(w http.ResponseWriter, r *http.Request) {
	s.completeVerification(w, r.URL.Query().Get("email"), r.URL.Query().Get("token"))
}

func (s *Server) completeVerification(w http.ResponseWriter, email, code string) {
	acct, ok := s.store.accountByEmail(email)
	if !ok || code == "" || acct.VerifyCode != code {
		writeError(w, http.StatusBadRequest, "invalid verification code")
		return
	}
	s.store.mutate(func() {
		acct.EmailVerified = true
		acct.VerifyCode = ""
		if acct.Status == domain.StatusNone {
			acct.Status = domain.StatusPendingRoleSelection
		}
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"sub":              acct.Subject,
		"email":            acct.Email,
		"name":             acct.Name,
		"avatar_url":       acct.AvatarURL,
		"role":             string(acct.Role),
		"is_verified":      acct.EmailVerified,
		"status":           string(acct.Status),
		"rejection_reason": acct.RejectionReason,
	})
}

// selectRole is the single role commitment point. Buyers become active
// immediately; artists move into the verification queue.
func (s *Server) selectRole(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	role := domain.Role(req.Role)
	if role != domain.RoleBuyer && role != domain.RoleArtist {
		writeError(w, http.StatusBadRequest, "role must be buyer or artist")
		return
	}
	if !acct.EmailVerified || acct.Status != domain.StatusPendingRoleSelection {
		writeError(w, http.StatusBadRequest, "role already selected or email not verified")
		return
	}

	s.store.mutate(func() {
		acct.Role = role
		if role == domain.RoleBuyer {
			acct.Status = domain.StatusVerified
		} else {
			acct.Status = domain.StatusPendingVerification
		}
	})

	stubLogger().Info("role selected", "operation", "select_role", "sub", acct.Subject, "role", string(role))
	writeJSON(w, http.StatusOK, map[string]string{"message": "role selected"})
}

func (s *Server) uploadArtistDocs(w http.ResponseWriter, r *http.Request) {
	acct := accountFromContext(r.Context())

	if acct.Role != domain.RoleArtist || acct.Status != domain.StatusPendingVerification {
		writeError(w, http.StatusBadRequest, "account is not awaiting artist verification")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body")
		return
	}

	idDoc, err := receiveDocument(r, "idDocument")
	if err != nil {
		writeError(w, http.StatusBadRequest, "idDocument is required")
		return
	}
	proofOfWork, err := receiveDocument(r, "proofOfWork")
	if err != nil {
		writeError(w, http.StatusBadRequest, "proofOfWork is required")
		return
	}
	// The selfie part is optional.
	selfie, _ := receiveDocument(r, "selfie")

	req := s.store.createRequest(acct, idDoc, proofOfWork, selfie)

	stubLogger().Info("artist documents received",
		"operation", "upload_artist_docs",
		"sub", acct.Subject,
		"request_id", req.RequestID,
	)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":    "documents submitted for review",
		"request_id": req.RequestID,
	})
}

// receiveDocument drains one multipart file part and returns the storage
// path a real backend would record. The stub keeps paths, not bytes.
func receiveDocument(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	return "uploads/" + field + "/" + header.Filename, nil
}

func (s *Server) pendingRequests(w http.ResponseWriter, r *http.Request) {
	pending := s.store.pendingRequests()

	items := make([]map[string]any, 0, len(pending))
	for _, req := range pending {
		items = append(items, map[string]any{
			"request_id":         req.RequestID,
			"sub":                req.Subject,
			"name":               req.Name,
			"email":              req.Email,
			"requested_at":       req.SubmittedAt,
			"id_document_path":   req.IDDocumentPath,
			"proof_of_work_path": req.ProofOfWorkPath,
			"selfie_path":        req.SelfiePath,
			"status":             string(req.Decision),
			"rejection_reason":   req.RejectionReason,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) reviewRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status          string `json:"status"`
		RejectionReason string `json:"rejection_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	decision := domain.ReviewDecision(req.Status)
	if decision != domain.DecisionApproved && decision != domain.DecisionRejected {
		writeError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}
	if decision == domain.DecisionRejected && strings.TrimSpace(req.RejectionReason) == "" {
		writeError(w, http.StatusBadRequest, "rejection requires a reason")
		return
	}

	requestID := chi.URLParam(r, "request_id")
	err := s.store.review(requestID, decision, req.RejectionReason)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "artist request not found")
		return
	case errors.Is(err, domain.ErrAlreadyReviewed):
		writeError(w, http.StatusConflict, "artist request already reviewed")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "review failed")
		return
	}

	stubLogger().Info("artist request reviewed",
		"operation", "review_request",
		"request_id", requestID,
		"decision", string(decision),
	)
	writeJSON(w, http.StatusOK, map[string]string{"message": "review recorded"})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		sub, err := s.subjectFromToken(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		acct, ok := s.store.accountBySubject(sub)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unknown subject")
			return
		}
		ctx := context.WithValue(r.Context(), accountContextKey, acct)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accountFromContext(r.Context()).Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func accountFromContext(ctx context.Context) *account {
	return ctx.Value(accountContextKey).(*account)
}

package stubserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/artmarket/marketplace-client/internal/domain"
)

// account is the stub's durable record for one user. Fields mirror what the
// production backend keeps: credentials live with the identity provider in
// production, but the stub plays both parties.
type account struct {
	Subject         string
	Email           string
	Name            string
	AvatarURL       string
	PasswordHash    []byte
	EmailVerified   bool
	Role            domain.Role
	Status          domain.VerificationStatus
	RejectionReason string
	VerifyCode      string
}

// store holds all stub state behind one mutex. Request records are never
// deleted; they double as the audit trail the review workflow relies on.
type store struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	bySub    map[string]*account
	requests map[string]*domain.ArtistRequest
}

func newStore() *store {
	return &store{
		byEmail:  make(map[string]*account),
		bySub:    make(map[string]*account),
		requests: make(map[string]*domain.ArtistRequest),
	}
}

func (s *store) createAccount(email, name, password string, verifyCode string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, fmt.Errorf("account already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	acct := &account{
		Subject:      uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Status:       domain.StatusNone,
		VerifyCode:   verifyCode,
	}
	s.byEmail[email] = acct
	s.bySub[acct.Subject] = acct
	return acct, nil
}

func (s *store) accountByEmail(email string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byEmail[email]
	return acct, ok
}

func (s *store) accountBySubject(sub string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.bySub[sub]
	return acct, ok
}

// mutate runs fn with the store lock held so account transitions stay
// atomic with respect to concurrent requests.
func (s *store) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *store) createRequest(acct *account, idDoc, proofOfWork, selfie string) *domain.ArtistRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &domain.ArtistRequest{
		RequestID:       uuid.NewString(),
		Subject:         acct.Subject,
		Name:            acct.Name,
		Email:           acct.Email,
		IDDocumentPath:  idDoc,
		ProofOfWorkPath: proofOfWork,
		SelfiePath:      selfie,
		SubmittedAt:     time.Now().UTC(),
		Decision:        domain.DecisionPending,
	}
	s.requests[req.RequestID] = req
	return req
}

func (s *store) pendingRequests() []domain.ArtistRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]domain.ArtistRequest, 0)
	for _, req := range s.requests {
		if req.Decision == domain.DecisionPending {
			pending = append(pending, *req)
		}
	}
	return pending
}

// review applies the one-shot administrator decision. The second attempt
// fails with domain.ErrAlreadyReviewed and leaves the first unchanged.
func (s *store) review(requestID string, decision domain.ReviewDecision, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[requestID]
	if !ok {
		return domain.ErrNotFound
	}
	if req.Decision != domain.DecisionPending {
		return domain.ErrAlreadyReviewed
	}

	acct, ok := s.bySub[req.Subject]
	if !ok {
		return domain.ErrNotFound
	}

	req.Decision = decision
	switch decision {
	case domain.DecisionApproved:
		acct.Role = domain.RoleArtist
		acct.Status = domain.StatusVerified
		acct.RejectionReason = ""
	case domain.DecisionRejected:
		req.RejectionReason = reason
		acct.Status = domain.StatusRejected
		acct.RejectionReason = reason
	}
	return nil
}

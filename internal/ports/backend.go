package ports

import (
	"context"

	"github.com/artmarket/marketplace-client/internal/domain"
)

// PreRegistration is the payload of the backend pre-registration step.
// No tokens are issued for it: an account only becomes a session once its
// email is confirmed and login succeeds.
type PreRegistration struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"required"`
	Password     string `json:"password" validate:"required"`
	CaptchaToken string `json:"recaptchaToken" validate:"omitempty"`
}

// Document is one uploaded verification file.
type Document struct {
	Filename string
	Content  []byte
}

// ArtistDocs is the multipart payload of the artist verification step.
// Selfie is optional; the other two are required by the backend.
type ArtistDocs struct {
	IDDocument  Document
	ProofOfWork Document
	Selfie      *Document
}

// BackendGateway is the client of the marketplace REST API. All methods map
// transport failures onto the domain taxonomy: 401 becomes
// domain.ErrUnauthorized (session-terminal), network errors and 5xx become
// domain.ErrUnreachable (session preserved, retry-safe).
type BackendGateway interface {
	// FetchMe resolves the authoritative account record. It is the single
	// point deciding between "has a token" and "is a usable account".
	FetchMe(ctx context.Context, accessToken string) (domain.Account, error)

	PreRegister(ctx context.Context, reg PreRegistration) (message string, err error)
	VerifyEmailCode(ctx context.Context, email, code string) error
	SelectRole(ctx context.Context, accessToken string, role domain.Role) error
	UploadArtistDocs(ctx context.Context, accessToken string, docs ArtistDocs) error

	// Admin review console surface.
	PendingArtistRequests(ctx context.Context, accessToken string) ([]domain.ArtistRequest, error)
	ReviewArtistRequest(ctx context.Context, accessToken, requestID string, decision domain.ReviewDecision, rejectionReason string) error
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

// RegistrationAck is the "verify your email" signal returned by Register.
// No session exists yet at this point.
type RegistrationAck struct {
	Message  string
	NextStep string
}

const nextStepVerifyEmail = "verify-email"

// Register runs backend pre-registration. It deliberately does not obtain a
// session: an account only becomes one once its email is confirmed and
// login succeeds.
func (c *Controller) Register(ctx context.Context, reg ports.PreRegistration) (RegistrationAck, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Name = strings.TrimSpace(reg.Name)
	if err := c.validate.Struct(reg); err != nil {
		return RegistrationAck{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	message, err := c.backend.PreRegister(ctx, reg)
	if err != nil {
		return RegistrationAck{}, err
	}
	return RegistrationAck{Message: message, NextStep: nextStepVerifyEmail}, nil
}

// VerifyEmail submits the emailed verification code. It mutates backend
// state only; the new stage is observed on the next login or refresh.
func (c *Controller) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", domain.ErrInvalidInput)
	}
	return c.backend.VerifyEmailCode(ctx, email, code)
}

// SelectRole posts the buyer/artist decision and re-fetches the profile.
// Valid only from awaiting_role: repeating it there is safe, repeating it
// after the transition is rejected with ErrInvalidState, not ignored.
func (c *Controller) SelectRole(ctx context.Context, role domain.Role) (Snapshot, error) {
	if role != domain.RoleBuyer && role != domain.RoleArtist {
		return c.Snapshot(), fmt.Errorf("%w: role must be buyer or artist", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stage := domain.DeriveStage(c.access != "", c.account); !c.resolved || stage != domain.StageAwaitingRole {
		return c.snapshotLocked(), fmt.Errorf("%w: select role requires stage %s", domain.ErrInvalidState, domain.StageAwaitingRole)
	}

	if err := c.backend.SelectRole(ctx, c.access, role); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.purgeLocked()
		}
		return c.snapshotLocked(), err
	}
	return c.reconcileLocked(ctx)
}

// SubmitArtistDocs uploads the verification documents and re-fetches the
// profile. Valid only once the artist role is chosen and review is still
// open. The optional precheck runs before any bytes leave the client.
func (c *Controller) SubmitArtistDocs(ctx context.Context, docs ports.ArtistDocs) (Snapshot, error) {
	if len(docs.IDDocument.Content) == 0 || len(docs.ProofOfWork.Content) == 0 {
		return c.Snapshot(), fmt.Errorf("%w: id document and proof of work are required", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stage := domain.DeriveStage(c.access != "", c.account); !c.resolved || stage != domain.StageAwaitingArtistReview {
		return c.snapshotLocked(), fmt.Errorf("%w: document upload requires stage %s", domain.ErrInvalidState, domain.StageAwaitingArtistReview)
	}

	if c.precheck != nil {
		if err := c.precheck.Check(docs); err != nil {
			return c.snapshotLocked(), fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	if err := c.backend.UploadArtistDocs(ctx, c.access, docs); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.purgeLocked()
		}
		return c.snapshotLocked(), err
	}
	return c.reconcileLocked(ctx)
}

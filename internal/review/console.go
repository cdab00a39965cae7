// Package review is the client side of the artist verification workflow:
// listing pending requests and recording the one-shot administrator
// decision. It is external to the per-user state machine but produces one
// of its transition events; the affected user only observes the outcome on
// their next refresh.
package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
	"github.com/artmarket/marketplace-client/internal/session"
)

type Console struct {
	ctrl    *session.Controller
	backend ports.BackendGateway
}

func NewConsole(ctrl *session.Controller, backend ports.BackendGateway) *Console {
	return &Console{ctrl: ctrl, backend: backend}
}

// Pending lists artist requests awaiting a decision.
func (c *Console) Pending(ctx context.Context) ([]domain.ArtistRequest, error) {
	token, err := c.adminToken()
	if err != nil {
		return nil, err
	}
	return c.backend.PendingArtistRequests(ctx, token)
}

// Approve records the approving decision for one request. A second decision
// on the same request fails with domain.ErrAlreadyReviewed and leaves the
// first one unchanged.
func (c *Console) Approve(ctx context.Context, requestID string) error {
	token, err := c.adminToken()
	if err != nil {
		return err
	}
	return c.backend.ReviewArtistRequest(ctx, token, requestID, domain.DecisionApproved, "")
}

// Reject records the rejecting decision. The reason is validated before any
// backend mutation occurs.
func (c *Console) Reject(ctx context.Context, requestID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	token, err := c.adminToken()
	if err != nil {
		return err
	}
	return c.backend.ReviewArtistRequest(ctx, token, requestID, domain.DecisionRejected, reason)
}

// adminToken gates the console on the active_admin stage. The route guard
// should make any other stage unreachable here.
func (c *Console) adminToken() (string, error) {
	snap := c.ctrl.Snapshot()
	if snap.Stage != domain.StageActiveAdmin {
		return "", fmt.Errorf("%w: admin console requires stage %s", domain.ErrInvalidState, domain.StageActiveAdmin)
	}
	return c.ctrl.AccessToken(), nil
}

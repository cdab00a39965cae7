package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/artmarket/marketplace-client/internal/domain"
)

type artistRequestItem struct {
	RequestID       string    `json:"request_id"`
	Subject         string    `json:"sub"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	RequestedAt     time.Time `json:"requested_at"`
	IDDocumentPath  string    `json:"id_document_path"`
	ProofOfWorkPath string    `json:"proof_of_work_path"`
	SelfiePath      string    `json:"selfie_path"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason"`
}

func (g *Gateway) PendingArtistRequests(ctx context.Context, accessToken string) ([]domain.ArtistRequest, error) {
	var items []artistRequestItem
	if err := g.doJSON(ctx, http.MethodGet, "/api/admin/artist-requests/pending", accessToken, nil, &items); err != nil {
		return nil, err
	}

	requests := make([]domain.ArtistRequest, 0, len(items))
	for _, item := range items {
		decision := domain.ReviewDecision(item.Status)
		if decision == "" {
			decision = domain.DecisionPending
		}
		requests = append(requests, domain.ArtistRequest{
			RequestID:       item.RequestID,
			Subject:         item.Subject,
			Name:            item.Name,
			Email:           item.Email,
			SubmittedAt:     item.RequestedAt,
			IDDocumentPath:  item.IDDocumentPath,
			ProofOfWorkPath: item.ProofOfWorkPath,
			SelfiePath:      item.SelfiePath,
			Decision:        decision,
			RejectionReason: item.RejectionReason,
		})
	}
	return requests, nil
}

func (g *Gateway) ReviewArtistRequest(ctx context.Context, accessToken, requestID string, decision domain.ReviewDecision, rejectionReason string) error {
	body := map[string]any{"status": string(decision)}
	if rejectionReason != "" {
		body["rejection_reason"] = rejectionReason
	}
	path := "/api/admin/artist-requests/" + url.PathEscape(requestID) + "/review"
	return g.doJSON(ctx, http.MethodPost, path, accessToken, body, nil)
}

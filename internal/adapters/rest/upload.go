package rest

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

// UploadArtistDocs submits the verification documents as multipart form
// data under the field names the backend review pipeline expects.
func (g *Gateway) UploadArtistDocs(ctx context.Context, accessToken string, docs ports.ArtistDocs) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writeDocument(writer, "idDocument", docs.IDDocument); err != nil {
		return err
	}
	if err := writeDocument(writer, "proofOfWork", docs.ProofOfWork); err != nil {
		return err
	}
	if docs.Selfie != nil {
		if err := writeDocument(writer, "selfie", *docs.Selfie); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/upload-artist-docs", &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	return mapStatus(resp)
}

func writeDocument(writer *multipart.Writer, field string, doc ports.Document) error {
	part, err := writer.CreateFormFile(field, doc.Filename)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(doc.Content); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}

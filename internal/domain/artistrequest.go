package domain

import "time"

// ReviewDecision is the terminal state of one artist verification request.
type ReviewDecision string

const (
	DecisionPending  ReviewDecision = "pending"
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
)

// ArtistRequest is the audit record of one artist verification submission.
// The backend owns it; the client only submits and reads. It is mutated
// exactly once by an administrator decision and never deleted.
type ArtistRequest struct {
	RequestID       string
	Subject         string
	Name            string
	Email           string
	IDDocumentPath  string
	ProofOfWorkPath string
	SelfiePath      string
	SubmittedAt     time.Time
	Decision        ReviewDecision
	RejectionReason string
}

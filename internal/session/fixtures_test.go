package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

type fakeTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	saved   int
	cleared int
	saveErr error
}

func (f *fakeTokenStore) Save(access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.access, f.refresh = access, refresh
	f.saved++
	return nil
}

func (f *fakeTokenStore) Load() (string, string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.access == "" {
		return "", "", false, nil
	}
	return f.access, f.refresh, true, nil
}

func (f *fakeTokenStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access, f.refresh = "", ""
	f.cleared++
	return nil
}

type fakeProvider struct {
	pair ports.TokenPair
	err  error
}

func (f *fakeProvider) PasswordLogin(ctx context.Context, email, password string) (ports.TokenPair, error) {
	if f.err != nil {
		return ports.TokenPair{}, f.err
	}
	return f.pair, nil
}

func (f *fakeProvider) DecodeExpiry(accessToken string) (time.Time, error) {
	return time.Now().Add(time.Hour), nil
}

// fakeBackend serves one account record and lets tests flip error modes
// per-call. Role selection and document upload mutate the record the way
// the real backend does, so reconciliation observes the transitions.
type fakeBackend struct {
	mu       sync.Mutex
	account  domain.Account
	fetchErr error
	callErr  error

	selectRoleCalls int
	uploadCalls     int
	preRegisters    []ports.PreRegistration
}

func (f *fakeBackend) FetchMe(ctx context.Context, accessToken string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return domain.Account{}, f.fetchErr
	}
	return f.account, nil
}

func (f *fakeBackend) PreRegister(ctx context.Context, reg ports.PreRegistration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callErr != nil {
		return "", f.callErr
	}
	f.preRegisters = append(f.preRegisters, reg)
	return "check your email", nil
}

func (f *fakeBackend) VerifyEmailCode(ctx context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callErr
}

func (f *fakeBackend) SelectRole(ctx context.Context, accessToken string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callErr != nil {
		return f.callErr
	}
	f.selectRoleCalls++
	f.account.Role = role
	if role == domain.RoleBuyer {
		f.account.Status = domain.StatusVerified
	} else {
		f.account.Status = domain.StatusPendingVerification
	}
	return nil
}

func (f *fakeBackend) UploadArtistDocs(ctx context.Context, accessToken string, docs ports.ArtistDocs) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.callErr != nil {
		return f.callErr
	}
	f.uploadCalls++
	return nil
}

func (f *fakeBackend) PendingArtistRequests(ctx context.Context, accessToken string) ([]domain.ArtistRequest, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (f *fakeBackend) ReviewArtistRequest(ctx context.Context, accessToken, requestID string, decision domain.ReviewDecision, rejectionReason string) error {
	return fmt.Errorf("not implemented in fake")
}

func (f *fakeBackend) setAccount(account domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.account = account
}

func (f *fakeBackend) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

type fixture struct {
	tokens   *fakeTokenStore
	provider *fakeProvider
	backend  *fakeBackend
	ctrl     *Controller
}

func newFixture() *fixture {
	tokens := &fakeTokenStore{}
	provider := &fakeProvider{pair: ports.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 3600}}
	backend := &fakeBackend{}
	return &fixture{
		tokens:   tokens,
		provider: provider,
		backend:  backend,
		ctrl: NewController(Dependencies{
			Tokens:   tokens,
			Provider: provider,
			Backend:  backend,
		}),
	}
}

func verifiedAccount(role domain.Role, status domain.VerificationStatus) domain.Account {
	return domain.Account{
		Subject:       "sub-1",
		Email:         "user@example.com",
		Name:          "User",
		Role:          role,
		EmailVerified: true,
		Status:        status,
	}
}

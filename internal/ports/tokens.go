package ports

// TokenPair carries the opaque bearer credentials issued by the provider.
// ExpiresIn is seconds as reported by the token endpoint; zero when unknown.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenStore persists the current token pair across process restarts.
// Clear must run to completion before a new login's Save so tokens from
// different accounts are never mixed. No network or validation logic here.
type TokenStore interface {
	Save(access, refresh string) error
	Load() (access, refresh string, ok bool, err error)
	Clear() error
}

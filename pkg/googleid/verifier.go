package googleid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// DefaultCertsURL serves Google's current signing keys as a JWK set.
const DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var validIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

var (
	// ErrInvalidToken marks credentials that could not be decoded or verified.
	ErrInvalidToken = errors.New("invalid google id token")
	// ErrKeysUnavailable marks a failure to load the signing keys.
	ErrKeysUnavailable = errors.New("google signing keys unavailable")
)

// Claims is the subset of a Google ID token the service reads.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// Options configures a Verifier.
type Options struct {
	// ClientID is the expected audience. Empty disables signature checks.
	ClientID        string
	VerifySignature bool
	// CertsURL replaces DefaultCertsURL when keys are served from a mirror.
	CertsURL string
	// RefreshInterval is the minimum time between key fetches.
	RefreshInterval time.Duration
	HTTPClient      *http.Client
}

// Verifier decodes Google ID credentials and, when configured, validates
// them with idtoken: RS256 signature against Google's cached certificates,
// audience and expiry. The issuer is checked here.
type Verifier struct {
	opts Options

	client    *http.Client
	once      sync.Once
	validator *idtoken.Validator
	initErr   error
}

// NewVerifier builds a verifier.
func NewVerifier(opts Options) *Verifier {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	v := &Verifier{opts: opts}
	v.client, v.initErr = newCertsClient(opts.HTTPClient, opts.CertsURL, opts.RefreshInterval)
	return v
}

// Verifies reports whether signatures are checked.
func (v *Verifier) Verifies() bool {
	return v.opts.VerifySignature && strings.TrimSpace(v.opts.ClientID) != ""
}

// Verify returns the claims of credential.
func (v *Verifier) Verify(ctx context.Context, credential string) (*Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, fmt.Errorf("%w: empty credential", ErrInvalidToken)
	}
	if !v.Verifies() {
		return v.decode(credential)
	}

	validator, err := v.idtokenValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
	}
	payload, err := validator.Validate(ctx, credential, v.opts.ClientID)
	if err != nil {
		if keysUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", ErrKeysUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !validIssuer(payload.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, payload.Issuer)
	}

	claims := claimsFromPayload(payload)
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	return claims, nil
}

func (v *Verifier) idtokenValidator(ctx context.Context) (*idtoken.Validator, error) {
	v.once.Do(func() {
		if v.initErr != nil {
			return
		}
		v.validator, v.initErr = idtoken.NewValidator(context.WithoutCancel(ctx), option.WithHTTPClient(v.client))
	})
	return v.validator, v.initErr
}

func (v *Verifier) decode(credential string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	return claims, nil
}

func claimsFromPayload(p *idtoken.Payload) *Claims {
	str := func(name string) string {
		s, _ := p.Claims[name].(string)
		return s
	}
	verified, _ := p.Claims["email_verified"].(bool)
	return &Claims{
		Email:         str("email"),
		EmailVerified: verified,
		Name:          str("name"),
		Picture:       str("picture"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Audience:  jwt.ClaimStrings{p.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Unix(p.Expires, 0)),
			IssuedAt:  jwt.NewNumericDate(time.Unix(p.IssuedAt, 0)),
		},
	}
}

func validIssuer(iss string) bool {
	for _, want := range validIssuers {
		if iss == want {
			return true
		}
	}
	return false
}

// keysUnavailable separates certificate fetch failures from bad tokens.
func keysUnavailable(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) || strings.Contains(err.Error(), "unable to retrieve cert")
}

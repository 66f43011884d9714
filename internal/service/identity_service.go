package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/riseresearch/rise-api/internal/dto"
	"github.com/riseresearch/rise-api/internal/models"
	"github.com/riseresearch/rise-api/pkg/cache"
	"github.com/riseresearch/rise-api/pkg/config"
	appErrors "github.com/riseresearch/rise-api/pkg/errors"
	"github.com/riseresearch/rise-api/pkg/googleid"
	"github.com/riseresearch/rise-api/pkg/jobs"
)

const notRegisteredMessage = "You are not registered in our system. Please contact support."

type contactDirectory interface {
	HasEmail(ctx context.Context, table, email string) (bool, error)
	ListEmails(ctx context.Context, table string) ([]string, error)
}

type tokenVerifier interface {
	Verify(ctx context.Context, credential string) (*googleid.Claims, error)
}

// IdentityServiceConfig wires the identity resolver.
type IdentityServiceConfig struct {
	RoleTables   []config.RoleTable
	RoleCacheTTL time.Duration
}

// IdentityService resolves Google credentials to registered accounts.
type IdentityService struct {
	verifier  tokenVerifier
	contacts  contactDirectory
	cache     *CacheService
	pool      *jobs.Pool
	cfg       IdentityServiceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIdentityService builds the service.
func NewIdentityService(verifier tokenVerifier, contacts contactDirectory, cacheSvc *CacheService, pool *jobs.Pool, cfg IdentityServiceConfig, validate *validator.Validate, logger *zap.Logger) *IdentityService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if pool == nil {
		pool = jobs.NewPool("identity", jobs.PoolConfig{Workers: len(cfg.RoleTables), Logger: logger})
	}
	return &IdentityService{
		verifier:  verifier,
		contacts:  contacts,
		cache:     cacheSvc,
		pool:      pool,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
	}
}

// VerifyToken decodes the credential and returns the account with its role.
func (s *IdentityService) VerifyToken(ctx context.Context, req dto.VerifyIdentityRequest) (*dto.VerifyIdentityResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Google credential is required")
	}
	claims, err := s.verifier.Verify(ctx, req.Credential)
	if err != nil {
		if errors.Is(err, googleid.ErrKeysUnavailable) {
			return nil, appErrors.WrapAs(appErrors.ErrUpstream, err, "unable to verify credential right now")
		}
		return nil, appErrors.WrapAs(appErrors.ErrUnauthorized, err, "invalid Google credential")
	}

	role, err := s.LookupRole(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if role == models.RoleUnknown {
		s.logger.Info("identity not registered", zap.String("email", claims.Email))
		return nil, appErrors.Clone(appErrors.ErrForbidden, notRegisteredMessage)
	}

	s.logger.Info("identity verified", zap.String("email", claims.Email), zap.String("role", string(role)))
	return &dto.VerifyIdentityResponse{
		Success: true,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Role:    role,
	}, nil
}

// LookupRole returns the role of the first role table, in priority order,
// that lists email. Tables are queried concurrently. Tables that fail are
// skipped unless every table fails.
func (s *IdentityService) LookupRole(ctx context.Context, email string) (models.Role, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.RoleUnknown, nil
	}

	key := cache.Key("role", email)
	var cached models.Role
	if hit, _ := s.cache.Get(ctx, key, &cached); hit && cached.Known() {
		return cached, nil
	}

	tables := s.cfg.RoleTables
	found := make([]bool, len(tables))
	errs := jobs.Run(ctx, s.pool, tables, func(ctx context.Context, i int, rt config.RoleTable) error {
		ok, err := s.contacts.HasEmail(ctx, rt.Table, email)
		if err != nil {
			return err
		}
		found[i] = ok
		return nil
	})

	for i, rt := range tables {
		if errs[i] != nil {
			s.logger.Warn("role table lookup failed", zap.String("table", rt.Table), zap.Error(errs[i]))
			continue
		}
		if !found[i] {
			continue
		}
		role := models.ParseRole(rt.Role)
		if role == models.RoleUnknown {
			s.logger.Warn("role table maps to unknown role", zap.String("table", rt.Table), zap.String("role", rt.Role))
			continue
		}
		_ = s.cache.Set(ctx, key, role, s.cfg.RoleCacheTTL)
		return role, nil
	}

	if len(tables) > 0 && jobs.Failed(errs) == len(tables) {
		return models.RoleUnknown, errs[0]
	}
	return models.RoleUnknown, nil
}

// VerifyEmail reports whether email belongs to any role table.
func (s *IdentityService) VerifyEmail(ctx context.Context, req dto.VerifyEmailRequest) (*dto.VerifyEmailResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "Email is required")
	}
	role, err := s.LookupRole(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyEmailResponse{Authorized: role != models.RoleUnknown, Email: req.Email}, nil
}

// AuthorizedEmails lists every email of every role table, lowercased and
// deduplicated. Tables that fail are skipped unless every table fails.
func (s *IdentityService) AuthorizedEmails(ctx context.Context) (*dto.AuthorizedEmailsResponse, error) {
	tables := s.cfg.RoleTables
	lists := make([][]string, len(tables))
	errs := jobs.Run(ctx, s.pool, tables, func(ctx context.Context, i int, rt config.RoleTable) error {
		emails, err := s.contacts.ListEmails(ctx, rt.Table)
		if err != nil {
			return err
		}
		lists[i] = emails
		return nil
	})
	if len(tables) > 0 && jobs.Failed(errs) == len(tables) {
		return nil, errs[0]
	}

	seen := make(map[string]struct{})
	emails := make([]string, 0)
	for i, rt := range tables {
		if errs[i] != nil {
			s.logger.Warn("role table listing failed", zap.String("table", rt.Table), zap.Error(errs[i]))
			continue
		}
		for _, e := range lists[i] {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			emails = append(emails, e)
		}
	}
	sort.Strings(emails)
	return &dto.AuthorizedEmailsResponse{Emails: emails, Count: len(emails)}, nil
}

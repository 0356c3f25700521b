package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cleanconnect-api/internal/domain"
	"github.com/phrazzld/cleanconnect-api/internal/platform/logger"
	"github.com/phrazzld/cleanconnect-api/internal/service/auth"
	"github.com/phrazzld/cleanconnect-api/internal/store"
)

// RegisterClientInput carries the fields of a client registration.
type RegisterClientInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Addresses []domain.Address
	Language  domain.Language
}

// RegisterProviderInput carries the fields of a provider registration.
type RegisterProviderInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Password       string
	ServiceTypes   []domain.ServiceType
	ServiceAreas   []string
	HourlyRate     float64
	ServiceDetails []domain.ServiceDetail
	Language       domain.Language
}

// AuthResult is an identity together with a freshly issued bearer token.
type AuthResult struct {
	Token    string
	Identity domain.Identity
}

// IdentityService registers, authenticates and resolves identities.
type IdentityService interface {
	// RegisterClient creates a client account and issues a token for it.
	RegisterClient(ctx context.Context, in RegisterClientInput) (*AuthResult, error)

	// RegisterProvider creates a provider account and issues a token for it.
	RegisterProvider(ctx context.Context, in RegisterProviderInput) (*AuthResult, error)

	// Login authenticates email and password. A client or provider role
	// restricts the lookup to that store; any other role searches the client
	// store first, then the provider store. Unknown emails and wrong
	// passwords both return ErrInvalidCredentials.
	Login(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error)

	// Resolve loads the identity named by a token's subject and role.
	Resolve(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Identity, error)
}

type identityServiceImpl struct {
	clients   store.ClientStore
	providers store.ProviderStore
	tokens    auth.JWTService
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	logger    *slog.Logger
}

// NewIdentityService creates an IdentityService.
// It returns an error if any of the required dependencies are nil.
func NewIdentityService(
	clients store.ClientStore,
	providers store.ProviderStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (IdentityService, error) {
	switch {
	case clients == nil:
		return nil, dependencyError("identity", "clients")
	case providers == nil:
		return nil, dependencyError("identity", "providers")
	case tokens == nil:
		return nil, dependencyError("identity", "tokens")
	case hasher == nil:
		return nil, dependencyError("identity", "hasher")
	case verifier == nil:
		return nil, dependencyError("identity", "verifier")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &identityServiceImpl{
		clients:   clients,
		providers: providers,
		tokens:    tokens,
		hasher:    hasher,
		verifier:  verifier,
		logger:    logger.With(slog.String("component", "identity_service")),
	}, nil
}

// RegisterClient implements IdentityService.
func (s *identityServiceImpl) RegisterClient(ctx context.Context, in RegisterClientInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	client, err := domain.NewClient(in.FirstName, in.LastName, in.Email, in.Phone, hash, in.Language, in.Addresses)
	if err != nil {
		return nil, err
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("client registration with existing email")
		}
		return nil, NewServiceError("identity", "register_client", "failed to create client", err)
	}

	log.Info("client registered", slog.String("client_id", client.ID.String()))
	return s.issue(ctx, client)
}

// RegisterProvider implements IdentityService.
func (s *identityServiceImpl) RegisterProvider(ctx context.Context, in RegisterProviderInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	provider, err := domain.NewProvider(
		in.FirstName, in.LastName, in.Email, in.Phone, hash, in.Language,
		in.ServiceTypes, in.ServiceAreas, in.HourlyRate, in.ServiceDetails,
	)
	if err != nil {
		return nil, err
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("provider registration with existing email")
		}
		return nil, NewServiceError("identity", "register_provider", "failed to create provider", err)
	}

	log.Info("provider registered", slog.String("provider_id", provider.ID.String()))
	return s.issue(ctx, provider)
}

// Login implements IdentityService.
func (s *identityServiceImpl) Login(
	ctx context.Context,
	email, password string,
	role domain.Role,
) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	identity, err := s.lookupByEmail(ctx, email, role)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, NewServiceError("identity", "login", "failed to look up identity", err)
		}
		// Same bcrypt cost as a real comparison.
		_ = s.verifier.Compare(auth.DummyHash, password)
		log.Debug("login failed: unknown email")
		return nil, ErrInvalidCredentials
	}

	acct := identity.Base()
	if acct.PasswordHash == "" {
		log.Warn("login failed: account has no password hash", slog.String("user_id", acct.ID.String()))
		return nil, ErrInvalidCredentials
	}
	if err := s.verifier.Compare(acct.PasswordHash, password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("user_id", acct.ID.String()))
		return nil, ErrInvalidCredentials
	}

	log.Info("login succeeded",
		slog.String("user_id", acct.ID.String()),
		slog.String("role", string(identity.Role())))
	return s.issue(ctx, identity)
}

// Resolve implements IdentityService.
func (s *identityServiceImpl) Resolve(ctx context.Context, id uuid.UUID, role domain.Role) (domain.Identity, error) {
	switch role {
	case domain.RoleClient:
		client, err := s.clients.GetByID(ctx, id)
		if err != nil {
			return nil, NewServiceError("identity", "resolve", "failed to load client", err)
		}
		return client, nil
	case domain.RoleProvider:
		provider, err := s.providers.GetByID(ctx, id)
		if err != nil {
			return nil, NewServiceError("identity", "resolve", "failed to load provider", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
}

func (s *identityServiceImpl) lookupByEmail(
	ctx context.Context,
	email string,
	role domain.Role,
) (domain.Identity, error) {
	if role != domain.RoleProvider {
		client, err := s.clients.GetByEmail(ctx, email)
		if err == nil {
			return client, nil
		}
		if role == domain.RoleClient || !store.IsNotFoundError(err) {
			return nil, err
		}
	}
	provider, err := s.providers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *identityServiceImpl) hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.NewValidationError("password",
			fmt.Sprintf("must be at least %d characters", MinPasswordLength), nil)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", &ServiceError{Service: "identity", Operation: "hash_password", Message: "failed to hash password", Err: err}
	}
	return hash, nil
}

func (s *identityServiceImpl) issue(ctx context.Context, identity domain.Identity) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(ctx, identity.Base().ID, identity.Role())
	if err != nil {
		return nil, &ServiceError{Service: "identity", Operation: "issue_token", Message: "failed to generate token", Err: err}
	}
	return &AuthResult{Token: token, Identity: identity}, nil
}

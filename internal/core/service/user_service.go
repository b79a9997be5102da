package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wperaltaarriaga/songs-api/internal/core/domain"
	"github.com/wperaltaarriaga/songs-api/internal/core/ports"
)

const (
	indicatorsCacheKey = "reports:user-indicators"
	indicatorsCacheTTL = time.Minute
)

// UserService implements signup, login and account management.
type UserService struct {
	repo           ports.UserRepository
	tokens         ports.TokenIssuer
	cache          ports.ReportCache // nil disables caching
	blockedDomains []string
	logger         zerolog.Logger
}

func NewUserService(repo ports.UserRepository, tokens ports.TokenIssuer, cache ports.ReportCache, blockedDomains []string, logger zerolog.Logger) *UserService {
	if blockedDomains == nil {
		blockedDomains = domain.DefaultBlockedDomains
	}
	return &UserService{
		repo:           repo,
		tokens:         tokens,
		cache:          cache,
		blockedDomains: blockedDomains,
		logger:         logger,
	}
}

// Create registers a new account. The password is bcrypt-hashed before it
// reaches the repository; a duplicate email surfaces as domain.ErrEmailTaken.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	var roleErr *domain.FieldError
	if !domain.ValidRole(role) {
		roleErr = &domain.FieldError{Field: "role", Message: "must be 'user' or 'admin'"}
	}
	if err := domain.NewValidationError(
		domain.NonEmpty("name", input.Name),
		domain.NonEmpty("password", input.Password),
		domain.ValidEmail("email", input.Email, s.blockedDomains),
		domain.ValidAge("age", input.Age),
		roleErr,
	); err != nil {
		return nil, err
	}

	// Fast pre-check; the unique index on email is the real guarantee.
	if existing, err := s.repo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Age:          input.Age,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

// Login authenticates by email and password and issues a token.
// Unknown email, wrong password and inactive accounts are all rejected;
// the first two collapse to ErrInvalidCredentials so the response does not
// reveal which part was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if err := domain.NewValidationError(
		domain.NonEmpty("email", email),
		domain.NonEmpty("password", password),
	); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("login")
	return &ports.LoginResult{Token: token, User: user}, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update merges the patch onto the stored user. A changed email is
// re-validated and re-checked for uniqueness before the write.
func (s *UserService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var roleErr, ageErr, emailErr *domain.FieldError
	if patch.Email != "" {
		emailErr = domain.ValidEmail("email", patch.Email, s.blockedDomains)
	}
	if patch.Role != "" && !domain.ValidRole(patch.Role) {
		roleErr = &domain.FieldError{Field: "role", Message: "must be 'user' or 'admin'"}
	}
	if patch.Age != nil {
		ageErr = domain.ValidAge("age", *patch.Age)
	}
	if err := domain.NewValidationError(emailErr, roleErr, ageErr); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != "" && patch.Email != existing.Email {
		if other, err := s.repo.FindByEmail(ctx, patch.Email); err == nil && other != nil && other.ID != id {
			return nil, domain.ErrEmailTaken
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	merged := existing.Merge(patch)
	merged.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	return updated, nil
}

// SetActive toggles the account status. Deactivation is distinct from
// deletion: the record stays and login is refused while inactive.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.IsActive = active
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Bool("active", active).Msg("user status changed")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return deleted, nil
}

// Indicators computes the aggregate user report: total, average age, role
// distribution and the youngest/oldest users. Results are cached briefly
// when a cache is configured; cache failures only log.
func (s *UserService) Indicators(ctx context.Context) (*domain.UserIndicators, error) {
	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, indicatorsCacheKey); err != nil {
			s.logger.Warn().Err(err).Msg("indicators cache read failed")
		} else if payload != nil {
			var cached domain.UserIndicators
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := computeIndicators(users)

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, indicatorsCacheKey, payload, indicatorsCacheTTL); err != nil {
				s.logger.Warn().Err(err).Msg("indicators cache write failed")
			}
		}
	}

	return report, nil
}

func computeIndicators(users []*domain.User) *domain.UserIndicators {
	report := &domain.UserIndicators{
		TotalUsers:       len(users),
		RoleDistribution: make(map[string]int),
	}
	if len(users) == 0 {
		return report
	}

	totalAge := 0
	youngest, oldest := users[0], users[0]
	for _, u := range users {
		totalAge += u.Age
		report.RoleDistribution[u.Role]++
		if u.Age < youngest.Age {
			youngest = u
		}
		if u.Age > oldest.Age {
			oldest = u
		}
	}

	report.AverageAge = float64(totalAge) / float64(len(users))
	report.Youngest = youngest
	report.Oldest = oldest
	return report
}

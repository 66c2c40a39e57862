package account

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "invalid username or password")

// AuthService handles registration, authentication and profile operations
type AuthService struct {
	users          account.UserRepository
	jwtService     *auth.JWTService
	hasher         *auth.PasswordHasher
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users account.UserRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "username is already taken")
	}
	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "email is already registered")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}
	user, err := account.NewUser(input.Username, input.Email, hash, account.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if input.FullName != "" || input.WhatsApp != "" {
		if err := user.UpdateProfile(account.Profile{
			FullName:     strings.TrimSpace(input.FullName),
			WhatsApp:     strings.TrimSpace(input.WhatsApp),
			PayoutMethod: account.PayoutNone,
		}); err != nil {
			return nil, err
		}
	}
	user.AddDomainEvent(account.NewUserRegisteredEvent(user))

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))
	return s.issue(user)
}

// Login authenticates by username or email and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, input.Login)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("login", input.Login))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Verify(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair. The used refresh token
// is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "refresh token has expired")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "invalid refresh token")
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "invalid refresh token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "account no longer exists")
		}
		return nil, err
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}
	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))
	return s.issue(user)
}

// Logout revokes the presented access token, and the refresh token when given
func (s *AuthService) Logout(ctx context.Context, input LogoutInput, refreshToken string) error {
	if input.TokenJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenExpiresIn); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil && claims.UserID == input.UserID.String() {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// GetProfile returns the user with its ledger
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile replaces the contact and payout details
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserResponse, error) {
	method, err := account.ParsePayoutMethod(input.PayoutMethod)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(account.Profile{
		FullName:      strings.TrimSpace(input.FullName),
		WhatsApp:      strings.TrimSpace(input.WhatsApp),
		PayoutMethod:  method,
		PayoutAccount: strings.TrimSpace(input.PayoutAccount),
	}); err != nil {
		return nil, err
	}
	if err := s.users.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated",
		zap.String("user_id", user.ID.String()),
		zap.Bool("completed", user.Profile.Completed))
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword verifies the old password, stores the new one and revokes
// every token issued before the change
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if err := s.hasher.Verify(user.PasswordHash, input.OldPassword); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return shared.NewValidationError("current password is incorrect")
		}
		return err
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := s.users.SaveWithLock(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke tokens after password change", zap.Error(err))
	}

	s.logger.Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// checkRevoked rejects tokens revoked by logout or a password change
func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewDomainError(shared.CodeUnauthorized, auth.ErrTokenBlacklisted.Error())
	}
	return nil
}

func (s *AuthService) issue(user *account.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, user *account.User) {
	events := user.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}

func validatePassword(p string) error {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return shared.NewValidationError("password must be at least %d characters", MinPasswordLength)
	}
	if len(p) > 72 {
		return shared.NewValidationError("password cannot exceed 72 bytes")
	}
	return nil
}

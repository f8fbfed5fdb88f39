// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/app/services"
	"github.com/numberkart/numberkart/models"
	"github.com/numberkart/numberkart/repository"
	"github.com/numberkart/numberkart/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow handles account registration, authentication and session lifecycle
type AuthFlow interface {
	Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Logout(ctx context.Context, accountID uint, sessionToken string, metadata *ClientMetadata) error
	ChangePassword(ctx context.Context, accountID uint, request *dto.ChangePasswordRequest, metadata *ClientMetadata) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	accountRepo  repository.AccountRepository
	customerRepo repository.CustomerRepository
	vendorRepo   repository.VendorRepository
	sessionRepo  repository.AccountSessionRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	db           *gorm.DB
}

// NewAuthFlow creates a new authentication flow instance
func NewAuthFlow(
	accountRepo repository.AccountRepository,
	customerRepo repository.CustomerRepository,
	vendorRepo repository.VendorRepository,
	sessionRepo repository.AccountSessionRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		accountRepo:  accountRepo,
		customerRepo: customerRepo,
		vendorRepo:   vendorRepo,
		sessionRepo:  sessionRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		db:           db,
	}
}

// Register creates an account with its customer or vendor profile
func (af *AuthFlowImpl) Register(ctx context.Context, request *dto.RegisterRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	if request.Role != dto.RoleCustomer && request.Role != dto.RoleVendor {
		return nil, NewBusinessError("REGISTER_VALIDATION_FAILED", "Registration validation failed", ErrInvalidRole)
	}

	var account *models.Account

	resp, err := af.WithAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		// Check uniqueness
		existing, err := af.accountRepo.ByUsername(ctx, request.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameAlreadyExists
		}
		existing, err = af.accountRepo.ByEmail(ctx, request.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		// Hash password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		account = &models.Account{
			Username:     strings.TrimSpace(request.Username),
			Email:        strings.ToLower(strings.TrimSpace(request.Email)),
			PasswordHash: string(hashedPassword),
			IsActive:     utils.ToPtr(true),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		}
		if request.Phone != "" {
			account.Phone = &request.Phone
		}

		if err := af.accountRepo.Save(ctx, account); err != nil {
			return nil, err
		}

		// Attach the requested profile
		switch request.Role {
		case dto.RoleCustomer:
			customer := &models.Customer{
				AccountID: account.ID,
				Address:   utils.ToPtrOrNil(request.Address),
				City:      utils.ToPtrOrNil(request.City),
				State:     utils.ToPtrOrNil(request.State),
				Pincode:   utils.ToPtrOrNil(request.Pincode),
				CreatedAt: utils.UTCNow(),
				UpdatedAt: utils.UTCNow(),
			}
			if err := af.customerRepo.Save(ctx, customer); err != nil {
				return nil, err
			}
			account.Customer = customer
		case dto.RoleVendor:
			// Vendors start unapproved and cannot list numbers until an
			// admin approves them.
			vendor := &models.Vendor{
				AccountID:    account.ID,
				BusinessName: strings.TrimSpace(request.BusinessName),
				GSTNumber:    utils.ToPtrOrNil(request.GSTNumber),
				Address:      utils.ToPtrOrNil(request.Address),
				City:         utils.ToPtrOrNil(request.City),
				State:        utils.ToPtrOrNil(request.State),
				Pincode:      utils.ToPtrOrNil(request.Pincode),
				IsApproved:   utils.ToPtr(false),
				CreatedAt:    utils.UTCNow(),
				UpdatedAt:    utils.UTCNow(),
			}
			if err := af.vendorRepo.Save(ctx, vendor); err != nil {
				return nil, err
			}
			account.Vendor = vendor
		}

		session, err := af.CreateSession(ctx, account.ID, metadata)
		if err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			Account: ToAccountDTO(*account),
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Registration failed: %s", err.Error())
		_ = af.LogAuthEvent(ctx, account, models.AuditActionSignupCompleted, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("REGISTER_FAILED", "Registration failed", err)
	}

	msg := fmt.Sprintf("Account registered successfully: %d", resp.Account.ID)
	_ = af.LogAuthEvent(ctx, account, models.AuditActionSignupCompleted, msg, true, nil, metadata)

	return resp, nil
}

// Login authenticates an account with username/email and password
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	var account *models.Account

	resp, err := af.WithAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		var err error
		account, err = af.accountRepo.ByUsernameOrEmail(ctx, strings.TrimSpace(request.Identifier))
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}

		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(request.Password)); err != nil {
			return nil, ErrIncorrectPassword
		}

		session, err := af.CreateSession(ctx, account.ID, metadata)
		if err != nil {
			return nil, err
		}

		// Record last login
		account.LastLoginAt = utils.ToPtr(utils.UTCNow())
		if err := af.accountRepo.Update(ctx, account); err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			Account: ToAccountDTO(*account),
			Session: ToSessionDTO(*session),
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = af.LogAuthEvent(ctx, account, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Account logged in successfully: %d", resp.Account.ID)
	_ = af.LogAuthEvent(ctx, account, models.AuditActionLoginSuccessful, msg, true, nil, metadata)

	return resp, nil
}

// RefreshToken rotates the session identified by a refresh token
func (af *AuthFlowImpl) RefreshToken(ctx context.Context, request *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	resp, err := af.WithAuthTransaction(ctx, func(ctx context.Context) (*dto.AuthResponse, error) {
		session, err := af.sessionRepo.ByRefreshToken(ctx, request.RefreshToken)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		if !session.IsValid() {
			return nil, ErrSessionExpired
		}

		account, err := af.accountRepo.ByID(ctx, session.AccountID)
		if err != nil {
			return nil, err
		}
		if account == nil {
			return nil, ErrAccountNotFound
		}
		if !utils.IsTrue(account.IsActive) {
			return nil, ErrAccountInactive
		}

		// Expire the old session and issue a fresh one under the same
		// correlation ID.
		if err := af.sessionRepo.ExpireSession(ctx, session.ID); err != nil {
			return nil, err
		}

		accessToken, refreshToken, err := af.tokenService.GenerateTokens(account.ID)
		if err != nil {
			return nil, err
		}

		newSession := &models.AccountSession{
			AccountID:     account.ID,
			CorrelationID: session.CorrelationID,
			SessionToken:  accessToken,
			RefreshToken:  &refreshToken,
			ExpiresAt:     utils.UTCNowAdd(utils.SessionTimeout),
			IsActive:      utils.ToPtr(true),
			IPAddress:     session.IPAddress,
			UserAgent:     session.UserAgent,
		}
		if metadata != nil {
			newSession.IPAddress = &metadata.IPAddress
			newSession.UserAgent = &metadata.UserAgent
		}
		if err := af.sessionRepo.Save(ctx, newSession); err != nil {
			return nil, err
		}

		return &dto.AuthResponse{
			Account: ToAccountDTO(*account),
			Session: ToSessionDTO(*newSession),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("REFRESH_TOKEN_FAILED", "Token refresh failed", err)
	}
	return resp, nil
}

// Logout expires the session carrying the given token
func (af *AuthFlowImpl) Logout(ctx context.Context, accountID uint, sessionToken string, metadata *ClientMetadata) error {
	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		session, err := af.sessionRepo.BySessionToken(ctx, sessionToken)
		if err != nil {
			return err
		}
		if session == nil || session.AccountID != accountID {
			return ErrSessionNotFound
		}
		return af.sessionRepo.ExpireSession(ctx, session.ID)
	})

	if err != nil {
		return NewBusinessError("LOGOUT_FAILED", "Logout failed", err)
	}

	msg := fmt.Sprintf("Account logged out: %d", accountID)
	_ = af.LogAuthEvent(ctx, &models.Account{ID: accountID}, models.AuditActionLogout, msg, true, nil, metadata)

	return nil
}

// ChangePassword verifies the current password, sets the new one and
// expires every other session of the account.
func (af *AuthFlowImpl) ChangePassword(ctx context.Context, accountID uint, request *dto.ChangePasswordRequest, metadata *ClientMetadata) error {
	var account *models.Account

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		var err error
		account, err = af.accountRepo.ByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}

		if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(request.CurrentPassword)); err != nil {
			return ErrIncorrectPassword
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		if err := af.accountRepo.UpdatePassword(ctx, account.ID, string(hashedPassword)); err != nil {
			return err
		}

		return af.sessionRepo.ExpireAllAccountSessions(ctx, account.ID)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Password change failed: %s", err.Error())
		_ = af.LogAuthEvent(ctx, account, models.AuditActionPasswordChanged, errMsg, false, &errMsg, metadata)

		return NewBusinessError("CHANGE_PASSWORD_FAILED", "Password change failed", err)
	}

	msg := fmt.Sprintf("Password changed: %d", accountID)
	_ = af.LogAuthEvent(ctx, account, models.AuditActionPasswordChanged, msg, true, nil, metadata)

	return nil
}

// Private helper methods

func (af *AuthFlowImpl) CreateSession(ctx context.Context, accountID uint, metadata *ClientMetadata) (*models.AccountSession, error) {
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(accountID)
	if err != nil {
		return nil, err
	}

	expiresAt := utils.UTCNowAdd(utils.SessionTimeout)

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	session := &models.AccountSession{
		AccountID:     accountID,
		CorrelationID: uuid.New(),
		SessionToken:  accessToken,
		RefreshToken:  &refreshToken,
		ExpiresAt:     expiresAt,
		IsActive:      utils.ToPtr(true),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (af *AuthFlowImpl) LogAuthEvent(ctx context.Context, account *models.Account, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var accountID *uint
	if account != nil {
		accountID = &account.ID
	}

	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		AccountID:    accountID,
		Action:       action,
		Description:  &description,
		Success:      utils.ToPtr(success),
		IPAddress:    &ipAddress,
		UserAgent:    &userAgent,
		ErrorMessage: errMsg,
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return af.auditRepo.Save(ctx, audit)
}

func (af *AuthFlowImpl) WithAuthTransaction(ctx context.Context, fn func(context.Context) (*dto.AuthResponse, error)) (*dto.AuthResponse, error) {
	var result *dto.AuthResponse
	var fnErr error

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

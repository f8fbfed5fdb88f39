package businessflow_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/numberkart/numberkart/app/dto"
	"github.com/numberkart/numberkart/app/services"
	businessflow "github.com/numberkart/numberkart/business_flow"
	"github.com/numberkart/numberkart/repository"
	testingutil "github.com/numberkart/numberkart/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFlow(t *testing.T, testDB *testingutil.TestDB) businessflow.AuthFlow {
	tokenService, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"numberkart",
		"numberkart-api",
		false,
		"",
		"",
		"test-jwt-secret-at-least-32-bytes!!",
	)
	require.NoError(t, err)
	return businessflow.NewAuthFlow(
		repository.NewAccountRepository(testDB.DB),
		repository.NewCustomerRepository(testDB.DB),
		repository.NewVendorRepository(testDB.DB),
		repository.NewAccountSessionRepository(testDB.DB),
		repository.NewAuditLogRepository(testDB.DB),
		tokenService,
		testDB.DB,
	)
}

func TestAuthFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()
		metadata := businessflow.NewClientMetadata("127.0.0.1", "test-agent")

		authFlow := newAuthFlow(t, testDB)
		seq := 0
		registerReq := func(role string) *dto.RegisterRequest {
			seq++
			req := &dto.RegisterRequest{
				Username: fmt.Sprintf("user_auth_%d", seq),
				Email:    fmt.Sprintf("auth%d@example.com", seq),
				Phone:    testingutil.RandomIndianMobile(),
				Password: "SecurePass123",
				Role:     role,
			}
			if role == dto.RoleVendor {
				req.BusinessName = fmt.Sprintf("Vendor %d Telecom", seq)
			}
			return req
		}

		t.Run("RegisterCustomer", func(t *testing.T) {
			req := registerReq(dto.RoleCustomer)
			resp, err := authFlow.Register(ctx, req, metadata)
			require.NoError(t, err)
			assert.Equal(t, req.Username, resp.Account.Username)
			assert.Equal(t, req.Email, resp.Account.Email)
			assert.NotEmpty(t, resp.Session.AccessToken)
			require.NotNil(t, resp.Session.RefreshToken)
		})

		t.Run("RegisterVendorStartsUnapproved", func(t *testing.T) {
			req := registerReq(dto.RoleVendor)
			resp, err := authFlow.Register(ctx, req, metadata)
			require.NoError(t, err)

			vendorRepo := repository.NewVendorRepository(testDB.DB)
			vendor, err := vendorRepo.ByAccountID(ctx, resp.Account.ID)
			require.NoError(t, err)
			require.NotNil(t, vendor)
			assert.Equal(t, req.BusinessName, vendor.BusinessName)
			assert.False(t, vendor.CanListNumbers())
		})

		t.Run("RegisterDuplicateUsernameRejected", func(t *testing.T) {
			req := registerReq(dto.RoleCustomer)
			_, err := authFlow.Register(ctx, req, metadata)
			require.NoError(t, err)

			dup := registerReq(dto.RoleCustomer)
			dup.Username = req.Username
			_, err = authFlow.Register(ctx, dup, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsUsernameAlreadyExists(err))
		})

		t.Run("RegisterDuplicateEmailRejected", func(t *testing.T) {
			req := registerReq(dto.RoleCustomer)
			_, err := authFlow.Register(ctx, req, metadata)
			require.NoError(t, err)

			dup := registerReq(dto.RoleCustomer)
			dup.Email = req.Email
			_, err = authFlow.Register(ctx, dup, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsEmailAlreadyExists(err))
		})

		t.Run("RegisterUnknownRoleRejected", func(t *testing.T) {
			req := registerReq("admin")
			_, err := authFlow.Register(ctx, req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidRole(err))
		})

		t.Run("LoginWithUsernameAndEmail", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			resp, err := authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, account.ID, resp.Account.ID)

			resp, err = authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Email,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, account.ID, resp.Account.ID)
		})

		t.Run("LoginWrongPasswordRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			_, err = authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   "WrongPass123",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		t.Run("LoginUnknownAccountRejected", func(t *testing.T) {
			_, err := authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: "nobody_here",
				Password:   "SecurePass123",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountNotFound(err))
		})

		t.Run("LoginInactiveAccountRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)
			require.NoError(t, testDB.DB.Model(account).Update("is_active", false).Error)

			_, err = authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsAccountInactive(err))
		})

		t.Run("RefreshTokenRotatesSession", func(t *testing.T) {
			resp, err := authFlow.Register(ctx, registerReq(dto.RoleCustomer), metadata)
			require.NoError(t, err)
			require.NotNil(t, resp.Session.RefreshToken)

			refreshed, err := authFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: *resp.Session.RefreshToken,
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, resp.Account.ID, refreshed.Account.ID)
			assert.NotEqual(t, resp.Session.AccessToken, refreshed.Session.AccessToken)

			// Old refresh token is spent
			_, err = authFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: *resp.Session.RefreshToken,
			}, metadata)
			require.Error(t, err)
		})

		t.Run("RefreshUnknownTokenRejected", func(t *testing.T) {
			_, err := authFlow.RefreshToken(ctx, &dto.RefreshTokenRequest{
				RefreshToken: "not-a-real-token",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionNotFound(err))
		})

		t.Run("LogoutExpiresSession", func(t *testing.T) {
			resp, err := authFlow.Register(ctx, registerReq(dto.RoleCustomer), metadata)
			require.NoError(t, err)

			require.NoError(t, authFlow.Logout(ctx, resp.Account.ID, resp.Session.AccessToken, metadata))

			sessionRepo := repository.NewAccountSessionRepository(testDB.DB)
			session, err := sessionRepo.BySessionToken(ctx, resp.Session.AccessToken)
			require.NoError(t, err)
			if session != nil {
				assert.False(t, session.IsValid())
			}
		})

		t.Run("LogoutForeignSessionRejected", func(t *testing.T) {
			resp, err := authFlow.Register(ctx, registerReq(dto.RoleCustomer), metadata)
			require.NoError(t, err)

			err = authFlow.Logout(ctx, resp.Account.ID+9999, resp.Session.AccessToken, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsSessionNotFound(err))
		})

		t.Run("ChangePassword", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			err = authFlow.ChangePassword(ctx, account.ID, &dto.ChangePasswordRequest{
				CurrentPassword: testingutil.TestPassword,
				NewPassword:     "BrandNewPass456",
				ConfirmPassword: "BrandNewPass456",
			}, metadata)
			require.NoError(t, err)

			_, err = authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   testingutil.TestPassword,
			}, metadata)
			require.Error(t, err)

			_, err = authFlow.Login(ctx, &dto.LoginRequest{
				Identifier: account.Username,
				Password:   "BrandNewPass456",
			}, metadata)
			require.NoError(t, err)
		})

		t.Run("ChangePasswordWrongCurrentRejected", func(t *testing.T) {
			account, err := fixtures.CreateTestAccount()
			require.NoError(t, err)

			err = authFlow.ChangePassword(ctx, account.ID, &dto.ChangePasswordRequest{
				CurrentPassword: "NotTheRightOne1",
				NewPassword:     "BrandNewPass456",
				ConfirmPassword: "BrandNewPass456",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsIncorrectPassword(err))
		})

		return nil
	})
	require.NoError(t, err)
}

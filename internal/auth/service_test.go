package auth

import (
	"testing"

	"accounts-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, accounts ...*models.Account) (*AuthService, *TokenService) {
	t.Helper()

	ts, accountStore, _ := newTestService(t, 3600, 604800, accounts...)
	return NewAuthService(accountStore, ts, NewDefaultPasswordPolicy()), ts
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Salutation:      "Mr",
		FullName:        "John Doe",
		DateOfBirth:     "1990-01-31",
		Gender:          "M",
		Username:        "jdoe",
		Phone:           "+12025550101",
		Address:         "1 Main Street",
		Location:        "Springfield",
		Password:        "Str0ng-pass-99",
		PasswordConfirm: "Str0ng-pass-99",
	}
}

func TestLoginIssuesVerifiableTokens(t *testing.T) {
	account := testAccount(t, "jdoe")
	svc, ts := newTestAuthService(t, account)

	result, err := svc.Login("jdoe", "Str0ng-pass-99")
	require.NoError(t, err)
	require.NotNil(t, result)

	got, err := ts.VerifyAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	got, err = ts.VerifyRefreshToken(result.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	assert.NotNil(t, result.Account.LastLogin)
}

func TestLoginNormalizesUsername(t *testing.T) {
	account := testAccount(t, "jdoe")
	svc, _ := newTestAuthService(t, account)

	result, err := svc.Login("  JDoe ", "Str0ng-pass-99")
	require.NoError(t, err)
	assert.Equal(t, account.ID, result.Account.ID)
}

func TestLoginEnumerationResistance(t *testing.T) {
	account := testAccount(t, "jdoe")
	svc, _ := newTestAuthService(t, account)

	// Unknown username and wrong password must be indistinguishable
	_, unknownErr := svc.Login("nobody", "Str0ng-pass-99")
	_, wrongPassErr := svc.Login("jdoe", "not-the-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}

func TestLoginDisabledAccount(t *testing.T) {
	account := testAccount(t, "jdoe")
	account.IsActive = false
	svc, _ := newTestAuthService(t, account)

	_, err := svc.Login("jdoe", "Str0ng-pass-99")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRegisterCreatesAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	account, err := svc.Register(validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, account)

	assert.Equal(t, "jdoe", account.Username)
	assert.NotEqual(t, "Str0ng-pass-99", account.Password, "password must never be stored in plaintext")
	assert.True(t, account.CheckPassword("Str0ng-pass-99"))
	assert.True(t, account.IsActive)
}

func TestRegisterNormalizesUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	input := validRegisterInput()
	input.Username = "  JDoe "

	account, err := svc.Register(input)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", account.Username)
}

func TestRegisterDuplicateUsernameCaseInsensitive(t *testing.T) {
	existing := testAccount(t, "jdoe")
	svc, _ := newTestAuthService(t, existing)

	input := validRegisterInput()
	input.Username = "JDOE"

	_, err := svc.Register(input)
	require.Error(t, err)

	var violations ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, ErrDuplicateUsername.Error())
}

func TestRegisterCollectsAllViolations(t *testing.T) {
	existing := testAccount(t, "jdoe")
	existing.Phone = "+12025550101"
	svc, _ := newTestAuthService(t, existing)

	input := validRegisterInput()
	input.FullName = ""
	input.Password = "short"
	input.PasswordConfirm = "different"

	_, err := svc.Register(input)
	require.Error(t, err)

	var violations ValidationErrors
	require.ErrorAs(t, err, &violations)

	// Duplicate username, duplicate phone, missing field, password
	// mismatch and password policy must all be reported at once
	assert.Contains(t, violations, ErrDuplicateUsername.Error())
	assert.Contains(t, violations, ErrDuplicatePhone.Error())
	assert.Contains(t, violations, "Full Name is required.")
	assert.Contains(t, violations, "Passwords do not match.")
	assert.Contains(t, violations, "This password is too short. It must contain at least 8 characters.")
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	svc, _ := newTestAuthService(t)

	input := validRegisterInput()
	input.Phone = "not-a-phone"

	_, err := svc.Register(input)
	require.Error(t, err)

	var violations ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed.")
}

func TestChangePasswordRevokesAllTokens(t *testing.T) {
	account := testAccount(t, "jdoe")
	svc, ts := newTestAuthService(t, account)

	result, err := svc.Login("jdoe", "Str0ng-pass-99")
	require.NoError(t, err)

	err = svc.ChangePassword(account, "Str0ng-pass-99", "An0ther-pass-77", "An0ther-pass-77")
	require.NoError(t, err)

	_, err = ts.VerifyRefreshToken(result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Old password no longer works; the new one does
	_, err = svc.Login("jdoe", "Str0ng-pass-99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	relogin, err := svc.Login("jdoe", "An0ther-pass-77")
	require.NoError(t, err)
	assert.Equal(t, account.ID, relogin.Account.ID)
}

func TestChangePasswordCollectsViolations(t *testing.T) {
	account := testAccount(t, "jdoe")
	svc, _ := newTestAuthService(t, account)

	err := svc.ChangePassword(account, "wrong-old", "short", "different")
	require.Error(t, err)

	var violations ValidationErrors
	require.ErrorAs(t, err, &violations)
	assert.Contains(t, violations, "Current password is incorrect.")
	assert.Contains(t, violations, "New passwords do not match.")
	assert.Contains(t, violations, "This password is too short. It must contain at least 8 characters.")
}

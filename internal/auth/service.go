package auth

import (
	"accounts-backend/internal/models"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenPair is the access/refresh token pair handed back on login for the
// caller to attach as cookies
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the outcome of a successful credential verification
type LoginResult struct {
	Account *models.Account `json:"account"`
	Tokens  TokenPair       `json:"tokens"`
}

// RegisterInput carries the registration form fields. Field-presence and
// format checks are declared as validator tags; uniqueness, password match
// and password strength are checked separately, and all violations are
// collected into one response.
type RegisterInput struct {
	Salutation      string `json:"salutation" validate:"required,oneof=Mr Miss"`
	FullName        string `json:"fullName" validate:"required,max=100"`
	DateOfBirth     string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"required,oneof=M F O"`
	Username        string `json:"username" validate:"required,min=3,max=100"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Address         string `json:"address" validate:"required"`
	Location        string `json:"location" validate:"required,max=100"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

var fieldLabels = map[string]string{
	"Salutation":      "Salutation",
	"FullName":        "Full Name",
	"DateOfBirth":     "Date of Birth",
	"Gender":          "Gender",
	"Username":        "Username",
	"Phone":           "Phone Number",
	"Address":         "Address",
	"Location":        "City/Location",
	"Password":        "Password",
	"PasswordConfirm": "Password Confirmation",
}

var phoneRegex = regexp.MustCompile(`^\+?1?\d{9,15}$`)

type AuthService struct {
	accounts AccountStore
	tokens   *TokenService
	policy   PasswordPolicy
	validate *validator.Validate
}

func NewAuthService(accounts AccountStore, tokens *TokenService, policy PasswordPolicy) *AuthService {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})

	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		policy:   policy,
		validate: v,
	}
}

// NormalizeUsername lower-cases and trims a username the way it is stored
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Login verifies the credentials and issues a token pair. An unknown
// username and a wrong password both yield ErrInvalidCredentials so callers
// cannot enumerate usernames. A deactivated account is reported as
// ErrAccountDisabled. Store failures are surfaced, never folded into a
// credential error.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	username = NormalizeUsername(username)

	account, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if !account.IsActive {
		return nil, ErrAccountDisabled
	}

	if !account.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(account)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	if err := s.accounts.UpdateLastLogin(account.ID, now); err != nil {
		// The login itself succeeded; a stale last-login stamp is not
		// worth failing the request over.
		log.Warn().Err(err).Str("account_id", account.ID).Msg("Failed to update last login")
	}
	account.LastLogin = &now

	return &LoginResult{
		Account: account,
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}, nil
}

// Register validates the input and creates the account. Every violation is
// collected before returning so the caller can display the complete set at
// once; the error is a ValidationErrors value in that case.
func (s *AuthService) Register(input RegisterInput) (*models.Account, error) {
	input.Username = NormalizeUsername(input.Username)

	var violations ValidationErrors

	if err := s.validate.Struct(input); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				violations = append(violations, fieldViolation(fe))
			}
		} else {
			return nil, fmt.Errorf("failed to validate registration input: %w", err)
		}
	}

	if input.Username != "" {
		taken, err := s.accounts.UsernameTaken(input.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if taken {
			violations = append(violations, ErrDuplicateUsername.Error())
		}
	}

	if input.Phone != "" {
		taken, err := s.accounts.PhoneTaken(input.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
		}
		if taken {
			violations = append(violations, ErrDuplicatePhone.Error())
		}
	}

	if input.Password != input.PasswordConfirm {
		violations = append(violations, "Passwords do not match.")
	}

	violations = append(violations, s.policy.Validate(input.Password, input.Username)...)

	if len(violations) > 0 {
		return nil, violations
	}

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		// Unreachable after the datetime tag passed; kept as a guard.
		return nil, ValidationErrors{"Date of Birth must be in YYYY-MM-DD format."}
	}

	account := &models.Account{
		ID:          uuid.New().String(),
		Username:    input.Username,
		Salutation:  models.Salutation(input.Salutation),
		FullName:    input.FullName,
		DateOfBirth: dob,
		Gender:      models.Gender(input.Gender),
		Phone:       input.Phone,
		Address:     input.Address,
		Location:    input.Location,
		IsActive:    true,
	}
	if err := account.SetPassword(input.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// ChangePassword verifies the current password, policy-checks the new one
// and, on success, updates the hash and revokes every refresh token the
// account holds so all other sessions are logged out.
func (s *AuthService) ChangePassword(account *models.Account, oldPassword, newPassword, newPasswordConfirm string) error {
	var violations ValidationErrors

	if !account.CheckPassword(oldPassword) {
		violations = append(violations, "Current password is incorrect.")
	}

	if newPassword != newPasswordConfirm {
		violations = append(violations, "New passwords do not match.")
	}

	violations = append(violations, s.policy.Validate(newPassword, account.Username)...)

	if len(violations) > 0 {
		return violations
	}

	updated := *account
	if err := updated.SetPassword(newPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(account.ID, updated.Password); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokens.RevokeAllTokens(account.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return nil
}

func fieldViolation(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "datetime":
		return label + " must be in YYYY-MM-DD format."
	case "phone":
		return "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	case "min":
		return label + " must be at least " + fe.Param() + " characters."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	default:
		return label + " is invalid."
	}
}

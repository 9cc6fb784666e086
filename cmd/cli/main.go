package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"accounts-backend/config"
	"accounts-backend/internal/auth"
	"accounts-backend/internal/database"
	"accounts-backend/internal/models"
	"accounts-backend/internal/repository"

	"github.com/google/uuid"
)

var (
	// Command flags
	createAccount = flag.Bool("create", false, "Create a new account")
	deactivate    = flag.Bool("deactivate", false, "Deactivate an account")
	activate      = flag.Bool("activate", false, "Reactivate an account")
	revokeAll     = flag.Bool("revoke-all", false, "Revoke all refresh tokens of an account")

	// Account data flags
	username   = flag.String("username", "", "Account username")
	password   = flag.String("password", "", "Account password")
	fullName   = flag.String("full-name", "", "Full name")
	salutation = flag.String("salutation", "Mr", "Salutation (Mr/Miss)")
	dob        = flag.String("dob", "", "Date of birth (YYYY-MM-DD)")
	gender     = flag.String("gender", "O", "Gender (M/F/O)")
	phone      = flag.String("phone", "", "Phone number")
	address    = flag.String("address", "", "Address")
	location   = flag.String("location", "", "City/Location")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := database.Initialize(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	accountRepo := repository.NewAccountRepository(database.GetDB())
	tokenRepo := repository.NewTokenRepository(database.GetDB())

	switch {
	case *createAccount:
		return handleCreateAccount(accountRepo)
	case *deactivate:
		return handleSetStatus(accountRepo, false)
	case *activate:
		return handleSetStatus(accountRepo, true)
	case *revokeAll:
		return handleRevokeAll(accountRepo, tokenRepo)
	default:
		printUsage()
		return nil
	}
}

func handleCreateAccount(accountRepo *repository.AccountRepository) error {
	if *username == "" || *password == "" || *fullName == "" || *dob == "" {
		return fmt.Errorf("username, password, full-name, and dob are required")
	}

	dateOfBirth, err := time.Parse("2006-01-02", *dob)
	if err != nil {
		return fmt.Errorf("invalid date of birth: %w", err)
	}

	account := &models.Account{
		ID:          uuid.New().String(),
		Username:    auth.NormalizeUsername(*username),
		Salutation:  models.Salutation(*salutation),
		FullName:    *fullName,
		DateOfBirth: dateOfBirth,
		Gender:      models.Gender(*gender),
		Phone:       *phone,
		Address:     *address,
		Location:    *location,
		IsActive:    true,
	}
	if err := account.SetPassword(*password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := accountRepo.CreateAccount(account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	fmt.Printf("Successfully created account: %s\n", account.Username)
	return nil
}

func handleSetStatus(accountRepo *repository.AccountRepository, active bool) error {
	account, err := findAccount(accountRepo)
	if err != nil {
		return err
	}

	if err := accountRepo.UpdateAccountStatus(account.ID, active); err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Printf("Successfully %s account: %s\n", state, account.Username)
	return nil
}

func handleRevokeAll(accountRepo *repository.AccountRepository, tokenRepo *repository.TokenRepository) error {
	account, err := findAccount(accountRepo)
	if err != nil {
		return err
	}

	if err := tokenRepo.BlacklistAccountTokens(account.ID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}

	fmt.Printf("Successfully revoked all refresh tokens for: %s\n", account.Username)
	return nil
}

func findAccount(accountRepo *repository.AccountRepository) (*models.Account, error) {
	if *username == "" {
		return nil, fmt.Errorf("username is required")
	}

	account, err := accountRepo.GetAccountByUsername(auth.NormalizeUsername(*username))
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account not found")
	}
	return account, nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Create account:   cli -create -username=jdoe -password=secret -full-name=\"John Doe\" -dob=1990-01-31")
	fmt.Println("  Deactivate:       cli -deactivate -username=jdoe")
	fmt.Println("  Activate:         cli -activate -username=jdoe")
	fmt.Println("  Revoke tokens:    cli -revoke-all -username=jdoe")
}

package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Salutation string

const (
	SalutationMr   Salutation = "Mr"
	SalutationMiss Salutation = "Miss"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "O"
)

type Account struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username    string     `json:"username" gorm:"uniqueIndex;not null;type:varchar(100)"`
	Password    string     `json:"-" gorm:"not null;type:varchar(255)"`
	Salutation  Salutation `json:"salutation" gorm:"not null;type:varchar(10);default:Mr"`
	FullName    string     `json:"fullName" gorm:"column:full_name;not null;type:varchar(100)"`
	DateOfBirth time.Time  `json:"dateOfBirth" gorm:"column:date_of_birth;not null"`
	Gender      Gender     `json:"gender" gorm:"not null;type:varchar(1)"`
	Phone       string     `json:"phone" gorm:"type:varchar(17);index"`
	Address     string     `json:"address" gorm:"type:text"`
	Location    string     `json:"location" gorm:"type:varchar(100)"`
	IsActive    bool       `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt   time.Time  `json:"updatedAt" gorm:"autoUpdateTime;not null"`
	LastLogin   *time.Time `json:"lastLogin"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// SetPassword hashes the raw password and stores the hash.
// The plaintext is never persisted.
func (a *Account) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hash)
	return nil
}

// CheckPassword reports whether the raw password matches the stored hash
func (a *Account) CheckPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(raw)) == nil
}

// DisplayName returns the full name with salutation
func (a *Account) DisplayName() string {
	return string(a.Salutation) + " " + a.FullName
}

// Age calculates the account holder's age from the date of birth
func (a *Account) Age() int {
	now := time.Now()
	age := now.Year() - a.DateOfBirth.Year()
	if now.Month() < a.DateOfBirth.Month() ||
		(now.Month() == a.DateOfBirth.Month() && now.Day() < a.DateOfBirth.Day()) {
		age--
	}
	return age
}

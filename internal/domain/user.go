package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// StartingPoints is the point balance credited to every new account.
const StartingPoints = 100

// User-specific validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyUserName       = errors.New("name cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrNegativePoints      = errors.New("point balance cannot be negative")
	ErrNegativeSwapCount   = errors.New("swap count cannot be negative")
)

// User represents a registered member of the exchange. Points is the internal
// currency balance transferred between members on accepted points-based swaps;
// SwapCount tracks how many swaps the member has settled.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Name           string    `json:"name"`
	Points         int       `json:"points"`
	SwapCount      int       `json:"swapCount"`
	IsAdmin        bool      `json:"isAdmin"`
	Avatar         string    `json:"avatar,omitempty"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"joinDate"`
	UpdatedAt      time.Time `json:"-"`
}

// NewUser creates a new User with the given email, hashed password and
// display name. It generates a new UUID, credits the starting point balance,
// and sets the creation/update timestamps. Returns an error if validation
// fails.
//
// The caller is responsible for hashing the password before calling this.
func NewUser(email, hashedPassword, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		Name:           name,
		Points:         StartingPoints,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrEmptyUserName
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	if u.Points < 0 {
		return ErrNegativePoints
	}

	if u.SwapCount < 0 {
		return ErrNegativeSwapCount
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex == -1 || atIndex == 0 || atIndex == len(email)-1 {
		return false
	}

	// The domain part needs a dot that is neither first nor last.
	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

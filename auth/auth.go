package auth

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
)

const minPasswordLength = 8

// Business rule messages shown to the user
const (
	MsgInvalidEmail       = "invalid email address"
	MsgInvalidUsername    = "username must be 3-30 characters (latin letters, digits, _)"
	MsgPasswordTooShort   = "password must be at least 8 characters"
	MsgPasswordNoUpper    = "password must contain an uppercase letter"
	MsgPasswordNoLower    = "password must contain a lowercase letter"
	MsgPasswordNoDigit    = "password must contain a digit"
	MsgEmailRegistered    = "email is already registered"
	MsgUsernameTaken      = "username is already taken"
	MsgPasswordRequired   = "enter a password"
	MsgUserNotFound       = "user not found"
	MsgAccountInactive    = "account is inactive"
	MsgWrongPassword      = "wrong password"
	MsgCodeRequired       = "recovery code is required"
	MsgCodeNotRequested   = "recovery code was not requested"
	MsgCodeMismatch       = "recovery code does not match"
	MsgRegistered         = "registration completed"
	MsgLoggedIn           = "logged in"
	MsgRecoveryCodeSent   = "recovery code sent"
	MsgPasswordWasUpdated = "password updated"
)

// RegisterRequest carries the registration form
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// LoginRequest carries the login form
type LoginRequest struct {
	Email    string
	Password string
}

// ResetRequest carries the password reset form
type ResetRequest struct {
	Email       string
	Code        string
	NewPassword string
}

// Service implements the registration, login and password recovery flows
type Service struct {
	store    UserStore
	cost     int
	codeFunc func() (string, error)
}

// Option configures a Service
type Option func(*Service)

// WithHashCost overrides the bcrypt cost
func WithHashCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// WithCodeGenerator overrides the recovery code source
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		s.codeFunc = gen
	}
}

// NewService creates a service over store
func NewService(store UserStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		cost:     bcrypt.DefaultCost,
		codeFunc: NewRecoveryCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword hashes raw with bcrypt at the given cost
func HashPassword(raw string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches hash
func VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// NewRecoveryCode returns six random hex characters
func NewRecoveryCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate recovery code")
	}
	return hex.EncodeToString(buf), nil
}

// ValidateEmail checks the address shape
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ruleError(MsgInvalidEmail)
	}
	return nil
}

// ValidateUsername checks length and alphabet
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ruleError(MsgInvalidUsername)
	}
	return nil
}

// ValidatePassword checks length first, then upper, lower and digit requirements in that order
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return ruleError(MsgPasswordTooShort)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return ruleError(MsgPasswordNoUpper)
	}
	if !lower {
		return ruleError(MsgPasswordNoLower)
	}
	if !digit {
		return ruleError(MsgPasswordNoDigit)
	}
	return nil
}

// Register creates a new active account
func (s *Service) Register(req RegisterRequest) (Response, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return Response{}, err
	}
	if err := ValidateUsername(req.Username); err != nil {
		return Response{}, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return Response{}, err
	}

	_, err := s.store.UserByEmail(req.Email)
	switch {
	case err == nil:
		return Response{}, ruleError(MsgEmailRegistered)
	case !errors.Is(err, ErrUserNotFound):
		return Response{}, err
	}

	taken, err := s.store.UsernameTaken(req.Username)
	if err != nil {
		return Response{}, err
	}
	if taken {
		return Response{}, ruleError(MsgUsernameTaken)
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return Response{}, err
	}
	user := &User{Email: req.Email, Username: req.Username, PasswordHash: hash, Active: true}
	if err := s.store.SaveUser(user); err != nil {
		return Response{}, err
	}

	return Response{
		OK:      true,
		Message: MsgRegistered,
		Payload: map[string]string{"email": req.Email, "username": req.Username},
	}, nil
}

// Login checks credentials of an active account
func (s *Service) Login(req LoginRequest) (Response, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return Response{}, err
	}
	if req.Password == "" {
		return Response{}, ruleError(MsgPasswordRequired)
	}

	user, err := s.lookup(req.Email)
	if err != nil {
		return Response{}, err
	}
	if !user.Active {
		return Response{}, ruleError(MsgAccountInactive)
	}
	if !VerifyPassword(req.Password, user.PasswordHash) {
		return Response{}, ruleError(MsgWrongPassword)
	}

	return Response{OK: true, Message: MsgLoggedIn, Payload: map[string]string{"email": req.Email}}, nil
}

// RequestPasswordReset issues a fresh recovery code, replacing any previous one
func (s *Service) RequestPasswordReset(email string) (Response, error) {
	if err := ValidateEmail(email); err != nil {
		return Response{}, err
	}
	user, err := s.lookup(email)
	if err != nil {
		return Response{}, err
	}

	code, err := s.codeFunc()
	if err != nil {
		return Response{}, err
	}
	user.RecoveryCode = code
	if err := s.store.SaveUser(user); err != nil {
		return Response{}, err
	}

	return Response{OK: true, Message: MsgRecoveryCodeSent, Payload: map[string]string{"code": code}}, nil
}

// ResetPassword sets a new password when the recovery code matches, then clears the code
func (s *Service) ResetPassword(req ResetRequest) (Response, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return Response{}, err
	}
	if req.Code == "" {
		return Response{}, ruleError(MsgCodeRequired)
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return Response{}, err
	}

	user, err := s.lookup(req.Email)
	if err != nil {
		return Response{}, err
	}
	if user.RecoveryCode == "" {
		return Response{}, ruleError(MsgCodeNotRequested)
	}
	if user.RecoveryCode != req.Code {
		return Response{}, ruleError(MsgCodeMismatch)
	}

	hash, err := HashPassword(req.NewPassword, s.cost)
	if err != nil {
		return Response{}, err
	}
	user.PasswordHash = hash
	user.RecoveryCode = ""
	if err := s.store.SaveUser(user); err != nil {
		return Response{}, err
	}

	return Response{OK: true, Message: MsgPasswordWasUpdated, Payload: map[string]string{"email": req.Email}}, nil
}

func (s *Service) lookup(email string) (*User, error) {
	user, err := s.store.UserByEmail(email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ruleError(MsgUserNotFound)
	}
	return user, err
}

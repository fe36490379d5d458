package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskloop/service-task-go/internal/auth"
	"github.com/taskloop/service-task-go/internal/user/entity"
	userrepo "github.com/taskloop/service-task-go/internal/user/repo"
	"github.com/taskloop/service-task-go/pkg/utilities"
)

// sentinel errors for common failure modes
var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("name, email and password are required")
)

// PasswordHasher defines the minimal hashing interface (abstract so we can
// swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Repository is the persistence surface the service needs. *repo.UserRepo
// satisfies it; tests substitute an in-memory fake.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// UserService handles signup and login flows.
type UserService struct {
	repo     Repository
	hasher   PasswordHasher
	secret   []byte
	validity time.Duration
}

func NewUserService(repo Repository, hasher PasswordHasher, secret []byte) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	return &UserService{repo: repo, hasher: hasher, secret: secret, validity: auth.TokenValidity}
}

// Signup creates a new user with a hashed password. A second signup with an
// already-registered email fails with ErrDuplicateEmail and stores nothing.
// No token is issued; callers log in separately.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrValidation
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           utilities.NewKSUID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if userrepo.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and returns a signed bearer token along with
// the user. A missing email yields ErrUserNotFound, a hash mismatch
// ErrInvalidCredentials; the plaintext password is only ever passed to the
// hash-verification primitive.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(u.ID, s.secret, s.validity)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

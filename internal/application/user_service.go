package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/studio-scheduler/internal/persistence"
)

// User is the application-level view of a team member.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserInput carries the fields a caller supplies when registering a user.
type UserInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// UserService maintains the team directory the meeting scheduler validates
// invitees against.
type UserService struct {
	users       persistence.UserRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for directory operations.
func NewUserService(users persistence.UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = nowUTC
	}
	return &UserService{
		users:       users,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// CreateUser validates and registers a new team member.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}

	vErr := &ValidationError{}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email must be a valid address")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		vErr.add("displayName", "display name is required")
	}
	if vErr.HasErrors() {
		return User{}, vErr
	}

	createdAt := s.now()
	user := persistence.User{
		ID:          s.idGenerator(),
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        strings.TrimSpace(input.Role),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			dup := &ValidationError{}
			dup.add("email", "email is already registered")
			return User{}, dup
		}
		return User{}, err
	}

	logger := serviceLogger(ctx, s.logger, "users", "create", "user_id", user.ID)
	logger.InfoContext(ctx, "user registered")
	return fromPersistenceUser(user), nil
}

// GetUser looks up one team member by id.
func (s *UserService) GetUser(ctx context.Context, id string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return fromPersistenceUser(user), nil
}

// ListUsers enumerates the team directory.
func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	stored, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]User, 0, len(stored))
	for _, user := range stored {
		users = append(users, fromPersistenceUser(user))
	}
	return users, nil
}

// MissingUserIDs reports which of the given ids have no directory entry.
func (s *UserService) MissingUserIDs(ctx context.Context, ids []string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return nil, nil
	}

	known, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]struct{}, len(known))
	for _, user := range known {
		existing[user.ID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	return missing, nil
}

func fromPersistenceUser(user persistence.User) User {
	return User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"vims/internal/model"
	"vims/internal/repository"
	"vims/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest, actor Actor) (UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	// SeedAdmin creates the bootstrap admin account when no users exist.
	SeedAdmin(ctx context.Context) error
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret func() []byte
	tokenTTL  time.Duration
}

func NewUserService(userRepo repository.UserRepository, jwtSecret func() []byte) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
	}
}

func validUserRole(role string) bool {
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleFinance, model.RoleUser:
		return true
	}
	return false
}

func (s *userService) Register(ctx context.Context, req RegisterUserRequest, actor Actor) (UserResponse, error) {
	if !actor.isAdmin() {
		return UserResponse{}, apperror.Permission("only ADMIN can create users")
	}
	if !validUserRole(req.Role) {
		return UserResponse{}, apperror.Validation("invalid role: %s", req.Role)
	}

	if existing, _ := s.userRepo.FindByUsername(ctx, req.Username); existing != nil {
		return UserResponse{}, apperror.Conflict("username already exists: %s", req.Username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil || user == nil {
		return TokenResponse{}, apperror.Permission("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return TokenResponse{}, apperror.Permission("invalid username or password")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret())
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return TokenResponse{Token: signed}, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, nil
}

func (s *userService) SeedAdmin(ctx context.Context) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := model.User{
		Username: username,
		Email:    username + "@vims.local",
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, &admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("seeded bootstrap admin user %q", username)
	return nil
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

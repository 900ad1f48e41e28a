package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"kiosk-service/internal/entity"
)

const passwordRuleMessage = "Password must be at least 8 characters long, including uppercase, lowercase, number, and special character."

var (
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[\W_]`)
)

// TokenIssuer is implemented by auth.TokenManager.
type TokenIssuer interface {
	Issue(user *entity.User) (string, error)
}

type UserService struct {
	repo        UserStore
	tokens      TokenIssuer
	emailDomain string
	emailRegex  *regexp.Regexp
	bcryptCost  int
}

// NewUserService creates a new instance of UserService. Emails must belong to emailDomain.
func NewUserService(repo UserStore, tokens TokenIssuer, emailDomain string) *UserService {
	return &UserService{
		repo:        repo,
		tokens:      tokens,
		emailDomain: emailDomain,
		emailRegex:  regexp.MustCompile(`(?i)^[^@\s]+@` + regexp.QuoteMeta(emailDomain) + `$`),
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// Register creates an active account with the User role.
func (s *UserService) Register(ctx context.Context, reg *entity.Registration) (*entity.User, error) {
	if err := s.validateRegistration(reg, true); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, reg.Username, 0); err != nil {
		return nil, err
	}

	role, err := s.repo.GetRoleByName(ctx, entity.RoleUser)
	if err != nil {
		logger.Error().Err(err).Msg("Error getting default role")
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     reg.Username,
		PasswordHash: string(hash),
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Email:        reg.Email,
		UserRoleID:   role.ID,
		Role:         role.Name,
		IsActive:     true,
	}
	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, newError(ErrConflict, "Username is already taken.")
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	return createdUser, nil
}

// Login checks the credentials of an active user and issues a token.
func (s *UserService) Login(ctx context.Context, username, password string) (*entity.LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, invalidf("Username and password are required.")
	}

	user, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(ErrUnauthorized, "Invalid username or password.")
		}
		logger.Error().Err(err).Msgf("Error getting user %s", username)
		return nil, err
	}
	if !user.IsActive {
		return nil, newError(ErrUnauthorized, "Invalid username or password.")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, newError(ErrUnauthorized, "Invalid username or password.")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		logger.Error().Err(err).Msgf("Error issuing token for user %d", user.ID)
		return nil, err
	}
	return &entity.LoginResult{Message: "Login successful.", Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, caller Caller, id int64) (*entity.User, error) {
	if err := caller.mustAccess(id); err != nil {
		return nil, err
	}
	return s.getUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return users, nil
}

func (s *UserService) ListRoles(ctx context.Context) ([]entity.UserRole, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing roles")
		return nil, err
	}
	return roles, nil
}

// UpdateUser edits a profile. The password is optional; the role may only be changed by a SuperUser.
func (s *UserService) UpdateUser(ctx context.Context, caller Caller, id int64, reg *entity.Registration) (*entity.User, error) {
	if err := caller.mustAccess(id); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateRegistration(reg, false); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, reg.Username, id); err != nil {
		return nil, err
	}

	if role := strings.TrimSpace(reg.Role); role != "" && role != user.Role {
		if !caller.SuperUser {
			return nil, newError(ErrForbidden, "Only a SuperUser can change roles.")
		}
		newRole, err := s.repo.GetRoleByName(ctx, role)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, invalidf("Unknown role %s.", role)
			}
			return nil, err
		}
		user.UserRoleID = newRole.ID
		user.Role = newRole.Name
	}

	if reg.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.Username = reg.Username
	user.FirstName = reg.FirstName
	user.LastName = reg.LastName
	user.Email = reg.Email

	updatedUser, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, newError(ErrConflict, "Username is already taken.")
		}
		logger.Error().Err(err).Msgf("Error updating user %d", id)
		return nil, err
	}
	return updatedUser, nil
}

// DeleteUser deactivates the account. Its carts and transactions are kept.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeactivateUser(ctx, id); err != nil {
		logger.Error().Err(err).Msgf("Error deactivating user %d", id)
		return err
	}
	return nil
}

func (s *UserService) getUser(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("User not found.")
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}
	return user, nil
}

// activeUser loads a user and treats a deactivated account as missing.
func activeUser(ctx context.Context, users UserStore, id int64) (*entity.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) checkUsername(ctx context.Context, username string, excludeID int64) error {
	taken, err := s.repo.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking username")
		return err
	}
	if taken {
		return newError(ErrConflict, "Username is already taken.")
	}
	return nil
}

func (s *UserService) validateRegistration(reg *entity.Registration, passwordRequired bool) error {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)

	if reg.Username == "" || reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || (passwordRequired && reg.Password == "") {
		return invalidf("All fields are required and cannot be empty.")
	}
	if utf8.RuneCountInString(reg.Username) > 50 {
		return invalidf("Username must be at most 50 characters.")
	}
	if !s.ValidEmail(reg.Email) {
		return invalidf("Email must be a valid @%s address.", s.emailDomain)
	}
	if reg.Password != "" && !ValidPassword(reg.Password) {
		return invalidf(passwordRuleMessage)
	}
	// bcrypt hashes at most 72 bytes
	if len(reg.Password) > 72 {
		return invalidf("Password must be at most 72 bytes.")
	}
	return nil
}

// ValidEmail reports whether email belongs to the configured domain, ignoring case.
func (s *UserService) ValidEmail(email string) bool {
	return s.emailRegex.MatchString(email)
}

// ValidPassword requires 8+ characters with upper, lower, digit and special characters.
func ValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		hasUpper.MatchString(password) &&
		hasLower.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSpecial.MatchString(password)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hirehub/jobportal/internal/auth"
	"github.com/hirehub/jobportal/internal/models"
	"github.com/hirehub/jobportal/internal/repositories"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/hirehub/jobportal/internal/utils"
)

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       *FileUpload
}

// ProfileUpdate carries optional fields; nil or blank values are ignored.
type ProfileUpdate struct {
	FullName    *string
	Email       *string
	PhoneNumber *string
	Bio         *string
	Skills      *string // comma separated
	Resume      *FileUpload
}

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password, role string) (*Session, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error)
}

type userService struct {
	users      repositories.UserRepository
	uploader   storage.Uploader
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewUserService(users repositories.UserRepository, uploader storage.Uploader, tokens *auth.TokenManager, bcryptCost int) UserService {
	return &userService{users: users, uploader: uploader, tokens: tokens, bcryptCost: bcryptCost}
}

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "UserService.Register"

	if missing := missingFields(
		"fullname", in.FullName,
		"email", in.Email,
		"phoneNumber", in.PhoneNumber,
		"password", in.Password,
		"role", in.Role,
	); len(missing) > 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing fields: "+strings.Join(missing, ", "), nil)
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "role must be seeker or recruiter", nil)
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "User already exists with this email.", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	user := &models.User{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Password:    hash,
		Role:        role,
		Profile:     models.Profile{Skills: []string{}},
	}

	if in.Photo != nil {
		url, err := uploadFile(ctx, op, s.uploader, "photos", in.Photo, false)
		if err != nil {
			return nil, err
		}
		user.Profile.ProfilePhoto = url
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "User already exists with this email.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password, role string) (*Session, error) {
	const op = "UserService.Login"

	if missing := missingFields("email", email, "password", password, "role", role); len(missing) > 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Missing fields: "+strings.Join(missing, ", "), nil)
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeInvalidCredentials, op, "Incorrect email or password.", nil)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, utils.E(utils.CodeInvalidCredentials, op, "Incorrect email or password.", nil)
	}

	// the role is part of the credential, not just an attribute
	if r, ok := models.ParseRole(role); !ok || r != user.Role {
		return nil, utils.E(utils.CodeInvalidCredentials, op, "Account doesn't exist with current role.", nil)
	}

	token, exp, err := s.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*models.User, error) {
	const op = "UserService.Get"

	id, err := parseID(op, "user id", userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(op, "User not found.", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	const op = "UserService.UpdateProfile"

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&user.FullName, in.FullName)
	set(&user.PhoneNumber, in.PhoneNumber)
	set(&user.Profile.Bio, in.Bio)

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := normalizeEmail(*in.Email)
		if email != user.Email {
			if _, err := s.users.GetByEmail(ctx, email); err == nil {
				return nil, utils.E(utils.CodeConflict, op, "User already exists with this email.", nil)
			} else if !errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeInternal, op, "failed to check email", err)
			}
			user.Email = email
		}
	}
	if in.Skills != nil && strings.TrimSpace(*in.Skills) != "" {
		user.Profile.Skills = splitList(*in.Skills)
	}

	if in.Resume != nil {
		url, err := uploadFile(ctx, op, s.uploader, "resumes", in.Resume, true)
		if err != nil {
			return nil, err
		}
		user.Profile.Resume = url
		user.Profile.ResumeOriginalName = in.Resume.FileName
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "User already exists with this email.", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return user, nil
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/user/domain"
	userService "github.com/allisson/rememberme/internal/user/service"
	appValidation "github.com/allisson/rememberme/internal/validation"
)

// userUseCase handles user-related business logic.
type userUseCase struct {
	userRepo        UserRepository
	passwordService userService.PasswordService
	dummyHash       string
}

// NewUserUseCase creates a new user UseCase.
func NewUserUseCase(userRepo UserRepository, passwordService userService.PasswordService) (UseCase, error) {
	// Compared against for unknown emails so both failure paths cost one hash verification.
	dummyHash, err := passwordService.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}

	return &userUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		dummyHash:       dummyHash,
	}, nil
}

func profileRules(name, surname, phone, birthday *string) []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(surname,
			validation.Length(0, 255).Error("surname must be at most 255 characters"),
		),
		validation.Field(phone, appValidation.Phone),
		validation.Field(birthday, appValidation.PastDate),
	}
}

// validateRegisterUserInput checks profile fields, email format, password strength and
// that the password confirmation matches.
func (uc *userUseCase) validateRegisterUserInput(input *RegisterUserInput) error {
	rules := profileRules(&input.Name, &input.Surname, &input.Phone, &input.Birthday)
	rules = append(rules,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.DefaultPasswordPolicy,
		),
		validation.Field(&input.PasswordRetype,
			validation.Required.Error("password confirmation is required"),
			appValidation.Matches(input.Password, "passwords do not match"),
		),
		validation.Field(&input.Role,
			validation.By(func(value interface{}) error {
				if role, _ := value.(domain.Role); role != "" && !role.IsValid() {
					return validation.NewError("validation_role", "must be user or admin")
				}
				return nil
			}),
		),
	)

	return appValidation.WrapValidationError(validation.ValidateStruct(input, rules...))
}

func parseBirthday(birthday string) *time.Time {
	if birthday == "" {
		return nil
	}
	date, err := time.Parse(appValidation.DateLayout, birthday)
	if err != nil {
		return nil
	}
	return &date
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register registers a new user. Role defaults to RoleUser.
func (uc *userUseCase) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(&input); err != nil {
		return nil, err
	}

	passwordHash, err := uc.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		Email:        normalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Birthday:     parseBirthday(input.Birthday),
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials submitted at login.
func (uc *userUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.passwordService.Compare(password, uc.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !uc.passwordService.Compare(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (uc *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// List returns a page of users.
func (uc *userUseCase) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	return uc.userRepo.List(ctx, offset, limit)
}

// UpdateProfile validates and applies profile edits.
func (uc *userUseCase) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input UpdateProfileInput,
) (*domain.User, error) {
	err := validation.ValidateStruct(&input, profileRules(&input.Name, &input.Surname, &input.Phone, &input.Birthday)...)
	if err := appValidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Surname = strings.TrimSpace(input.Surname)
	user.Phone = strings.TrimSpace(input.Phone)
	user.Birthday = parseBirthday(input.Birthday)
	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

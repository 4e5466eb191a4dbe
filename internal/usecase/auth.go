package usecase

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/crypto/bcrypt"

	"github.com/ybalashov/bimvault/internal/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Login           string `json:"login"`
	UserName        string `json:"userName"`
	UserSurname     string `json:"userSurname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	CompanyName     string `json:"companyName"`
	CompanyPosition string `json:"companyPosition"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Login, validation.Required, validation.Length(3, 64)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(1, 128)),
	)
}

// AuthResult is a freshly authenticated session.
type AuthResult struct {
	User  domain.User
	Token string
}

type AuthUsecase struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewAuthUsecase(users UserRepository, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, tokens: tokens}
}

// Register creates an account. Passwords are stored only as bcrypt digests;
// the legacy plaintext comparison is deliberately not carried over.
func (uc *AuthUsecase) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if err := input.Validate(); err != nil {
		return AuthResult{}, domain.ValidationError{Message: err.Error()}
	}
	if input.Password != input.ConfirmPassword {
		return AuthResult{}, domain.ValidationError{Message: "passwords do not match"}
	}

	exists, err := uc.users.ExistsByLoginOrEmail(ctx, input.Login, input.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, domain.ConflictError{Message: "user already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := uc.users.Create(ctx, domain.User{
		Login:           input.Login,
		DisplayName:     input.UserName,
		Surname:         input.UserSurname,
		Email:           input.Email,
		PasswordHash:    string(hash),
		CompanyName:     input.CompanyName,
		CompanyPosition: input.CompanyPosition,
	})
	if err != nil {
		return AuthResult{}, err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Token: token}, nil
}

// Login resolves the identifier against login or email and verifies the
// password against the stored digest.
func (uc *AuthUsecase) Login(ctx context.Context, identifier, password string) (AuthResult, error) {
	if identifier == "" || password == "" {
		return AuthResult{}, domain.ValidationError{Message: "login and password must be provided"}
	}

	user, err := uc.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.AuthError{Message: "invalid credentials"}
		}
		return AuthResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, domain.AuthError{Message: "invalid credentials"}
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Token: token}, nil
}

func (uc *AuthUsecase) GetInfo(ctx context.Context, id uint) (domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

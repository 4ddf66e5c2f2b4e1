package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"decohogar/internal/auth"
	"decohogar/internal/domain"
	"decohogar/internal/repos"
	"decohogar/internal/validate"
)

const maxAddress = 500

type AuthService struct {
	store  *repos.Store
	hasher *auth.Hasher
	tokens *auth.Tokens
	carts  *CartService
}

func NewAuthService(store *repos.Store, hasher *auth.Hasher, tokens *auth.Tokens, carts *CartService) *AuthService {
	return &AuthService{store: store, hasher: hasher, tokens: tokens, carts: carts}
}

type RegisterInput struct {
	Nombre    string
	Apellido  string
	Email     string
	Password  string
	Password2 string
	Direccion string
	Telefono  string
}

// Register creates an active user. The password is hashed before anything
// touches the database.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	nombre, ok := validate.Name(in.Nombre)
	if !ok {
		return nil, domain.Validation("nombre is required")
	}
	apellido, ok := validate.Text(in.Apellido, 100)
	if !ok {
		return nil, domain.Validation("apellido is too long")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return nil, domain.Validation("email is not valid")
	}
	direccion, ok := validate.Text(in.Direccion, maxAddress)
	if !ok {
		return nil, domain.Validation("direccion is too long")
	}
	telefono, ok := validate.Phone(in.Telefono)
	if !ok {
		return nil, domain.Validation("telefono is not valid")
	}
	if err := s.checkNewPassword(in.Password, in.Password2); err != nil {
		return nil, err
	}

	cred, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:            uuid.NewString(),
		Nombre:        nombre,
		Apellido:      apellido,
		Email:         strings.ToLower(email),
		Password:      cred,
		Direccion:     direccion,
		Telefono:      telefono,
		Activo:        true,
		FechaCreacion: time.Now().UTC(),
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) checkNewPassword(pw, confirm string) error {
	if pw != confirm {
		return domain.Validation("passwords do not match")
	}
	if !validate.Password(pw) {
		return domain.Validation("password needs 8+ characters with upper, lower, digit and symbol")
	}
	return nil
}

// Login verifies the credentials and issues a session. Unknown email, wrong
// password and inactive accounts all fail with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.Session, error) {
	u, err := s.store.Users.ByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.VerifyDummy(password)
		return nil, auth.Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, auth.Session{}, err
	}
	if !s.hasher.Verify(password, u.Password) || !u.Activo {
		return nil, auth.Session{}, domain.ErrInvalidCredentials
	}
	sess, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, auth.Session{}, err
	}
	return u, sess, nil
}

// Refresh trades a refresh token for a new access token while the account
// still exists and is active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.RefreshToken)
	if err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	if _, err := s.activeUser(ctx, claims.Subject); err != nil {
		return "", time.Time{}, err
	}
	access, exp, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	return access, exp, nil
}

// Authenticate resolves an access token to its active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.Parse(accessToken, auth.AccessToken)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.activeUser(ctx, claims.Subject)
}

func (s *AuthService) activeUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.store.Users.ByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// UpdateInput carries the profile fields to change. Nil fields are kept.
// An empty Password keeps the stored credential.
type UpdateInput struct {
	Nombre    *string
	Apellido  *string
	Email     *string
	Direccion *string
	Telefono  *string
	Password  string
	Password2 string
}

// Update changes the actor's own profile. Another user's id reports
// NotFound, the same as an id that does not exist.
func (s *AuthService) Update(ctx context.Context, actorID, userID string, in UpdateInput) (*domain.User, error) {
	if actorID != userID {
		return nil, domain.NotFoundf("usuario %s not found", userID)
	}
	u, err := s.store.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Nombre != nil {
		v, ok := validate.Name(*in.Nombre)
		if !ok {
			return nil, domain.Validation("nombre is required")
		}
		u.Nombre = v
	}
	if in.Apellido != nil {
		v, ok := validate.Text(*in.Apellido, 100)
		if !ok {
			return nil, domain.Validation("apellido is too long")
		}
		u.Apellido = v
	}
	if in.Email != nil {
		v, ok := validate.Email(*in.Email)
		if !ok {
			return nil, domain.Validation("email is not valid")
		}
		u.Email = strings.ToLower(v)
	}
	if in.Direccion != nil {
		v, ok := validate.Text(*in.Direccion, maxAddress)
		if !ok {
			return nil, domain.Validation("direccion is too long")
		}
		u.Direccion = v
	}
	if in.Telefono != nil {
		v, ok := validate.Phone(*in.Telefono)
		if !ok {
			return nil, domain.Validation("telefono is not valid")
		}
		u.Telefono = v
	}
	if in.Password != "" || in.Password2 != "" {
		if err := s.checkNewPassword(in.Password, in.Password2); err != nil {
			return nil, err
		}
		cred, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = cred
	}

	if err := s.store.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the actor's own account with its wishlist, cart and
// orders. Like Update, another user's id reports NotFound.
func (s *AuthService) Delete(ctx context.Context, actorID, userID string) error {
	if actorID != userID {
		return domain.NotFoundf("usuario %s not found", userID)
	}
	err := s.store.Atomic(ctx, func(tx *repos.Store) error {
		return tx.Users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	if s.carts != nil {
		s.carts.Invalidate(ctx, userID)
	}
	return nil
}

func (s *AuthService) User(ctx context.Context, id string) (*domain.User, error) {
	return s.store.Users.ByID(ctx, id)
}

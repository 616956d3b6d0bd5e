package user

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/mimir-ai/pdfchat/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Service composes the user store with password hashing and token
// issuance.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Register(companyName, email, password string) (model.UserOut, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return model.UserOut{}, ErrInvalidEmail
	}
	hash, err := HashPassword(password)
	if err != nil {
		return model.UserOut{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.Append(companyName, email, hash)
	if err != nil {
		return model.UserOut{}, err
	}
	return model.UserOut{ID: u.ID, CompanyName: u.CompanyName, Email: u.Email}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error, so a caller cannot tell which case
// occurred. The token embeds the user id but is not verified by any
// other endpoint.
func (s *Service) Login(email, password string) (model.Token, error) {
	u, ok := s.store.FindByEmail(email)
	if !ok || !VerifyPassword(password, u.PasswordHash) {
		return model.Token{}, ErrInvalidCredentials
	}
	return model.Token{
		AccessToken: fmt.Sprintf("dummy_token_for_user_%d", u.ID),
		TokenType:   "bearer",
	}, nil
}

// Users lists all records without password hashes, in insertion order.
func (s *Service) Users() []model.UserOut {
	all := s.store.All()
	out := make([]model.UserOut, 0, len(all))
	for _, u := range all {
		out = append(out, model.UserOut{ID: u.ID, CompanyName: u.CompanyName, Email: u.Email})
	}
	return out
}

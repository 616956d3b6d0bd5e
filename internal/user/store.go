package user

import (
	"errors"
	"sync"
)

var ErrDuplicateEmail = errors.New("email is already registered")

// User is a registered account. Records are append-only: never mutated,
// never deleted.
type User struct {
	ID           int
	CompanyName  string
	Email        string
	PasswordHash string
}

// Store keeps users in memory, in insertion order. The mutex covers the
// duplicate-email check and the append together, so two concurrent
// registrations with the same email cannot both get in.
type Store struct {
	mu    sync.RWMutex
	users []User
}

func NewStore() *Store {
	return &Store{}
}

// Append adds a user with the next sequential id, unless the email is
// already taken. Email comparison is case-sensitive exact match.
func (s *Store) Append(companyName, email, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrDuplicateEmail
		}
	}
	u := User{
		ID:           len(s.users) + 1,
		CompanyName:  companyName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) FindByEmail(email string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

func (s *Store) FindByID(id int) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// All returns a copy of the records in insertion order.
func (s *Store) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

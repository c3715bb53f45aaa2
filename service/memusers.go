package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yusimeilanyy/intern-project/model"
)

// MemoryUserStore is the development counterpart of the SQL user store.
// It also serves as the contact directory when running without a database.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*model.User)}
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryUserStore) FindByCredential(ctx context.Context, identifier string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == identifier || user.Email == identifier {
			cp := *user
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) List(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		cp := *user
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *MemoryUserStore) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return fmt.Errorf("user %q already exists", user.Username)
		}
	}
	cp := *user
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.users[cp.ID] = &cp
	user.ID = cp.ID
	return nil
}

func (s *MemoryUserStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryUserStore) TouchLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

// PICFor resolves the PIC straight from the document's own contact fields.
func (s *MemoryUserStore) PICFor(ctx context.Context, doc *model.Document) (*model.Contact, error) {
	if doc.PICEmail == "" {
		return nil, nil
	}
	return &model.Contact{Name: doc.PICName, Email: doc.PICEmail}, nil
}

func (s *MemoryUserStore) ManagersForTeam(ctx context.Context, teamID int64) ([]model.Contact, error) {
	return s.contactsByRole(model.RoleManager, &teamID), nil
}

func (s *MemoryUserStore) Admins(ctx context.Context) ([]model.Contact, error) {
	return s.contactsByRole(model.RoleAdmin, nil), nil
}

func (s *MemoryUserStore) contactsByRole(role string, teamID *int64) []model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var contacts []model.Contact
	for _, user := range s.users {
		if !user.IsActive || user.Role != role || user.Email == "" {
			continue
		}
		if teamID != nil && user.TeamID != *teamID {
			continue
		}
		contacts = append(contacts, model.Contact{Name: user.FullName, Email: user.Email})
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].Email < contacts[j].Email })
	return contacts
}

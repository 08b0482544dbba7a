package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fentz26/taskkeep/internal/audit"
	"github.com/fentz26/taskkeep/internal/models"
	"github.com/fentz26/taskkeep/internal/store"
	"github.com/fentz26/taskkeep/internal/validation"
	"github.com/sirupsen/logrus"
)

// UserRepository is the persistence the user service needs.
type UserRepository interface {
	CreateUser(p models.UserPatch) (*models.User, error)
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id string, p models.UserPatch) (*models.User, error)
	DeleteUser(id string) (bool, error)
	CountUsers() (int, error)
}

// Users provides user record management. Emails are unique.
type Users struct {
	mu     sync.RWMutex
	repo   UserRepository
	engine *validation.Engine
	audit  *audit.Recorder
	log    logrus.FieldLogger
}

// NewUsers creates a new user service.
func NewUsers(repo UserRepository, engine *validation.Engine, recorder *audit.Recorder, log logrus.FieldLogger) *Users {
	return &Users{
		repo:   repo,
		engine: engine,
		audit:  recorder,
		log:    log.WithField("component", "users"),
	}
}

// Create validates raw and stores a new user.
func (s *Users) Create(raw map[string]any) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inputs := redactPassword(raw)
	patch, err := s.engine.UserCreate(raw)
	if err != nil {
		s.reject(audit.ActionUserCreate, inputs, "", err)
		return nil, err
	}
	if err := s.checkEmail(*patch.Email, ""); err != nil {
		s.reject(audit.ActionUserCreate, inputs, "", err)
		return nil, err
	}

	u, err := s.repo.CreateUser(patch)
	if errors.Is(err, store.ErrEmailTaken) {
		s.reject(audit.ActionUserCreate, inputs, "", ErrDuplicate)
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(audit.ActionUserCreate, inputs, audit.OutcomeSuccess, u.ID, "")
	s.log.WithField("user_id", u.ID).Info("user created")
	return u, nil
}

// Get returns the user with the given id.
func (s *Users) Get(id string) (*models.User, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(id)
}

// List returns all users, newest first.
func (s *Users) List() ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users, err := s.repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update validates raw and merges it into the user.
func (s *Users) Update(id string, raw map[string]any) (*models.User, error) {
	id, err := validation.ParseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inputs := redactPassword(raw)
	patch, err := s.engine.UserUpdate(raw)
	if err != nil {
		s.reject(audit.ActionUserUpdate, inputs, id, err)
		return nil, err
	}
	if _, err := s.find(id); err != nil {
		s.reject(audit.ActionUserUpdate, inputs, id, err)
		return nil, err
	}
	if patch.Email != nil {
		if err := s.checkEmail(*patch.Email, id); err != nil {
			s.reject(audit.ActionUserUpdate, inputs, id, err)
			return nil, err
		}
	}

	u, err := s.repo.UpdateUser(id, patch)
	if errors.Is(err, store.ErrEmailTaken) {
		s.reject(audit.ActionUserUpdate, inputs, id, ErrDuplicate)
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if u == nil {
		err := fmt.Errorf("user %s: %w", id, ErrNotFound)
		s.reject(audit.ActionUserUpdate, inputs, id, err)
		return nil, err
	}

	s.audit.Record(audit.ActionUserUpdate, inputs, audit.OutcomeSuccess, id, "")
	return u, nil
}

// Delete removes the user.
func (s *Users) Delete(id string) error {
	id, err := validation.ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.repo.DeleteUser(id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !ok {
		err := fmt.Errorf("user %s: %w", id, ErrNotFound)
		s.reject(audit.ActionUserDelete, idInput(id), id, err)
		return err
	}

	s.audit.Record(audit.ActionUserDelete, idInput(id), audit.OutcomeSuccess, id, "")
	s.log.WithField("user_id", id).Info("user deleted")
	return nil
}

// Count returns the number of stored users.
func (s *Users) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.repo.CountUsers()
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Users) find(id string) (*models.User, error) {
	u, err := s.repo.GetUser(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, nil
}

// checkEmail fails with ErrDuplicate when another user owns email.
func (s *Users) checkEmail(email, exceptID string) error {
	other, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("get user by email: %w", err)
	}
	if other != nil && other.ID != exceptID {
		return ErrDuplicate
	}
	return nil
}

// reject records a refused mutation.
func (s *Users) reject(action string, inputs any, userID string, err error) {
	s.log.WithFields(logrus.Fields{
		"action":  action,
		"user_id": userID,
	}).WithError(err).Debug("request rejected")
	s.audit.Record(action, inputs, audit.OutcomeRejected, userID, err.Error())
}

// redactPassword copies raw without its password so audit hashes never
// derive from a secret.
func redactPassword(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "password" {
			out[k] = "[redacted]"
			continue
		}
		out[k] = v
	}
	return out
}

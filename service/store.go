package service

import (
	"context"
	"errors"

	"github.com/yusimeilanyy/intern-project/model"
)

// Core error kinds. The handler layer maps these to HTTP status codes.
var (
	// ErrNotYetExpired is returned when renew or mark-not-renewed is
	// attempted on a document whose end date has not passed.
	ErrNotYetExpired = errors.New("document has not expired yet")
	// ErrInvalidDate is returned when a supplied date does not parse.
	ErrInvalidDate = errors.New("invalid date format")
	// ErrDocumentNotFound is returned when an operation targets a
	// non-existent document id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
)

// DocumentFilter narrows FindAll results.
type DocumentFilter struct {
	Category model.Category
}

// DocumentStore is the persistence contract the core needs. Save is
// insert-or-update; the store assigns the id on first save.
type DocumentStore interface {
	FindByID(ctx context.Context, id string) (*model.Document, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, id string) error
}

// ContactDirectory resolves notification recipients.
type ContactDirectory interface {
	PICFor(ctx context.Context, doc *model.Document) (*model.Contact, error)
	ManagersForTeam(ctx context.Context, teamID int64) ([]model.Contact, error)
	Admins(ctx context.Context) ([]model.Contact, error)
}

// UserStore is the account contract used by auth and user management.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindByCredential looks a user up by username or email.
	FindByCredential(ctx context.Context, identifier string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
}

// Mail is one outbound message. Body is HTML.
type Mail struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
}

// Mailer sends a single message. Fire-and-forget from the dispatcher's
// perspective: a returned error is logged and counted, never retried
// within the run.
type Mailer interface {
	Send(ctx context.Context, m *Mail) error
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/service"
)

// User maps to the users table.
type User struct {
	ID           string     `gorm:"column:id;primaryKey;type:uuid"`
	Username     string     `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	Email        string     `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	FullName     string     `gorm:"column:full_name;type:varchar(255)"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         string     `gorm:"column:role;type:varchar(16);index;default:user"`
	TeamID       int64      `gorm:"column:team_id;index"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// UserRepo implements service.UserStore and service.ContactDirectory.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var row User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserRepo) FindByCredential(ctx context.Context, identifier string) (*model.User, error) {
	var row User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	var rows []User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]*model.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toModel())
	}
	return users, nil
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	row := fromUserModel(user)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	user.CreatedAt = row.CreatedAt
	user.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now()).Error
}

// PICFor resolves the PIC contact from the document's own contact fields.
func (r *UserRepo) PICFor(ctx context.Context, doc *model.Document) (*model.Contact, error) {
	if doc.PICEmail == "" {
		return nil, nil
	}
	return &model.Contact{Name: doc.PICName, Email: doc.PICEmail}, nil
}

func (r *UserRepo) ManagersForTeam(ctx context.Context, teamID int64) ([]model.Contact, error) {
	return r.contactsByRole(ctx, model.RoleManager, &teamID)
}

func (r *UserRepo) Admins(ctx context.Context) ([]model.Contact, error) {
	return r.contactsByRole(ctx, model.RoleAdmin, nil)
}

func (r *UserRepo) contactsByRole(ctx context.Context, role string, teamID *int64) ([]model.Contact, error) {
	tx := r.db.WithContext(ctx).
		Model(&User{}).
		Where("is_active = ? AND role = ? AND email <> ''", true, role)
	if teamID != nil {
		tx = tx.Where("team_id = ?", *teamID)
	}

	var rows []User
	if err := tx.Order("full_name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]model.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, model.Contact{Name: row.FullName, Email: row.Email})
	}
	return contacts, nil
}

func (row *User) toModel() *model.User {
	return &model.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		FullName:     row.FullName,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		TeamID:       row.TeamID,
		IsActive:     row.IsActive,
		LastLoginAt:  row.LastLoginAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func fromUserModel(user *model.User) *User {
	return &User{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		TeamID:       user.TeamID,
		IsActive:     user.IsActive,
		LastLoginAt:  user.LastLoginAt,
	}
}

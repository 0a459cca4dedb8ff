package repositories

import (
	"context"
	"time"

	"github.com/you/accountsvc/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:255"`
	Email            string `gorm:"uniqueIndex;size:255"`
	Phone            string `gorm:"size:32"`
	CardNumber       string `gorm:"size:32"`
	PasswordHash     string `gorm:"column:password"`
	Role             string `gorm:"index;size:64"`
	ResetToken       *string    `gorm:"index;size:64"`
	ResetTokenExpiry *time.Time `gorm:"index"`
	Credits          []DBCredit `gorm:"foreignKey:UserID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DBCredit represents the database model for Credit
type DBCredit struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	Type      string `gorm:"size:64"`
	ExpiresAt time.Time
	HasReport bool
	ReportID  *uint
	Report    *DBReport `gorm:"foreignKey:ReportID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DBReport represents the database model for Report
type DBReport struct {
	ID           uint   `gorm:"primaryKey"`
	Type         string `gorm:"size:64"`
	Registration string `gorm:"size:16"`
	Complete     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (DBUser) TableName() string   { return "users" }
func (DBCredit) TableName() string { return "credits" }
func (DBReport) TableName() string { return "reports" }

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create persists the user together with its credits and reports in one create
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	for i := range dbUser.Credits {
		user.Credits[i].ID = dbUser.Credits[i].ID
		user.Credits[i].UserID = dbUser.ID
		user.Credits[i].ReportID = dbUser.Credits[i].ReportID
		if dbUser.Credits[i].Report != nil && user.Credits[i].Report != nil {
			user.Credits[i].Report.ID = dbUser.Credits[i].Report.ID
		}
	}
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByResetToken matches the stored token and requires the expiry to be
// strictly after now. A token at its exact expiry instant is already invalid.
func (r *UserRepositoryImpl) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository. Select lists the mutable columns so
// clearing the reset token writes NULL instead of being skipped as a zero value.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	return r.db.WithContext(ctx).Model(&DBUser{ID: dbUser.ID}).
		Select("name", "email", "phone", "card_number", "password", "role", "reset_token", "reset_token_expiry").
		Updates(map[string]interface{}{
			"name":               dbUser.Name,
			"email":              dbUser.Email,
			"phone":              dbUser.Phone,
			"card_number":        dbUser.CardNumber,
			"password":           dbUser.PasswordHash,
			"role":               dbUser.Role,
			"reset_token":        dbUser.ResetToken,
			"reset_token_expiry": dbUser.ResetTokenExpiry,
		}).Error
}

// Delete implements domain.UserRepository. The row is removed outright so the
// unique email index frees the address for a later signup. Credits go with the
// user; their reports are standalone records and stay.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DBCredit{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&DBUser{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		Phone:            user.Phone,
		CardNumber:       user.CardNumber,
		PasswordHash:     user.PasswordHash,
		Role:             user.Role,
		ResetToken:       user.ResetToken,
		ResetTokenExpiry: user.ResetTokenExpiry,
	}
	for _, c := range user.Credits {
		dbCredit := DBCredit{
			ID:        c.ID,
			Type:      c.Type,
			ExpiresAt: c.ExpiresAt,
			HasReport: c.HasReport,
		}
		if c.Report != nil {
			dbCredit.Report = &DBReport{
				ID:           c.Report.ID,
				Type:         c.Report.Type,
				Registration: c.Report.Registration,
				Complete:     c.Report.Complete,
			}
		}
		dbUser.Credits = append(dbUser.Credits, dbCredit)
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:               dbUser.ID,
		Name:             dbUser.Name,
		Email:            dbUser.Email,
		Phone:            dbUser.Phone,
		CardNumber:       dbUser.CardNumber,
		PasswordHash:     dbUser.PasswordHash,
		Role:             dbUser.Role,
		ResetToken:       dbUser.ResetToken,
		ResetTokenExpiry: dbUser.ResetTokenExpiry,
		CreatedAt:        dbUser.CreatedAt,
		UpdatedAt:        dbUser.UpdatedAt,
	}
	for _, c := range dbUser.Credits {
		credit := domain.Credit{
			ID:        c.ID,
			UserID:    c.UserID,
			Type:      c.Type,
			ExpiresAt: c.ExpiresAt,
			HasReport: c.HasReport,
			ReportID:  c.ReportID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
		if c.Report != nil {
			credit.Report = &domain.Report{
				ID:           c.Report.ID,
				Type:         c.Report.Type,
				Registration: c.Report.Registration,
				Complete:     c.Report.Complete,
				CreatedAt:    c.Report.CreatedAt,
				UpdatedAt:    c.Report.UpdatedAt,
			}
		}
		user.Credits = append(user.Credits, credit)
	}
	return user
}

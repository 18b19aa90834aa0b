package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bobibcgroup/safespace/model"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(req model.CreateUserRequest) (*model.User, error) {
	var existing model.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleHR
	}

	prefs, _ := json.Marshal(model.DefaultNotificationPreferences())
	user := &model.User{
		Email:                   req.Email,
		Name:                    req.Name,
		Password:                string(hash),
		Role:                    role,
		NotificationPreferences: prefs,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}
	return user, nil
}

// EnsureAdmin seeds the bootstrap admin account when the users table is
// empty. Called once at startup.
func (s *UserService) EnsureAdmin(email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %v", err)
	}
	if count > 0 {
		return nil
	}
	_, err := s.CreateUser(model.CreateUserRequest{
		Email:    email,
		Name:     name,
		Password: password,
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("bootstrap admin account created")
	return nil
}

func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	return &user, nil
}

func (s *UserService) ListUsers() ([]model.User, error) {
	var users []model.User
	if err := s.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}
	return users, nil
}

// UpdateUser applies profile edits. Role changes are only honored for admin
// callers; everyone else may edit their own profile fields.
func (s *UserService) UpdateUser(id uint, callerRole string, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		var existing model.User
		err := s.db.Where("email = ?", *req.Email).First(&existing).Error
		if err == nil {
			return nil, ErrDuplicateEmail
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %v", err)
		}
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %v", hashErr)
		}
		updates["password"] = string(hash)
	}
	if req.Role != nil && callerRole == model.RoleAdmin {
		updates["role"] = *req.Role
	}
	if req.TelegramChatID != nil {
		updates["telegram_chat_id"] = *req.TelegramChatID
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %v", err)
		}
	}

	return s.GetUserByID(id)
}

func (s *UserService) UpdateNotificationPreferences(id uint, req model.UpdateNotificationPreferencesRequest) (*model.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences()
	if req.Telegram != nil {
		prefs.Telegram = *req.Telegram
	}
	if req.NewResponse != nil {
		prefs.NewResponse = *req.NewResponse
	}
	if req.DailyDigest != nil {
		prefs.DailyDigest = *req.DailyDigest
	}
	if req.WeeklyDigest != nil {
		prefs.WeeklyDigest = *req.WeeklyDigest
	}

	raw, _ := json.Marshal(prefs)
	if err := s.db.Model(user).Update("notification_preferences", raw).Error; err != nil {
		return nil, fmt.Errorf("failed to update preferences: %v", err)
	}

	return s.GetUserByID(id)
}

// DeleteUser removes a user. Self-deletion is always rejected. When the user
// owns campaigns or notes, a reassignment target is required and the owned
// rows are re-pointed to it in the same transaction as the delete.
func (s *UserService) DeleteUser(id uint, callerID uint, reassignTo *uint) error {
	if id == callerID {
		return ErrSelfDelete
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get user: %v", err)
		}

		var campaignCount, noteCount int64
		if err := tx.Model(&model.Campaign{}).Where("user_id = ?", id).Count(&campaignCount).Error; err != nil {
			return fmt.Errorf("failed to count campaigns: %v", err)
		}
		if err := tx.Model(&model.Note{}).Where("user_id = ?", id).Count(&noteCount).Error; err != nil {
			return fmt.Errorf("failed to count notes: %v", err)
		}

		hasData := campaignCount > 0 || noteCount > 0
		if hasData && reassignTo == nil {
			return &ReassignmentRequiredError{Campaigns: campaignCount, Notes: noteCount}
		}

		if reassignTo != nil {
			if *reassignTo == id {
				return ErrInvalidTarget
			}
			var target model.User
			if err := tx.Where("id = ?", *reassignTo).First(&target).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidTarget
				}
				return fmt.Errorf("failed to get reassignment target: %v", err)
			}

			if err := tx.Model(&model.Campaign{}).Where("user_id = ?", id).
				Update("user_id", *reassignTo).Error; err != nil {
				return fmt.Errorf("failed to reassign campaigns: %v", err)
			}
			if err := tx.Model(&model.Note{}).Where("user_id = ?", id).
				Update("user_id", *reassignTo).Error; err != nil {
				return fmt.Errorf("failed to reassign notes: %v", err)
			}
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %v", err)
		}
		return nil
	})
}

// Authenticate verifies credentials and returns the user on success.
func (s *UserService) Authenticate(email, password string) (*model.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

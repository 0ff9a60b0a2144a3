package services

import (
	"errors"
	"fmt"

	"github.com/dtran415/WarblerExercise/internal/models"
	"github.com/dtran415/WarblerExercise/pkg/utils"

	"gorm.io/gorm"
)

type UserService struct {
	db       *gorm.DB
	messages *MessageService
}

// NewUserService builds the service. messages is needed so the account
// cascade can drop cached copies of the deleted user's messages.
func NewUserService(db *gorm.DB, messages *MessageService) *UserService {
	return &UserService{
		db:       db,
		messages: messages,
	}
}

// ProfileUpdate carries the editable profile fields. Empty username or
// email leaves the current value in place; an empty image URL falls back
// to the default avatar.
type ProfileUpdate struct {
	Username       string
	Email          string
	Bio            string
	ImageURL       string
	HeaderImageURL string
}

// UserStats holds the counts shown on a profile page.
type UserStats struct {
	Messages  int64
	Following int64
	Followers int64
	Likes     int64
}

// Signup hashes the password and creates the user. The password is never
// stored in plaintext.
func (s *UserService) Signup(username, email, password, imageURL string) (*models.User, error) {
	if err := s.checkAvailability(username, email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hashedPassword,
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Unique index race: two signups can pass the pre-check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Authenticate returns the user iff the password verifies against the
// stored hash. Unknown usernames and wrong passwords are both reported
// as ErrInvalidCredentials.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Search lists users whose username contains q. An empty q lists all
// users.
func (s *UserService) Search(q string) ([]models.User, error) {
	var users []models.User
	query := s.db.Order("id")
	if q != "" {
		query = query.Where("username LIKE ?", "%"+q+"%")
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Follow creates the directed edge follower -> followed. Following
// someone twice is a no-op; following yourself is rejected.
func (s *UserService) Follow(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfAction
	}
	if _, err := s.Get(followedID); err != nil {
		return err
	}

	var existing models.Follow
	err := s.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(&models.Follow{FollowerID: followerID, FollowedID: followedID}).Error
}

// Unfollow removes the edge. Removing a missing edge is a no-op.
func (s *UserService) Unfollow(followerID, followedID uint) error {
	return s.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (s *UserService) IsFollowing(userID, otherID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

func (s *UserService) IsFollowedBy(userID, otherID uint) (bool, error) {
	return s.IsFollowing(otherID, userID)
}

// Followers lists the users following userID.
func (s *UserService) Followers(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.id").
		Find(&users).Error
	return users, err
}

// Following lists the users userID follows.
func (s *UserService) Following(userID uint) ([]models.User, error) {
	var users []models.User
	err := s.db.
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.id").
		Find(&users).Error
	return users, err
}

// UpdateProfile re-verifies the password before applying any changes.
func (s *UserService) UpdateProfile(id uint, password string, update ProfileUpdate) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if update.Username != "" && update.Username != user.Username {
		user.Username = update.Username
	}
	if update.Email != "" && update.Email != user.Email {
		user.Email = update.Email
	}
	if err := s.checkAvailability(user.Username, user.Email, user.ID); err != nil {
		return nil, err
	}

	user.Bio = update.Bio
	if update.ImageURL != "" {
		user.ImageURL = update.ImageURL
	} else {
		user.ImageURL = models.DefaultImageURL
	}
	if update.HeaderImageURL != "" {
		user.HeaderImageURL = update.HeaderImageURL
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// Delete removes the user and everything that hangs off it in one
// transaction: likes on the user's messages, the user's own likes,
// follow edges in both directions, the user's messages, then the row
// itself.
func (s *UserService) Delete(id uint) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var messageIDs []uint
	if err := tx.Model(&models.Message{}).Where("user_id = ?", id).Pluck("id", &messageIDs).Error; err != nil {
		tx.Rollback()
		return err
	}

	if len(messageIDs) > 0 {
		if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.Like{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.User{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	// Cached copies of the deleted messages must go too, or lookups keep
	// serving them until the TTL runs out.
	if s.messages != nil {
		s.messages.invalidateAll(messageIDs)
	}
	return nil
}

// Stats returns the counts shown on the profile page.
func (s *UserService) Stats(id uint) (UserStats, error) {
	var stats UserStats
	if err := s.db.Model(&models.Message{}).Where("user_id = ?", id).Count(&stats.Messages).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", id).Count(&stats.Following).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Follow{}).Where("followed_id = ?", id).Count(&stats.Followers).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&models.Like{}).Where("user_id = ?", id).Count(&stats.Likes).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// checkAvailability surfaces uniqueness conflicts before the insert so
// the form can re-render with a readable message. excludeID skips the
// user's own row on profile edits.
func (s *UserService) checkAvailability(username, email string, excludeID uint) error {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	if err := s.db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

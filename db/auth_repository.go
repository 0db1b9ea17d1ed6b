package db

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(user *models.User) (*models.User, error)
	CreateSocialUser(params *models.CreateSocialUserParams) (*models.User, error)
	IsEmailExist(email string) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
	GetAllUsersExcept(userID uint) ([]models.User, error)
	UpdateUser(user *models.User) error
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	UpdatePassword(password string, email string) error
	UpdateUserOnlineStatus(userID uint, online bool) error
	AddToBlackList(blacklist *models.Blacklist) error
	IsTokenInBlacklist(token string) bool
	UpsertUserImage(userID uint, filepath string) error
	SaveDeviceToken(token *models.DeviceToken) error
	GetDeviceTokens(userIDs []uint) ([]models.DeviceToken, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	result := a.DB.Create(user)
	if result.Error != nil {
		log.Printf("CreateUser error: %v", result.Error)
		return nil, result.Error
	}
	return user, nil
}

// CreateSocialUser registers a user coming from a social provider. No
// password is stored for these accounts.
func (a *authRepo) CreateSocialUser(params *models.CreateSocialUserParams) (*models.User, error) {
	user := &models.User{
		Name:         params.Name,
		Email:        params.Email,
		IsSocial:     true,
		ThumbNailURL: params.Picture,
	}
	if err := a.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("could not create user: %v", err)
	}
	return user, nil
}

func (a *authRepo) IsEmailExist(email string) error {
	var count int64
	err := a.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return errors.New("email already in use")
	}
	return nil
}

func (a *authRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

func (a *authRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	err := a.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsersExcept returns every registered user but the given one, newest
// first (the people list).
func (a *authRepo) GetAllUsersExcept(userID uint) ([]models.User, error) {
	var users []models.User
	err := a.DB.Where("id <> ?", userID).Order("created_at desc").Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list users")
	}
	return users, nil
}

func (a *authRepo) UpdateUser(user *models.User) error {
	return a.DB.Save(user).Error
}

func (a *authRepo) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	updates := map[string]interface{}{}
	if details.Name != "" {
		updates["name"] = details.Name
	}
	if details.ThumbNailURL != "" {
		updates["thumb_nail_url"] = details.ThumbNailURL
	}
	if len(updates) == 0 {
		return nil
	}
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (a *authRepo) UpdatePassword(password string, email string) error {
	result := a.DB.Model(&models.User{}).Where("email = ?", email).Update("hashed_password", password)
	if result.Error != nil {
		return errors.Wrap(result.Error, "could not update password")
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *authRepo) UpdateUserOnlineStatus(userID uint, online bool) error {
	return a.DB.Model(&models.User{}).Where("id = ?", userID).Update("online", online).Error
}

func (a *authRepo) AddToBlackList(blacklist *models.Blacklist) error {
	return a.DB.Create(blacklist).Error
}

func (a *authRepo) IsTokenInBlacklist(token string) bool {
	var count int64
	if err := a.DB.Model(&models.Blacklist{}).Where("token = ?", token).Count(&count).Error; err != nil {
		log.Printf("blacklist lookup error: %v", err)
		return false
	}
	return count > 0
}

func (a *authRepo) UpsertUserImage(userID uint, filepath string) error {
	var img models.UserImage
	err := a.DB.Where("user_id = ?", userID).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a.DB.Create(&models.UserImage{UserID: userID, ThumbNailURL: filepath}).Error
	}
	if err != nil {
		return err
	}
	return a.DB.Model(&img).Update("thumb_nail_url", filepath).Error
}

func (a *authRepo) SaveDeviceToken(token *models.DeviceToken) error {
	var existing models.DeviceToken
	err := a.DB.Where("token = ?", token.Token).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a.DB.Create(token).Error
	}
	if err != nil {
		return err
	}
	return a.DB.Model(&existing).Update("user_id", token.UserID).Error
}

func (a *authRepo) GetDeviceTokens(userIDs []uint) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	if len(userIDs) == 0 {
		return tokens, nil
	}
	err := a.DB.Where("user_id IN ?", userIDs).Find(&tokens).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch device tokens")
	}
	return tokens, nil
}

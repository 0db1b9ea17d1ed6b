package services

import (
	"errors"
	"log"
	"net/http"

	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/mailingservices"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService interface
type AuthService interface {
	SignupUser(user *models.User) (*models.User, error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	GoogleLoginUser(authResponse *models.GoogleAuthResponse) (*models.LoginResponse, *apiError.Error)
	LogoutUser(accessToken string, email string) *apiError.Error
	GetUserProfile(userID uint) (*models.User, error)
	EditUserProfile(userID uint, details *models.EditProfileRequest) error
	GetAllUsersExcept(userID uint) ([]models.User, error)
	SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error
	ResetPassword(request *models.ResetPassword, token string) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mail     mailingservices.Mailer
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, mail mailingservices.Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mail:     mail,
	}
}

func (s *authService) SignupUser(user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := models.ValidateWhiteSpaces(user); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	if err := s.authRepo.IsEmailExist(user.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashedPassword)
	user.Password = ""

	created, err := s.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return created, nil
}

// LoginUser logs in a user and returns the login response with a token pair
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnprocessableEntity)
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if foundUser.IsSocial {
		return nil, apiError.New("account uses social sign-in", http.StatusUnprocessableEntity)
	}
	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	return a.buildLoginResponse(foundUser)
}

// GoogleLoginUser signs a social user in, registering them on first contact.
func (a *authService) GoogleLoginUser(authResponse *models.GoogleAuthResponse) (*models.LoginResponse, *apiError.Error) {
	if authResponse == nil || authResponse.Email == "" {
		return nil, apiError.ErrUnauthorized
	}

	foundUser, err := a.authRepo.FindUserByEmail(authResponse.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		foundUser, err = a.authRepo.CreateSocialUser(&models.CreateSocialUserParams{
			Email:   authResponse.Email,
			Name:    authResponse.Name,
			Picture: authResponse.Picture,
		})
	}
	if err != nil {
		log.Printf("GoogleLoginUser error: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return a.buildLoginResponse(foundUser)
}

func (a *authService) buildLoginResponse(user *models.User) (*models.LoginResponse, *apiError.Error) {
	accessToken, refreshToken, err := jwt.GenerateTokenPair(user.Email, a.Config.JWTSecret, user.ID)
	if err != nil {
		log.Printf("error generating token pair: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := a.authRepo.UpdateUserOnlineStatus(user.ID, true); err != nil {
		log.Printf("error setting user online: %v", err)
	}

	return &models.LoginResponse{
		UserResponse: user.Response(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// LogoutUser blacklists the access token and flips the user offline
func (a *authService) LogoutUser(accessToken string, email string) *apiError.Error {
	blacklist := &models.Blacklist{
		Email: email,
		Token: accessToken,
	}
	if err := a.authRepo.AddToBlackList(blacklist); err != nil {
		log.Printf("LogoutUser error: %v", err)
		return apiError.ErrInternalServerError
	}

	user, err := a.authRepo.FindUserByEmail(email)
	if err == nil {
		if err := a.authRepo.UpdateUserOnlineStatus(user.ID, false); err != nil {
			log.Printf("error setting user offline: %v", err)
		}
	}
	return nil
}

func (a *authService) GetUserProfile(userID uint) (*models.User, error) {
	return a.authRepo.FindUserByID(userID)
}

func (a *authService) EditUserProfile(userID uint, details *models.EditProfileRequest) error {
	if err := models.ValidateWhiteSpaces(details); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}
	return a.authRepo.EditUserProfile(userID, details)
}

func (a *authService) GetAllUsersExcept(userID uint) ([]models.User, error) {
	return a.authRepo.GetAllUsersExcept(userID)
}

// SendEmailForPasswordReset mails a short-lived reset link
func (a *authService) SendEmailForPasswordReset(request *models.ForgotPassword) *apiError.Error {
	foundUser, err := a.authRepo.FindUserByEmail(request.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address is registered.
			return nil
		}
		log.Printf("SendEmailForPasswordReset error: %v", err)
		return apiError.ErrInternalServerError
	}
	if foundUser.IsSocial {
		return apiError.New("account uses social sign-in", http.StatusUnprocessableEntity)
	}

	resetToken, err := jwt.GeneratePasswordResetToken(foundUser.Email, a.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	link := a.Config.BaseUrl + "/password/reset/" + resetToken
	if _, err := a.mail.SendResetPasswordMail(foundUser.Email, link); err != nil {
		log.Printf("error sending reset mail: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

// ResetPassword verifies the reset token and updates the stored hash
func (a *authService) ResetPassword(request *models.ResetPassword, token string) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("passwords do not match", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.ErrUnauthorized
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return apiError.ErrUnauthorized
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ResetPassword error hashing password: %v", err)
		return apiError.ErrInternalServerError
	}

	if err := a.authRepo.UpdatePassword(string(hashedPassword), email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("user not found", http.StatusNotFound)
		}
		log.Printf("ResetPassword error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

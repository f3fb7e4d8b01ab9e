package service

import (
	"context"
	"errors"
	"time"

	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/repository"
	"github.com/ohsj/linkple-backend/pkg/logger"
	"github.com/ohsj/linkple-backend/pkg/redis"
	"github.com/ohsj/linkple-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleAlreadySet     = errors.New("role already selected")
	ErrInvalidRole        = errors.New("invalid role")
)

type AuthService interface {
	Register(email, password, name, phone string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, token string) error
	SelectRole(userID uint, role model.UserRole) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, name, phone, nickname, profileImage string) (*model.User, error)
	GetPendingUsers(limit, offset int) ([]model.User, int64, error)
	SetApproval(userID uint, approved bool) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(email, password, name, phone string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// 역할은 가입 후 별도 선택, 닉네임은 자동 생성
	user := &model.User{
		Email:          email,
		PasswordHash:   hashedPassword,
		Name:           name,
		Nickname:       util.GenerateNickname(),
		Phone:          phone,
		Role:           model.RoleUnset,
		ApprovalStatus: model.ApprovalPending,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"email":    email,
		"nickname": user.Nickname,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

// Logout 액세스 토큰을 남은 유효 기간 동안 블랙리스트에 등록
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		// 이미 만료된 토큰은 블랙리스트가 필요 없음
		if errors.Is(err, util.ErrExpiredToken) {
			return nil
		}
		return err
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("Failed to blacklist token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

// SelectRole 가입 후 1회 역할 선택. 이미 선택한 역할은 변경 불가
// 기존 토큰에는 이전 역할이 담겨 있으므로 새 토큰 쌍을 함께 발급한다
func (s *authService) SelectRole(userID uint, role model.UserRole) (*model.User, *util.TokenPair, error) {
	if role != model.RoleInfluencer && role != model.RoleAdvertiser {
		return nil, nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for role selection", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}

	if user.Role != model.RoleUnset {
		logger.Warn("Role selection rejected: role already set", map[string]interface{}{
			"user_id":      userID,
			"current_role": user.Role,
		})
		return nil, nil, ErrRoleAlreadySet
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"role": role}); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return nil, nil, err
	}

	user.Role = role

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.Role), s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate token pair after role selection", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}

	logger.Info("User role selected", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, phone, nickname, profileImage string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	updated := false
	if name != "" && name != user.Name {
		user.Name = name
		updated = true
	}
	if phone != "" && phone != user.Phone {
		user.Phone = phone
		updated = true
	}
	if nickname != "" && nickname != user.Nickname {
		user.Nickname = nickname
		updated = true
	}
	if profileImage != "" && profileImage != user.ProfileImage {
		user.ProfileImage = profileImage
		updated = true
	}

	if !updated {
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id":  user.ID,
		"nickname": user.Nickname,
	})

	return user, nil
}

// GetPendingUsers 승인 대기 사용자 목록 (관리자용)
func (s *authService) GetPendingUsers(limit, offset int) ([]model.User, int64, error) {
	users, total, err := s.userRepo.FindPendingApproval(limit, offset)
	if err != nil {
		logger.Error("Failed to fetch pending users", err, nil)
		return nil, 0, err
	}
	return users, total, nil
}

// SetApproval 가입 승인/거절 처리 (관리자용)
func (s *authService) SetApproval(userID uint, approved bool) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for approval", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	status := model.ApprovalRejected
	if approved {
		status = model.ApprovalApproved
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"approval_status": status}); err != nil {
		logger.Error("Failed to update approval status", err, map[string]interface{}{
			"user_id": userID,
			"status":  status,
		})
		return nil, err
	}

	logger.Info("User approval status updated", map[string]interface{}{
		"user_id": userID,
		"status":  status,
	})

	user.ApprovalStatus = status
	return user, nil
}

package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/dto"
	"github.com/lumina-edu/lumina_api/model"
	"github.com/lumina-edu/lumina_api/shared"
)

type AuthService struct {
	appContext.DefaultService

	db     *PostgresService
	jwtSvc *JWTService
	cache  *CacheService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *appContext.Context) error {
	svc.db = ctx.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = ctx.Service(JWT_SVC).(*JWTService)
	svc.cache = ctx.Service(CACHE_SVC).(*CacheService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	return nil
}

// ==================== REGISTRATION & LOGIN ====================

func (svc *AuthService) Register(req dto.RegisterRequest, ipAddress, userAgent string) (*dto.RegisterResponse, error) {
	if existing, _ := svc.db.Users().GetUserByEmail(req.Email); existing != nil {
		return nil, shared.NewConflictError("Email already registered", nil)
	}
	if existing, _ := svc.db.Users().GetUserByUsername(req.Username); existing != nil {
		return nil, shared.NewConflictError("Username already taken", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = shared.RoleStudent
	}

	user := &model.User{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		GradeLevel:   req.GradeLevel,
		SchoolID:     req.SchoolID,
	}

	if _, err := svc.db.Users().CreateUser(user); err != nil {
		return nil, svc.db.HandleError(err)
	}

	svc.recordSecurityEvent(user.ID, "register", ipAddress, userAgent, true, "")

	return &dto.RegisterResponse{
		UserID:  user.ID,
		Message: "Registration successful",
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	user, err := svc.db.Users().GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		svc.recordSecurityEvent("", "login_failed", ipAddress, userAgent, false, "unknown user")
		return nil, shared.NewUnauthorizedError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		svc.recordSecurityEvent(user.ID, "login_failed", ipAddress, userAgent, false, "bad password")
		return nil, shared.NewUnauthorizedError("Invalid credentials")
	}

	tokens, sessionID, err := svc.issueSession(user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	if err := svc.db.Users().UpdateUser(user); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	svc.recordSecurityEvent(user.ID, "login", ipAddress, userAgent, true, "")

	return &dto.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		SessionID:    sessionID,
		User:         userInfo(user),
	}, nil
}

func (svc *AuthService) RefreshToken(req dto.RefreshTokenRequest, ipAddress, userAgent string) (*dto.TokenPair, error) {
	session, err := svc.db.Users().GetSessionByRefreshToken(req.RefreshToken)
	if err != nil {
		svc.recordSecurityEvent("", "refresh_failed", ipAddress, userAgent, false, "unknown token")
		return nil, shared.NewUnauthorizedError("Invalid refresh token")
	}

	if time.Now().After(session.ExpiresAt) {
		svc.recordSecurityEvent(session.UserID, "refresh_failed", ipAddress, userAgent, false, "expired token")
		return nil, shared.NewUnauthorizedError("Refresh token expired")
	}

	user, err := svc.db.Users().GetUser(session.UserID)
	if err != nil {
		return nil, shared.NewUnauthorizedError("Invalid refresh token")
	}

	// Rotate: the presented token is single use.
	if err := svc.db.Users().RevokeSession(session.ID); err != nil {
		return nil, svc.db.HandleError(err)
	}

	tokens, _, err := svc.issueSession(user, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (svc *AuthService) Logout(userID string) error {
	if err := svc.db.Users().RevokeAllUserSessions(userID); err != nil {
		return svc.db.HandleError(err)
	}

	// Drop every cached family for this user so nothing survives across
	// the auth transition.
	svc.cache.InvalidateFamilies(context.Background(), userID,
		"content", "progress", "stats", "notifications", "projects", "achievements", "presence")

	return nil
}

func (svc *AuthService) ChangePassword(userID string, req dto.ChangePasswordRequest, ipAddress, userAgent string) error {
	user, err := svc.db.Users().GetUser(userID)
	if err != nil {
		return svc.db.HandleError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		svc.recordSecurityEvent(userID, "password_change_failed", ipAddress, userAgent, false, "bad current password")
		return shared.NewUnauthorizedError("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewInternalError(err, "Failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := svc.db.Users().UpdateUser(user); err != nil {
		return svc.db.HandleError(err)
	}

	if err := svc.db.Users().RevokeAllUserSessions(userID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Failed to revoke sessions after password change")
	}

	svc.recordSecurityEvent(userID, "password_change", ipAddress, userAgent, true, "")
	return nil
}

func (svc *AuthService) issueSession(user *model.User, ipAddress, userAgent string) (*dto.TokenPair, string, error) {
	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, "", shared.NewInternalError(err, "Failed to generate tokens")
	}

	refreshToken := uuid.NewString()
	session := &model.UserSession{
		ID:           uuid.Must(uuid.NewV7()).String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ClientIP:     ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    time.Now().Add(svc.jwtSvc.RefreshTokenDuration),
	}
	if _, err := svc.db.Users().CreateSession(session); err != nil {
		return nil, "", svc.db.HandleError(err)
	}

	tokens.RefreshToken = refreshToken
	return tokens, session.ID, nil
}

func (svc *AuthService) GetProfile(userID string) (*dto.UserInfo, error) {
	user, err := svc.db.Users().GetUser(userID)
	if err != nil {
		// A valid token for a user that no longer exists is an anomaly:
		// record it, kill any surviving sessions, and fail closed.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			svc.recordSecurityEvent(userID, "token_for_deleted_user", "", "", false, "")
			if revokeErr := svc.db.Users().RevokeAllUserSessions(userID); revokeErr != nil {
				log.WithError(revokeErr).WithField("user_id", userID).Warn("Failed to revoke sessions for deleted user")
			}
			return nil, shared.NewUnauthorizedError("Account no longer exists")
		}
		return nil, svc.db.HandleError(err)
	}
	info := userInfo(user)
	return &info, nil
}

func userInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		Role:       user.Role,
		GradeLevel: user.GradeLevel,
		SchoolID:   user.SchoolID,
		CreatedAt:  user.CreatedAt,
		LastLogin:  user.LastLogin,
	}
}

// ==================== ADMIN ====================

func (svc *AuthService) ListUsers(page, limit int, search string) (*dto.AdminUserListResponse, error) {
	users, total, err := svc.db.Users().ListUsers(page, limit, search)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, userInfo(&users[i]))
	}

	return &dto.AdminUserListResponse{
		Users: infos,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (svc *AuthService) AdminUpdateUser(userID string, req dto.AdminUpdateUserRequest) (*dto.UserInfo, error) {
	user, err := svc.db.Users().GetUser(userID)
	if err != nil {
		return nil, svc.db.HandleError(err)
	}

	if req.Role != "" {
		user.Role = req.Role
	}
	if req.GradeLevel != 0 {
		user.GradeLevel = req.GradeLevel
	}

	if err := svc.db.Users().UpdateUser(user); err != nil {
		return nil, svc.db.HandleError(err)
	}

	info := userInfo(user)
	return &info, nil
}

// ==================== MIDDLEWARE ====================

// RequiredAuth verifies the bearer token and stashes user id and role in
// locals. Fails closed: any verification error is a 401.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// RequireRole gates a route to the listed roles. Runs after RequiredAuth.
// Denials are recorded as security events.
func (svc *AuthService) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(shared.UserRole).(string)
		userID, _ := c.Locals(shared.UserID).(string)

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		svc.recordSecurityEvent(userID, "access_denied", c.IP(), c.Get("User-Agent"), false, c.Path())
		return shared.ResponseJSON(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
	}
}

func (svc *AuthService) recordSecurityEvent(userID, eventType, ipAddress, userAgent string, success bool, details string) {
	event := &model.SecurityEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		EventType: eventType,
		Success:   success,
		Detail:    details,
		ClientIP:  ipAddress,
		UserAgent: userAgent,
	}

	// Best effort, never blocks the auth path.
	go func() {
		if err := svc.db.Users().CreateSecurityEvent(event); err != nil {
			log.WithError(err).WithField("event_type", eventType).Error("Failed to record security event")
		}
	}()
}

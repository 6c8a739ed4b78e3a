package user

import (
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cbcshop/backend/internal/auth"
	"github.com/cbcshop/backend/internal/httpx"
)

// Mailer delivers OTP codes; satisfied by email.Service.
type Mailer interface {
	SendOTP(to string, code int) error
}

type Handler struct {
	repo   Repository
	otps   OTPRepository
	jwt    *auth.JWTService
	mail   Mailer
	google *GoogleClient
}

func NewHandler(repo Repository, otps OTPRepository, jwtSvc *auth.JWTService, mail Mailer, google *GoogleClient) *Handler {
	return &Handler{repo: repo, otps: otps, jwt: jwtSvc, mail: mail, google: google}
}

// Register creates an account. Only an authenticated admin may create another
// admin account.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email, firstName, lastName and password are required"})
		return
	}

	if req.Role == RoleAdmin {
		claims := httpx.RequesterFrom(c)
		if claims == nil || claims.Role != RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to create admin accounts"})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	img := req.Img
	if img == "" {
		img = defaultImg
	}
	u := &User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		Role:      role,
		Img:       img,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already exists"})
			return
		}
		log.Printf("[user] register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error registering user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": u})
}

func (h *Handler) issueToken(c *gin.Context, u *User) {
	token, err := h.jwt.Generate(u.Email, u.FirstName, u.LastName, u.Role, u.Img)
	if err != nil {
		log.Printf("[user] token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[user] login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}
	if u.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "Your account has been blocked"})
		return
	}
	if !auth.CheckPassword(req.Password, u.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password"})
		return
	}
	h.issueToken(c, u)
}

// LoginWithGoogle exchanges a Google OAuth access token for a session,
// provisioning a customer account on first login.
func (h *Handler) LoginWithGoogle(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "accessToken is required"})
		return
	}

	ctx := c.Request.Context()
	gu, err := h.google.FetchUserInfo(ctx, req.AccessToken)
	if err != nil {
		log.Printf("[user] google userinfo failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google access token"})
		return
	}

	u, err := h.repo.GetByEmail(ctx, gu.Email)
	if errors.Is(err, ErrNotFound) {
		// Random throwaway password: the account only ever logs in via Google.
		hash, herr := auth.HashPassword(randomPassword())
		if herr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
			return
		}
		u = &User{
			Email:     gu.Email,
			FirstName: gu.GivenName,
			LastName:  gu.FamilyName,
			Password:  hash,
			Role:      RoleCustomer,
			Img:       gu.Picture,
		}
		if u.Img == "" {
			u.Img = defaultImg
		}
		if cerr := h.repo.Create(ctx, u); cerr != nil && !errors.Is(cerr, ErrAlreadyExist) {
			log.Printf("[user] google provisioning failed: %v", cerr)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
			return
		}
	} else if err != nil {
		log.Printf("[user] google login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error logging in"})
		return
	}
	if u.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "Your account has been blocked"})
		return
	}
	h.issueToken(c, u)
}

// Me returns the authenticated user's stored profile.
func (h *Handler) Me(c *gin.Context) {
	claims := httpx.RequesterFrom(c)
	u, err := h.repo.GetByEmail(c.Request.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[user] me failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// List returns all users (admin, route-gated).
func (h *Handler) List(c *gin.Context) {
	users, err := h.repo.List(c.Request.Context())
	if err != nil {
		log.Printf("[user] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.repo.GetByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[user] send otp failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	code := 100000 + rand.Intn(900000)
	otp := &OTP{Email: req.Email, Code: code, CreatedAt: time.Now().UTC()}
	if err := h.otps.Save(ctx, otp); err != nil {
		log.Printf("[user] otp save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if err := h.mail.SendOTP(req.Email, code); err != nil {
		log.Printf("[user] otp mail failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send OTP email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email"})
}

func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and otp are required"})
		return
	}

	if _, err := h.otps.Find(c.Request.Context(), req.Email, req.OTP); err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invalid or expired OTP"})
			return
		}
		log.Printf("[user] verify otp failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP is valid"})
}

// ResetPassword consumes a valid OTP and sets the new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == 0 || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email, otp and newPassword are required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.otps.Find(ctx, req.Email, req.OTP); err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invalid or expired OTP"})
			return
		}
		log.Printf("[user] reset password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := h.repo.UpdatePassword(ctx, req.Email, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[user] reset password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if err := h.otps.DeleteByEmail(ctx, req.Email); err != nil {
		log.Printf("[user] otp cleanup failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPassword() string {
	b := make([]byte, 24)
	for i := range b {
		b[i] = passwordAlphabet[rand.Intn(len(passwordAlphabet))]
	}
	return string(b)
}

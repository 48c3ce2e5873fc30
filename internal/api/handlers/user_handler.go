package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/api/middleware"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/utils"
)

type UserHandler struct {
	svc services.UserService

	cookieMaxAge int // seconds
	secureCookie bool
	maxUpload    int64
}

func NewUserHandler(svc services.UserService, cookieMaxAge int, secureCookie bool, maxUpload int64) *UserHandler {
	return &UserHandler{svc: svc, cookieMaxAge: cookieMaxAge, secureCookie: secureCookie, maxUpload: maxUpload}
}

type RegisterRequest struct {
	FullName    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Password    string `json:"password" form:"password"`
	Role        string `json:"role" form:"role"`
}

func (h *UserHandler) Register(c *gin.Context) {
	const op = "UserHandler.Register"

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	photo, closeFn, err := formFile(c, op, "file", h.maxUpload)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeFn()

	if _, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Photo:       photo,
	}); err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Account created successfully.", nil)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UserHandler.Login", "invalid request body", err))
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, sess.Token, h.cookieMaxAge, "/", "", h.secureCookie, true)
	respond(c, http.StatusOK, "Welcome back "+sess.User.FullName, gin.H{"user": sess.User})
}

func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	respond(c, http.StatusOK, "Logged out successfully.", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	u, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "User found.", gin.H{"user": u})
}

type UpdateProfileRequest struct {
	FullName    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Bio         string `json:"bio" form:"bio"`
	Skills      string `json:"skills" form:"skills"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	const op = "UserHandler.UpdateProfile"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}
	resume, closeFn, err := formFile(c, op, "file", h.maxUpload)
	if err != nil {
		writeError(c, err)
		return
	}
	defer closeFn()

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, services.ProfileUpdate{
		FullName:    optional(req.FullName),
		Email:       optional(req.Email),
		PhoneNumber: optional(req.PhoneNumber),
		Bio:         optional(req.Bio),
		Skills:      optional(req.Skills),
		Resume:      resume,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated successfully.", gin.H{"user": u})
}

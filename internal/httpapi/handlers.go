package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/common"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/logging"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/users"
	"github.com/labstack/echo/v4"
)

// UserService is the slice of the account service the handlers call.
type UserService interface {
	SignUp(ctx context.Context, email, password, profileName, fileName, contentType string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, email string) (*users.User, error)
	NewUploadURL(ctx context.Context, email, fileName, contentType string) (string, error)
}

type Handler struct {
	logger logging.Logger
	users  UserService
}

func NewHandler(logger logging.Logger, users UserService) *Handler {
	return &Handler{logger: logger, users: users}
}

// ----- DTOs -----

type signupRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ProfileName string `json:"profileName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type uploadImageRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// ----- handlers -----

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK"})
}

// SignUp creates the account record and hands back the presigned URL the
// client uploads the profile image to. Every failure collapses to a single
// 500, matching the endpoint's one-transition contract.
func (h *Handler) SignUp(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	ctx := c.Request().Context()

	uploadURL, err := h.users.SignUp(ctx, req.Email, req.Password, req.ProfileName, req.Filename, req.ContentType)
	if err != nil {
		h.logger.Error(ctx, "signup failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	h.logger.Info(ctx, "user signed up", "email", req.Email)
	return c.JSON(http.StatusOK, echo.Map{"uploadURL": uploadURL})
}

// Login verifies credentials and issues a bearer token. The two 401 bodies
// stay distinguishable (unknown email vs. wrong password), as in the
// original service.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	ctx := c.Request().Context()

	token, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "1: Invalid email or password."})
		case errors.Is(err, common.ErrorUnauthorized):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "2: Invalid email or password."})
		default:
			h.logger.Error(ctx, "login failed", "error", err.Error())
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful.", "token": token})
}

// Profile returns the authenticated user's profile fields.
func (h *Handler) Profile(c echo.Context) error {
	email, _ := c.Get(emailContextKey).(string)
	ctx := c.Request().Context()

	user, err := h.users.Profile(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		h.logger.Error(ctx, "profile fetch failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"profileName": user.ProfileName,
		"email":       user.Email,
		"imageUrl":    user.ImageURL,
	})
}

// UploadImage presigns a replacement-image upload URL and repoints the
// record's image URL at the new object.
func (h *Handler) UploadImage(c echo.Context) error {
	var req uploadImageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	email, _ := c.Get(emailContextKey).(string)
	ctx := c.Request().Context()

	preSignedURL, err := h.users.NewUploadURL(ctx, email, req.FileName, req.ContentType)
	if err != nil {
		h.logger.Error(ctx, "image update failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"preSignedUrl": preSignedURL})
}

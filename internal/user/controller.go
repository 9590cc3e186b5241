package user

import (
	"context"
	"errors"
	"net/http"

	"catalog_api/internal/auth"
	"catalog_api/internal/httpx"
	"catalog_api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TokenManager is the part of the token service the controller needs.
type TokenManager interface {
	Issue(userID int64) (string, error)
	Invalidate(ctx context.Context, token string) error
}

type UserController struct {
	userService UserServiceInterface
	tokens      TokenManager
}

func NewUserController(userService UserServiceInterface, tokens TokenManager) *UserController {
	return &UserController{
		userService: userService,
		tokens:      tokens,
	}
}

// validate decodes and checks the body. It writes the failure response
// itself and returns ok=false when the handler must stop.
func (a *UserController) validate(c *gin.Context, set validation.Set) (validation.Input, bool) {
	in, err := httpx.BindInput(c)
	if err != nil {
		httpx.MalformedBody(c)
		return nil, false
	}

	res, err := validation.Validate(c.Request.Context(), in, set)
	if err != nil {
		httpx.InternalError(c, err, "Failed to validate request")
		return nil, false
	}
	if !res.Valid() {
		httpx.ValidationFailed(c, res.Errors)
		return nil, false
	}
	return in, true
}

// Register handles user registration
func (a *UserController) Register(c *gin.Context) {
	in, ok := a.validate(c, registerRules(a.userService))
	if !ok {
		return
	}

	user, err := a.userService.CreateUser(c.Request.Context(),
		validation.Str(in["name"]),
		validation.Str(in["email"]),
		validation.Str(in["password"]),
	)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.ValidationFailed(c, []string{validation.UniqueMessage("email")})
			return
		}
		httpx.InternalError(c, err, "Failed to create user")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		httpx.InternalError(c, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Summary(),
	})
}

// Login checks credentials and returns a bearer token
func (a *UserController) Login(c *gin.Context) {
	in, ok := a.validate(c, loginRules())
	if !ok {
		return
	}

	user, err := a.userService.Authenticate(c.Request.Context(), validation.Str(in["email"]), validation.Str(in["password"]))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "invalid_credentials",
			})
			return
		}
		httpx.InternalError(c, err, "Failed to authenticate user")
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "could_not_create_token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user.Summary(),
	})
}

// ExpireToken invalidates the bearer token of the current request
func (a *UserController) ExpireToken(c *gin.Context) {
	token := c.GetString(auth.TokenKey)

	entry := logrus.NewEntry(logrus.StandardLogger())
	if userID, err := auth.GetUserIDFromContext(c); err == nil {
		entry = entry.WithField("user_id", userID)
	}

	if err := a.tokens.Invalidate(c.Request.Context(), token); err != nil {
		entry.WithError(err).Warn("Failed to invalidate token")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"message": "Logout failed",
			"error":   expireErrorMessage(err),
		})
		return
	}

	entry.Info("Token invalidated")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout success",
	})
}

func expireErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenNotProvided):
		return "A token is required"
	case errors.Is(err, auth.ErrTokenAlreadyInvalidated):
		return "The token has already been invalidated"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Could not decode token"
	}
	return "Could not invalidate token"
}

func (a *UserController) GetAllUsers(c *gin.Context) {
	users, err := a.userService.ListUsers(c.Request.Context())
	if err != nil {
		httpx.InternalError(c, err, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
	})
}

func (a *UserController) GetUser(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.NotFound(c, "User not found")
		return
	}

	user, err := a.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.NotFound(c, "User not found")
			return
		}
		httpx.InternalError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// UpdateUser replaces name, email and password of the user named in the body
func (a *UserController) UpdateUser(c *gin.Context) {
	in, ok := a.validate(c, updateRules(a.userService))
	if !ok {
		return
	}

	id, err := validation.Int64(in["id"])
	if err != nil || id <= 0 {
		httpx.NotFound(c, "User not found")
		return
	}

	user, err := a.userService.UpdateUser(c.Request.Context(), id,
		validation.Str(in["name"]),
		validation.Str(in["email"]),
		validation.Str(in["password"]),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httpx.NotFound(c, "User not found")
		case errors.Is(err, ErrEmailTaken):
			httpx.ValidationFailed(c, []string{validation.UniqueMessage("email")})
		default:
			httpx.InternalError(c, err, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (a *UserController) DeleteUser(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.NotFound(c, "User not found")
		return
	}

	if err := a.userService.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.NotFound(c, "User not found")
			return
		}
		httpx.InternalError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

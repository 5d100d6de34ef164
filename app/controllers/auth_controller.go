package controllers

import (
	"net/http"

	"github.com/angotech/angotech/app/services"
	"github.com/angotech/angotech/pkg/auth"
	"github.com/angotech/angotech/pkg/bind"
	"github.com/angotech/angotech/pkg/middleware"
	"github.com/angotech/angotech/pkg/response"
	"github.com/angotech/angotech/pkg/session"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type authPayload struct {
	User   userView            `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

// userView keeps password hashes and gorm bookkeeping out of responses.
type userView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Register(in.Name, in.Email, in.Password, session.CartToken(r))
	if err == services.ErrEmailTaken {
		response.Error(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not create account")
		return
	}

	// Guest cart has been merged into the account; drop the cookie.
	session.ClearCartToken(w)
	response.Created(w, authPayload{
		User:   userView{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Tokens: tokens,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, tokens, err := c.service.Login(in.Email, in.Password, session.CartToken(r))
	if err != nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	session.ClearCartToken(w)
	response.Success(w, authPayload{
		User:   userView{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		Tokens: tokens,
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ValidateToken(middleware.BearerToken(r))
	if err != nil {
		response.Unauthorized(w)
		return
	}
	if err := c.service.Logout(claims.ID, claims); err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not log out")
		return
	}
	response.Success(w, map[string]string{"message": "Logged out"})
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	tokens, err := c.service.Refresh(in.RefreshToken)
	if err != nil {
		response.Unauthorized(w, "Invalid refresh token")
		return
	}
	response.Success(w, tokens)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.service.Me(middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		response.NotFound(w, "User not found")
		return
	}
	response.Success(w, userView{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role})
}

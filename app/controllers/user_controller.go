package controllers

import (
	"errors"
	"net/http"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/response"
)

const userNotFound = "User not found"

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,notblank"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/users/register.
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.BadRequest(w, "Invalid user: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := c.users.Register(r.Context(), models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, services.ErrValidation):
		response.BadRequest(w, "Role must be 'farmer' or 'buyer'")
	case errors.Is(err, services.ErrConflict):
		response.BadRequest(w, "Email already exists")
	case err != nil:
		fail(w, r, err, userNotFound)
	default:
		response.Success(w, u)
	}
}

// Login handles POST /api/users/login.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	errs, err := bind.JSON(r, &req)
	if err != nil {
		response.BadRequest(w, "Invalid credentials: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := c.users.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		response.Unauthorized(w, "Invalid email or password")
	case err != nil:
		fail(w, r, err, userNotFound)
	default:
		response.Success(w, u)
	}
}

// Show handles GET /api/users/{email}.
func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	u, err := c.users.ByEmail(r.Context(), param(r, "email"))
	if err != nil {
		fail(w, r, err, userNotFound)
		return
	}
	response.Success(w, u)
}

// Update handles PUT /api/users/update/{email}.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	var changes services.UserChanges
	errs, err := bind.JSON(r, &changes)
	if err != nil {
		response.BadRequest(w, "Invalid user: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	u, err := c.users.Update(r.Context(), param(r, "email"), changes)
	switch {
	case errors.Is(err, services.ErrConflict):
		response.BadRequest(w, "Email already exists")
	case err != nil:
		fail(w, r, err, userNotFound)
	default:
		response.Success(w, u)
	}
}

package handlers

import (
	"errors"
	"strconv"

	"userhub/internal/middleware"
	"userhub/internal/response"
	"userhub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// SignUpRequest represents the request body for sign-up.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,max=30,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
	Nickname string `json:"nickname" validate:"required,max=20"`
}

// SignInRequest represents the request body for sign-in.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,max=30,email"`
	Password string `json:"password" validate:"required"`
}

// EditUserRequest represents the request body for a profile edit.
type EditUserRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

// validation failures keyed by "<Field>.<tag>"
var (
	signUpFailures = map[string]response.Status{
		"Email.required":    response.SignupEmailEmpty,
		"Email.max":         response.SignupEmailLength,
		"Email.email":       response.SignupEmailErrorType,
		"Password.required": response.SignupPasswordEmpty,
		"Password.min":      response.SignupPasswordLength,
		"Password.max":      response.SignupPasswordLength,
		"Nickname.required": response.SignupNicknameEmpty,
		"Nickname.max":      response.SignupNicknameLength,
	}
	signInFailures = map[string]response.Status{
		"Email.required":    response.SigninEmailEmpty,
		"Email.max":         response.SigninEmailLength,
		"Email.email":       response.SigninEmailErrorType,
		"Password.required": response.SigninPasswordEmpty,
	}
	editFailures = map[string]response.Status{
		"Nickname.required": response.UserNicknameEmpty,
	}
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	service  *services.UserService
	verifier middleware.TokenVerifier
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, verifier middleware.TokenVerifier, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		verifier: verifier,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.AuthRequired(h.verifier, h.logger)

	appRoutes := router.Group("/app")
	appRoutes.Post("/users", h.HandleSignUp)
	appRoutes.Post("/login", h.HandleSignIn)
	appRoutes.Get("/users/:userId", h.HandleGetUser)
	appRoutes.Patch("/users/:userId", auth, h.HandleEditUser)
	appRoutes.Get("/auto-login", auth, h.HandleAutoLogin)
}

// HandleSignUp registers a new account.
func (h *UserHandler) HandleSignUp(c *fiber.Ctx) error {
	var req SignUpRequest
	if status, ok := h.bind(c, &req, signUpFailures); !ok {
		return respond(c, response.New(status))
	}
	return respond(c, h.service.CreateUser(c.UserContext(), req.Email, req.Password, req.Nickname))
}

// HandleSignIn checks the credentials and issues a session token.
func (h *UserHandler) HandleSignIn(c *fiber.Ctx) error {
	var req SignInRequest
	if status, ok := h.bind(c, &req, signInFailures); !ok {
		return respond(c, response.New(status))
	}
	return respond(c, h.service.SignIn(c.UserContext(), req.Email, req.Password))
}

// HandleGetUser returns the public profile of a user.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	userID, status, ok := userIDParam(c)
	if !ok {
		return respond(c, response.New(status))
	}
	return respond(c, h.service.RetrieveUser(c.UserContext(), userID))
}

// HandleEditUser changes the nickname of the signed-in user.
func (h *UserHandler) HandleEditUser(c *fiber.Ctx) error {
	userID, status, ok := userIDParam(c)
	if !ok {
		return respond(c, response.New(status))
	}

	tokenUserIdx, _ := middleware.UserIdx(c)
	if tokenUserIdx != userID {
		return respond(c, response.New(response.UserIDNotMatch))
	}

	var req EditUserRequest
	if status, ok := h.bind(c, &req, editFailures); !ok {
		return respond(c, response.New(status))
	}
	return respond(c, h.service.EditUser(c.UserContext(), userID, req.Nickname))
}

// HandleAutoLogin confirms the session token and echoes its user index.
func (h *UserHandler) HandleAutoLogin(c *fiber.Ctx) error {
	userIdx, _ := middleware.UserIdx(c)
	return respond(c, response.New(response.TokenVerificationSuccess, fiber.Map{"userIdx": userIdx}))
}

// bind parses the body into req and validates it. On failure it returns the
// status of the first failing field.
func (h *UserHandler) bind(c *fiber.Ctx, req any, failures map[string]response.Status) (response.Status, bool) {
	if err := c.BodyParser(req); err != nil {
		h.logger.Warn().Err(err).Str("path", c.Path()).Msg("error parsing request body")
		return response.ServerError, false
	}

	err := h.validate.Struct(req)
	if err == nil {
		return response.Success, true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			if status, ok := failures[e.StructField()+"."+e.Tag()]; ok {
				return status, false
			}
		}
	}
	h.logger.Error().Err(err).Str("path", c.Path()).Msg("unmapped validation error")
	return response.ServerError, false
}

func userIDParam(c *fiber.Ctx) (int64, response.Status, bool) {
	raw := c.Params("userId")
	if raw == "" {
		return 0, response.UserUserIDEmpty, false
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 1 {
		return 0, response.UserUserIDNotExist, false
	}
	return userID, response.Success, true
}

func respond(c *fiber.Ctx, res response.Response) error {
	return c.Status(res.Status().HTTPStatus()).JSON(res)
}

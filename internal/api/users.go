package api

import (
	"errors"
	"memory-backend/internal/auth"
	"memory-backend/internal/database"
	"memory-backend/pkg/api"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type UserService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func NewUserService(db *gorm.DB, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, tokens: tokens}
}

func (s *UserService) AddRoutes(r chi.Router) {
	r.Post("/users", RestHandlerWithStatus(http.StatusCreated, s.Register))
	r.Post("/login", RestHandler(s.Login))
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(s.tokens, WriteError))
		r.Get("/users/me", RestHandler(s.CurrentUser))
	})
}

func (s *UserService) Register(r *http.Request) (any, error) {
	req, err := ParseRequest[api.UserCredentials](r)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid email address '%s'", email)
	}
	if len(req.Password) < minPasswordLength {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := database.User{Email: email, PasswordHash: hash}
	if err := database.CreateUser(r.Context(), s.db, &user); err != nil {
		return nil, err
	}

	return convertUser(user), nil
}

func (s *UserService) Login(r *http.Request) (any, error) {
	req, err := ParseRequest[api.UserCredentials](r)
	if err != nil {
		return nil, err
	}

	user, err := database.GetUserByEmail(r.Context(), s.db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, CodedErrorf(http.StatusUnauthorized, "incorrect email or password")
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, CodedErrorf(http.StatusUnauthorized, "incorrect email or password")
	}

	token, err := s.tokens.Issue(auth.Claims{UserId: strconv.FormatUint(uint64(user.Id), 10)})
	if err != nil {
		return nil, err
	}

	return api.Token{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *UserService) CurrentUser(r *http.Request) (any, error) {
	userId, ok := auth.UserIdFromContext(r.Context())
	if !ok {
		return nil, auth.ErrUnauthorized
	}

	id, err := strconv.ParseUint(userId, 10, 0)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}

	user, err := database.GetUser(r.Context(), s.db, uint(id))
	if err != nil {
		return nil, err
	}

	return convertUser(user), nil
}

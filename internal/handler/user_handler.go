package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/GoArmGo/MovieCatalog/internal/pagination"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// UserHandler serves /users.
type UserHandler struct {
	users    usecase.UserUseCase
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserHandler(users usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, validate: newValidator(), logger: logger}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, firstValidationError(err), h.logger)
		return
	}

	user, err := h.users.CreateUser(r.Context(), usecase.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}

	h.logger.Info("user created", "id", user.ID)
	respondWithData(w, http.StatusCreated, "User created successfully", user, h.logger)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	users, err := h.users.ListUsers(r.Context(), page)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithPage(w, users, "totalUsers", h.logger)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "", user, h.logger)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, firstValidationError(err), h.logger)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), chi.URLParam(r, "userId"), usecase.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "User updated successfully", user, h.logger)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DeleteUser(r.Context(), chi.URLParam(r, "userId")); err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

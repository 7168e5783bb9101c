package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dor-app/dor-backend-go/internal/domain/auth"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type UserHandler interface {
	GetProfile(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	AssignBranch(w http.ResponseWriter, r *http.Request)
	ChangeRole(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

// GetProfile implements UserHandler.
func (h *userHandlerImpl) GetProfile(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.userService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AssignBranch implements UserHandler.
func (h *userHandlerImpl) AssignBranch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	var req user.AssignBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignBranch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.AssignBranch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Branch assigned to user", "user_id", result.ID, "branch_id", req.BranchID)
	response.SuccessWithMessage(w, "Branch assignment updated", result)
}

// ChangeRole implements UserHandler.
func (h *userHandlerImpl) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "User ID is required", nil)
		return
	}

	var req user.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ChangeRole decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.userService.ChangeRole(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User role changed", "user_id", result.ID, "role", result.Role)
	response.SuccessWithMessage(w, "User role updated", result)
}

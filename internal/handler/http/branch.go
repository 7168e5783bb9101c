package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type BranchHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type branchHandlerImpl struct {
	branchService branch.BranchService
}

func NewBranchHandler(branchService branch.BranchService) BranchHandler {
	return &branchHandlerImpl{
		branchService: branchService,
	}
}

// Create implements BranchHandler.
func (h *branchHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req branch.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create branch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.branchService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Branch created", "branch_id", result.ID, "name", result.Name)
	response.Created(w, "Branch created successfully", result)
}

// Get implements BranchHandler.
func (h *branchHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Branch ID is required", nil)
		return
	}

	result, err := h.branchService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements BranchHandler.
func (h *branchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.branchService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements BranchHandler.
func (h *branchHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Branch ID is required", nil)
		return
	}

	var req branch.UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update branch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.branchService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Branch updated", "branch_id", result.ID)
	response.SuccessWithMessage(w, "Branch updated successfully", result)
}

// Delete implements BranchHandler.
func (h *branchHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Branch ID is required", nil)
		return
	}

	if err := h.branchService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Branch deleted", "branch_id", id)
	response.SuccessWithMessage(w, "Branch deleted successfully", nil)
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dor-app/dor-backend-go/internal/domain/attendance"
	"github.com/dor-app/dor-backend-go/internal/domain/location"
	"github.com/dor-app/dor-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// attendancePayload is the wire body of a check-in or check-out: the
// device's reported fix and the state of its location subsystem.
type attendancePayload struct {
	Location *location.Report `json:"location"`
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var payload attendancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var req attendance.CheckInRequest
	if payload.Location != nil {
		req.Gate = *payload.Location
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User checked in", "attendance_id", result.ID, "date", result.Date)
	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var payload attendancePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var req attendance.CheckOutRequest
	if payload.Location != nil {
		req.Gate = *payload.Location
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("User checked out", "attendance_id", result.ID, "date", result.Date)
	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendance.HistoryFilter{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		DateFrom: queryString(r, "date_from"),
		DateTo:   queryString(r, "date_to"),
	}

	result, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.ListFilter{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		UserID:   queryString(r, "user_id"),
		BranchID: queryString(r, "branch_id"),
		DateFrom: queryString(r, "date_from"),
		DateTo:   queryString(r, "date_to"),
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Attendances, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryString(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Clock(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	MySummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Clock implements AttendanceHandler.
func (h *attendanceHandlerImpl) Clock(w http.ResponseWriter, r *http.Request) {
	var req attendance.ClockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	h.clock(w, r, req.Kind)
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, string(attendance.KindClockIn))
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, string(attendance.KindClockOut))
}

func (h *attendanceHandlerImpl) clock(w http.ResponseWriter, r *http.Request, kind string) {
	req := attendance.ClockRequest{
		EmployeeID: middleware.EmployeeIDFromContext(r.Context()),
		Kind:       kind,
	}

	result, err := h.attendanceService.Clock(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock in successful"
	if result.Kind == string(attendance.KindClockOut) {
		message = "Clock out successful"
	}
	response.Created(w, message, result)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Status(r.Context(), middleware.EmployeeIDFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	filter := rangeFromQuery(r.URL.Query())

	result, err := h.attendanceService.MyHistory(r.Context(), middleware.EmployeeIDFromContext(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MySummary implements AttendanceHandler. GET reads the window from the
// query string and POST from the JSON body.
func (h *attendanceHandlerImpl) MySummary(w http.ResponseWriter, r *http.Request) {
	filter := attendance.SummaryFilter{
		EmployeeID: middleware.EmployeeIDFromContext(r.Context()),
	}

	if r.Method == http.MethodPost {
		var body attendance.RangeFilter
		if err := decodeJSON(w, r, &body); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
		filter.RangeFilter = body
	} else {
		filter.RangeFilter = rangeFromQuery(r.URL.Query())
	}

	result, err := h.attendanceService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

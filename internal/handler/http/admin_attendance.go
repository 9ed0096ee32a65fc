package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
)

type AdminAttendanceHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type adminAttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	keepalive         time.Duration
}

func NewAdminAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AdminAttendanceHandler {
	return &adminAttendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		keepalive:         30 * time.Second,
	}
}

// Summary implements AdminAttendanceHandler.
func (h *adminAttendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var filter attendance.SummaryFilter

	if r.Method == http.MethodPost {
		if err := decodeJSON(w, r, &filter); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	} else {
		query := r.URL.Query()
		filter.EmployeeID = query.Get("employee_id")
		filter.RangeFilter = rangeFromQuery(query)
	}

	result, err := h.attendanceService.Summary(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Search implements AdminAttendanceHandler.
func (h *adminAttendanceHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	var filter attendance.SearchFilter
	if err := decodeJSON(w, r, &filter); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Search(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type streamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// StreamToken implements AdminAttendanceHandler.
func (h *adminAttendanceHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	token, expiresIn, err := h.jwtService.GenerateStreamToken(middleware.EmployeeIDFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Stream token issued", streamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream implements AdminAttendanceHandler.
func (h *adminAttendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.HandleError(w, auth.ErrMissingToken)
		return
	}

	subscriberID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.attendanceService.Subscribe(r.Context())
	defer cleanup()

	slog.InfoContext(r.Context(), "attendance stream opened", slog.String("subscriber_id", subscriberID))
	defer slog.InfoContext(r.Context(), "attendance stream closed", slog.String("subscriber_id", subscriberID))

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"topic\":%q}\n\n", attendance.FeedTopic)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

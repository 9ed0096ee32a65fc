package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/health"
)

type HealthHandler interface {
	Ready(w http.ResponseWriter, r *http.Request)
}

type healthHandlerImpl struct {
	monitor *health.Monitor
}

func NewHealthHandler(monitor *health.Monitor) HealthHandler {
	return &healthHandlerImpl{monitor: monitor}
}

// Ready implements HealthHandler. It reports the latest store check result and
// never touches the store itself.
func (h *healthHandlerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.monitor.Status()
	if !status.Ready {
		response.ServiceUnavailable(w, response.CodeStoreUnavailable, "Attendance store is not ready")
		return
	}

	response.Success(w, status)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type employeeIDKey struct{}

// EmployeeRequired rejects tokens without an employee_id claim and exposes
// the id through EmployeeIDFromContext.
func EmployeeRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || strings.TrimSpace(employeeID) == "" {
			response.HandleError(w, user.ErrEmployeeClaimRequired)
			return
		}

		ctx := context.WithValue(r.Context(), employeeIDKey{}, employeeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func EmployeeIDFromContext(ctx context.Context) string {
	employeeID, _ := ctx.Value(employeeIDKey{}).(string)
	return employeeID
}

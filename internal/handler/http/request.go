package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes an optional JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func optionalQuery(values url.Values, key string) *string {
	if !values.Has(key) {
		return nil
	}
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func rangeFromQuery(values url.Values) attendance.RangeFilter {
	return attendance.RangeFilter{
		StartDate: optionalQuery(values, "start_date"),
		EndDate:   optionalQuery(values, "end_date"),
	}
}

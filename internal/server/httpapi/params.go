package httpapi

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/timekeeper/internal/timex"
)

// optionalDateParam parses a YYYY-MM-DD query parameter, returning nil when
// the parameter is absent.
func optionalDateParam(c echo.Context, name string) (*timex.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := timex.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// requiredDateParam parses a mandatory YYYY-MM-DD query parameter.
func requiredDateParam(c echo.Context, name string) (timex.Date, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return timex.Date{}, fmt.Errorf("missing %s", name)
	}
	return timex.ParseDate(raw)
}

// parseTimestamp accepts RFC 3339 timestamps.
func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

package handler

import (
	"errors"
	"net/http"
	"time"

	"cosmeticpos-backend/internal/service"
)

const dateLayout = "2006-01-02"

func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseRange reads the inclusive from/to days of a listing or report.
func parseRange(r *http.Request) (service.DateRange, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return service.DateRange{}, errors.New("invalid from date, expected YYYY-MM-DD")
	}
	to, err := parseDateQuery(r, "to")
	if err != nil {
		return service.DateRange{}, errors.New("invalid to date, expected YYYY-MM-DD")
	}
	if from != nil && to != nil && to.Before(*from) {
		return service.DateRange{}, errors.New("to must not be before from")
	}
	return service.DateRange{From: from, To: to}, nil
}

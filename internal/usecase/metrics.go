package usecase

import (
	"errors"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_operations_total",
			Help: "Total number of successful note and notebook operations",
		},
		[]string{"operation"},
	)

	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_errors_total",
			Help: "Total number of failed note and notebook operations",
		},
		[]string{"operation", "type"},
	)
)

// observe counts the outcome of op and hands err back unchanged.
func observe(op string, err error) error {
	if err == nil {
		OperationsTotal.WithLabelValues(op).Inc()
		return nil
	}
	ErrorsTotal.WithLabelValues(op, errorType(err)).Inc()
	return err
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, db.ErrNotFound):
		return "not_found"
	case db.IsStoreFailure(err):
		return "store"
	default:
		return "other"
	}
}

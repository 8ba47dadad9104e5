package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andrescamacho/tileplanner-go/internal/domain/shared"
)

// wrapErr translates a gorm failure into the planner error taxonomy.
// Deadline overruns become upstream_timeout so the boundary can answer
// 504 instead of 503.
func wrapErr(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return shared.NewUpstreamTimeout(operation, err)
	}
	return shared.NewUpstreamError(operation, err)
}

// isNotFound reports whether err is gorm's empty-result marker
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Package httpapi exposes the fulfillment service over a gin HTTP surface.
// Errors are rendered as RFC 7807 problem details.
package httpapi

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/application"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
	sharederrors "github.com/openlmis/fulfillment/internal/shared/errors"
)

func newResponder() *sharederrors.ChainedResponder {
	return sharederrors.NewChainedResponder("", mapServiceError)
}

func mapServiceError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, application.ErrInvalidStatus),
		errors.Is(err, application.ErrInvalidTransition),
		errors.Is(err, application.ErrMissingProgram):
		return sharederrors.ErrBadRequest.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrOrderInUse),
		errors.Is(err, ports.ErrDuplicateFacility):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrSaveFailed):
		return sharederrors.ErrInternal.WithDetail(err.Error()), true
	}
	return sharederrors.ProblemDetail{}, false
}

func parseUUIDParam(c *gin.Context, responder *sharederrors.ChainedResponder, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		responder.BadRequest(c, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

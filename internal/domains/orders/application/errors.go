package application

import (
	"errors"
	"fmt"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidStatus signals an unrecognized status string in search input.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrOrderInUse blocks deleting an order referenced by a proof of delivery.
	ErrOrderInUse = errors.New("order has an associated proof of delivery")
	// ErrInvalidTransition rejects finalize/retry on orders in the wrong state.
	ErrInvalidTransition = errors.New("order status does not allow this operation")
	// ErrSaveFailed wraps staging and transfer faults raised by the dispatch
	// pipeline. The order stays persisted but undelivered.
	ErrSaveFailed = errors.New("order save failed")
	// ErrMissingProgram signals a broken program reference on a saved order.
	ErrMissingProgram = errors.New("order references an unknown program")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnknownStatus) ||
		errors.Is(err, domain.ErrNegativeQuantity) ||
		errors.Is(err, domain.ErrMissingOrderFields) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

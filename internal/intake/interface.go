package intake

import (
	"context"
	"intake/pkg/domain"
)

// Processor validates a registration and builds the acknowledgement returned
// to the caller.
//
//go:generate mockgen -package mockintake -source=interface.go -destination=mock/mockintake.go *
type Processor interface {
	// Process returns a response for req, or an ErrMissingField error when
	// either field is empty. It has no side effects besides metrics.
	Process(ctx context.Context, req domain.RegistrationRequest) (*domain.RegistrationResponse, error)
}

// Package intake implements the registration form processing: field
// validation and construction of the welcome message.
package intake

import (
	"context"
	"fmt"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/serrors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

const (
	// SuccessMessage acknowledges every accepted registration. Existing clients
	// match on the exact text, so it is kept verbatim.
	SuccessMessage = "Data received and processed successfully by Flask!"

	// MissingFieldMessage is reported when name or email is absent or empty.
	MissingFieldMessage = "Both name and email are required fields"

	welcomeFormat = "Welcome, %s! Your registration for %s has been processed."
)

// Outcome values recorded on the registrations counter.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Options configure a Processor.
type Options struct {
	// Meter creates the registrations counter. A nil Meter disables metrics.
	Meter metric.Meter
}

type processor struct {
	registrations metric.Int64Counter
}

// New creates a Processor.
func New(opts Options) (Processor, error) {
	meter := opts.Meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("intake")
	}

	registrations, err := meter.Int64Counter("intake.registrations",
		metric.WithDescription("Registration forms processed, by outcome."),
		metric.WithUnit("{registration}"))
	if err != nil {
		return nil, fmt.Errorf("could not create registrations counter: %w", err)
	}

	return &processor{registrations: registrations}, nil
}

// WelcomeMessage renders the processed_data line for a registration. Values
// are interpolated as-is, without escaping or trimming.
func WelcomeMessage(name, email string) string {
	return fmt.Sprintf(welcomeFormat, name, email)
}

func (p *processor) Process(ctx context.Context, req domain.RegistrationRequest) (*domain.RegistrationResponse, error) {
	if req.Name == "" || req.Email == "" {
		p.record(ctx, OutcomeRejected)
		logger.Debug(ctx, "registration rejected",
			zap.Bool("has_name", req.Name != ""),
			zap.Bool("has_email", req.Email != ""))

		return nil, serrors.With(serrors.ErrMissingField, MissingFieldMessage)
	}

	p.record(ctx, OutcomeAccepted)

	return &domain.RegistrationResponse{
		Message:       SuccessMessage,
		ProcessedData: WelcomeMessage(req.Name, req.Email),
	}, nil
}

func (p *processor) record(ctx context.Context, outcome string) {
	p.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

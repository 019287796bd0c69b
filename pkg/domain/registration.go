package domain

// RegistrationRequest is the form submitted by a caller.
type RegistrationRequest struct {
	Name  string
	Email string
}

// RegistrationResponse is returned for an accepted registration.
type RegistrationResponse struct {
	// Message is a fixed acknowledgement text.
	Message string
	// ProcessedData is the welcome line built from the submitted fields.
	ProcessedData string
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string
}

// HealthStatus is the body of the liveness probe.
type HealthStatus struct {
	Status string
}

// HealthStatusHealthy is the only status the probe reports.
const HealthStatusHealthy = "healthy"

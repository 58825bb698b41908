package verification

// Status is the classified result of one verification request.
type Status string

const (
	StatusAccessGranted    Status = "access_granted"
	StatusAccessDenied     Status = "access_denied"
	StatusNotFound         Status = "not_found"
	StatusInvalidInput     Status = "invalid_input"
	StatusStoreUnavailable Status = "store_unavailable"
)

// Reason is a machine-checkable code qualifying invalid_input and
// store_unavailable outcomes. It is empty for the other statuses.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMissingInput     Reason = "missing_input"
	ReasonWrongFormat      Reason = "wrong_format"
	ReasonResourceNotFound Reason = "resource_not_found"
	ReasonConnectionFailed Reason = "connection_failed"
	ReasonTimeout          Reason = "timeout"
	ReasonCanceled         Reason = "canceled"
	ReasonCorruptRecord    Reason = "corrupt_record"
	ReasonInternal         Reason = "internal"
)

// Outcome is produced fresh for every request and never persisted.
// Localized, human-readable text is the presentation layer's job.
type Outcome struct {
	Status Status
	Reason Reason
	// Detail carries diagnostic text for store_unavailable outcomes.
	Detail string
}

// Granted reports whether access to the ballot was granted.
func (o Outcome) Granted() bool {
	return o.Status == StatusAccessGranted
}

// IsFailure reports whether the outcome is an input or infrastructure
// failure rather than a lookup result.
func (o Outcome) IsFailure() bool {
	return o.Status == StatusInvalidInput || o.Status == StatusStoreUnavailable
}

func granted() Outcome  { return Outcome{Status: StatusAccessGranted} }
func denied() Outcome   { return Outcome{Status: StatusAccessDenied} }
func notFound() Outcome { return Outcome{Status: StatusNotFound} }

func invalidInput(reason Reason) Outcome {
	return Outcome{Status: StatusInvalidInput, Reason: reason}
}

func storeUnavailable(reason Reason, err error) Outcome {
	o := Outcome{Status: StatusStoreUnavailable, Reason: reason}
	if err != nil {
		o.Detail = err.Error()
	}
	return o
}

package handler

// VerifyRequest is the body of POST /v1/verifications.
type VerifyRequest struct {
	// Passport is the raw series+number as typed by the operator.
	Passport string `json:"passport"`
}

package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrClassification  = errors.New("intent classification failed")
	ErrRetrieval       = errors.New("retrieval failed")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrNotification    = errors.New("lead notification failed")
)

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrIncompleteRateData indicates a trading day is missing one or more
// currencies' base-relative rates. The day is excluded, not fatal, unless every
// day in the requested range is incomplete.
var ErrIncompleteRateData = errors.New("incomplete rate data")

// ErrInvalidRate indicates a non-positive or non-finite base rate. Treated the
// same as incomplete data: the whole day is excluded.
var ErrInvalidRate = errors.New("invalid base rate")

// ErrDimensionConflict indicates an attempt to register a currency or date with
// attributes inconsistent with a prior registration. Dimensions are append-only,
// so this is a logic error and never recoverable.
var ErrDimensionConflict = errors.New("dimension conflict")

// ErrSinkRejection indicates the warehouse refused a write. Surfaced to the
// caller as-is; retry policy belongs to the orchestration layer.
var ErrSinkRejection = errors.New("warehouse sink rejected write")

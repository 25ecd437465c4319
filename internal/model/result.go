package model

// AppResult is the uniform response envelope. Every public operation of the
// service layer returns one of the envelope types below; failures are
// reported in-band through Success/Message/Errors rather than as faults.
type AppResult struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ListResult wraps a list of results.
type ListResult[T any] struct {
	AppResult
	Results []T `json:"results"`
}

// GetDocumentResult wraps a single optional document. Document is nil when
// the requested record does not exist; that alone is not a failure.
type GetDocumentResult[T any] struct {
	AppResult
	Document *T `json:"document,omitempty"`
}

// OKResult builds a successful AppResult.
func OKResult(msg string) AppResult {
	return AppResult{Success: true, Message: msg}
}

// FailResult builds a failed AppResult with optional detail entries.
func FailResult(msg string, errs ...string) AppResult {
	return AppResult{Success: false, Message: msg, Errors: errs}
}

// OKList builds a successful ListResult.
func OKList[T any](msg string, results []T) ListResult[T] {
	if results == nil {
		results = []T{}
	}
	return ListResult[T]{AppResult: OKResult(msg), Results: results}
}

// FailList builds a failed ListResult with an empty result set.
func FailList[T any](msg string, errs ...string) ListResult[T] {
	return ListResult[T]{AppResult: FailResult(msg, errs...), Results: []T{}}
}

// OKDocument builds a successful GetDocumentResult. doc may be nil.
func OKDocument[T any](msg string, doc *T) GetDocumentResult[T] {
	return GetDocumentResult[T]{AppResult: OKResult(msg), Document: doc}
}

// FailDocument builds a failed GetDocumentResult.
func FailDocument[T any](msg string, errs ...string) GetDocumentResult[T] {
	return GetDocumentResult[T]{AppResult: FailResult(msg, errs...)}
}

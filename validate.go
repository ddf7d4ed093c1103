package httpbind

// SelfValidator is implemented by request types that validate themselves.
// It runs after binding succeeds, before the handler is invoked.
type SelfValidator interface {
	Validate() error
}

// Validator validates any bound request.
type Validator interface {
	Validate(req any) error
}

package httpbind

import "reflect"

// Test-only exports for internal functions.
var (
	ParseBool        = parseBool
	TagOptions       = tagOptions
	JSONFieldName    = jsonFieldName
	FormFieldName    = formFieldName
	PatternVariables = patternVariables
	CanDecodeValue   = canDecodeValue
	SupportedBody    = supportedBodyType
	DeclaredModel    = declaredModel
)

// DecodeInto decodes raw string values into the value dst points at.
func DecodeInto(dst any, values []string) error {
	rv := reflect.ValueOf(dst).Elem()
	return decodeValue(rv, rv.Type(), values)
}

// AnalyzeError runs plan analysis for a request type against a pattern and
// returns only the configuration error.
func AnalyzeError(reqType any, pattern string) error {
	_, err := analyzePlan(reflect.TypeOf(reqType), pattern)
	return err
}

// CheckConstraintsOn analyzes req's type against pattern and runs constraint
// checks over its current values.
func CheckConstraintsOn(req any, pattern string) []ValidationFailure {
	t := reflect.TypeOf(req)
	p, err := analyzePlan(t, pattern)
	if err != nil {
		panic(err)
	}
	return checkConstraints(reflect.ValueOf(req), p, nil, false)
}

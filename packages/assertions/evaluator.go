package assertions

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// Value is the actual side of an assertion.
type Value struct {
	subject string
	actual  any
	err     error
}

// That starts an assertion on actual.
func That(actual any) *Value {
	return &Value{actual: actual}
}

// Named sets the subject shown in failure messages.
func (v *Value) Named(subject string) *Value {
	v.subject = subject
	return v
}

// JSON narrows a JSON document (string or []byte) to the value at path,
// using gjson path syntax. Bracket indexes are accepted: items[0].id.
func (v *Value) JSON(path string) *Value {
	next := &Value{subject: path}
	if v.subject != "" {
		next.subject = v.subject + "." + path
	}

	var raw []byte
	switch doc := v.actual.(type) {
	case string:
		raw = []byte(doc)
	case []byte:
		raw = doc
	default:
		next.err = &AssertionError{
			Subject:  next.subject,
			Operator: OpType,
			Expected: "JSON document",
			Actual:   v.actual,
			Message:  fmt.Sprintf("expected JSON document, got %T", v.actual),
		}
		return next
	}

	if !gjson.ValidBytes(raw) {
		next.err = &AssertionError{
			Subject:  next.subject,
			Operator: OpType,
			Expected: "JSON document",
			Actual:   string(raw),
			Message:  "invalid JSON document",
		}
		return next
	}

	result := gjson.GetBytes(raw, convertBracketNotation(path))
	if result.Exists() {
		next.actual = result.Value()
	}
	return next
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// convertBracketNotation converts array bracket notation to gjson dot notation
// e.g., "[0].id" -> "0.id", "items[0].tags[1]" -> "items.0.tags.1"
func convertBracketNotation(path string) string {
	result := bracketIndex.ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(result, ".")
}

func (v *Value) check(op Operator, expected any, passed bool, msg string) error {
	if passed {
		return nil
	}
	return &AssertionError{
		Subject:  v.subject,
		Operator: op,
		Expected: expected,
		Actual:   v.actual,
		Message:  msg,
	}
}

func (v *Value) Equals(expected any) error {
	if v.err != nil {
		return v.err
	}
	passed, msg := equals(v.actual, expected)
	return v.check(OpEquals, expected, passed, msg)
}

func (v *Value) NotEquals(expected any) error {
	if v.err != nil {
		return v.err
	}
	passed, _ := equals(v.actual, expected)
	return v.check(OpNotEquals, expected, !passed, fmt.Sprintf("expected not to equal %v", expected))
}

func (v *Value) GreaterThan(expected any) error {
	return v.numeric(OpGreaterThan, expected)
}

func (v *Value) GreaterOrEqual(expected any) error {
	return v.numeric(OpGreaterOrEqual, expected)
}

func (v *Value) LessThan(expected any) error {
	return v.numeric(OpLessThan, expected)
}

func (v *Value) LessOrEqual(expected any) error {
	return v.numeric(OpLessOrEqual, expected)
}

func (v *Value) numeric(op Operator, expected any) error {
	if v.err != nil {
		return v.err
	}
	passed, msg := compareNumeric(v.actual, expected, op)
	return v.check(op, expected, passed, msg)
}

func (v *Value) Contains(expected any) error {
	if v.err != nil {
		return v.err
	}
	passed, msg := contains(v.actual, expected)
	return v.check(OpContains, expected, passed, msg)
}

func (v *Value) NotContains(expected any) error {
	if v.err != nil {
		return v.err
	}
	passed, _ := contains(v.actual, expected)
	return v.check(OpNotContains, expected, !passed, fmt.Sprintf("expected not to contain %v", expected))
}

// Matches checks the string form of the value against a regular expression.
// Surrounding slashes are optional: "/^ok$/" and "^ok$" are the same pattern.
func (v *Value) Matches(pattern string) error {
	if v.err != nil {
		return v.err
	}
	passed, msg := matches(v.actual, pattern)
	return v.check(OpMatches, pattern, passed, msg)
}

func (v *Value) IsNil() error {
	if v.err != nil {
		return v.err
	}
	return v.check(OpNil, nil, isNil(v.actual), fmt.Sprintf("expected nil, got %v", v.actual))
}

func (v *Value) NotNil() error {
	if v.err != nil {
		return v.err
	}
	return v.check(OpNotNil, nil, !isNil(v.actual), "expected to exist")
}

func (v *Value) IsTrue() error {
	if v.err != nil {
		return v.err
	}
	b, ok := v.actual.(bool)
	return v.check(OpTrue, true, ok && b, fmt.Sprintf("expected true, got %v", v.actual))
}

func (v *Value) IsFalse() error {
	if v.err != nil {
		return v.err
	}
	b, ok := v.actual.(bool)
	return v.check(OpFalse, false, ok && !b, fmt.Sprintf("expected false, got %v", v.actual))
}

func (v *Value) HasLength(expected int) error {
	if v.err != nil {
		return v.err
	}
	actualLen := computeLength(v.actual)
	if actualLen == -1 {
		return v.check(OpLength, expected, false, fmt.Sprintf("cannot get length of %T", v.actual))
	}
	return v.check(OpLength, expected, actualLen == expected,
		fmt.Sprintf("expected length %d, got %d", expected, actualLen))
}

// IsType checks the JSON type name of the value: null, boolean, number,
// string, array or object. Other values are compared by their Go type name.
func (v *Value) IsType(expected string) error {
	if v.err != nil {
		return v.err
	}
	actualType := typeName(v.actual)
	return v.check(OpType, expected, actualType == expected,
		fmt.Sprintf("expected type %s, got %s", expected, actualType))
}

// MatchesSchema validates the value, marshalled to JSON, against a JSON
// Schema document. String and []byte values are taken as JSON text.
func (v *Value) MatchesSchema(schema string) error {
	if v.err != nil {
		return v.err
	}

	var document gojsonschema.JSONLoader
	switch doc := v.actual.(type) {
	case string:
		document = gojsonschema.NewStringLoader(doc)
	case []byte:
		document = gojsonschema.NewBytesLoader(doc)
	default:
		data, err := json.Marshal(doc)
		if err != nil {
			return v.check(OpSchema, schema, false, fmt.Sprintf("failed to marshal actual value: %v", err))
		}
		document = gojsonschema.NewBytesLoader(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), document)
	if err != nil {
		return v.check(OpSchema, schema, false, fmt.Sprintf("schema validation error: %v", err))
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return v.check(OpSchema, schema, false, fmt.Sprintf("schema validation failed: %s", strings.Join(problems, "; ")))
}

func equals(actual, expected any) (bool, string) {
	if assert.ObjectsAreEqualValues(expected, actual) {
		return true, ""
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func compareNumeric(actual, expected any, op Operator) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)

	if !aOk || !eOk {
		return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case OpGreaterThan:
		passed = actualNum > expectedNum
	case OpGreaterOrEqual:
		passed = actualNum >= expectedNum
	case OpLessThan:
		passed = actualNum < expectedNum
	case OpLessOrEqual:
		passed = actualNum <= expectedNum
	}

	if passed {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
}

// contains checks membership for slices and arrays, keys for maps and
// substrings for everything else.
func contains(actual, expected any) (bool, string) {
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if _, isBytes := actual.([]byte); !isBytes {
			for i := 0; i < rv.Len(); i++ {
				if passed, _ := equals(rv.Index(i).Interface(), expected); passed {
					return true, ""
				}
			}
			return false, fmt.Sprintf("expected %v to include %v", actual, expected)
		}
	case reflect.Map:
		for _, key := range rv.MapKeys() {
			if passed, _ := equals(key.Interface(), expected); passed {
				return true, ""
			}
		}
		return false, fmt.Sprintf("expected %v to have key %v", actual, expected)
	}

	actualStr := stringOf(actual)
	expectedStr := fmt.Sprintf("%v", expected)
	if strings.Contains(actualStr, expectedStr) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actualStr, expected)
}

func matches(actual any, pattern string) (bool, string) {
	pattern = strings.TrimPrefix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err)
	}

	actualStr := stringOf(actual)
	if re.MatchString(actualStr) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", actualStr, pattern)
}

func stringOf(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	if actual == nil {
		return -1
	}
	rv := reflect.ValueOf(actual)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	default:
		return -1
	}
}

func typeName(actual any) string {
	switch actual.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(actual).String()
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ErrMalformedBody is returned when the body is not a JSON object
var ErrMalformedBody = errors.New("request body must be a JSON object")

// TypeError reports a member that was sent with a value its field cannot
// hold, such as an object for a string or "abc" for an integer.
type TypeError struct {
	Field    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s must be of type %s", e.Field, e.Expected)
}

// DecodeJSON reads a JSON object body into its members. Numbers are kept as
// json.Number. An empty body is {}.
func DecodeJSON(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var members map[string]any
	if err := dec.Decode(&members); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if members == nil {
		return nil, fmt.Errorf("%w: null", ErrMalformedBody)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}
	return members, nil
}

// FormMembers adapts url-encoded values to the members Populate reads
func FormMembers(values map[string]string) map[string]any {
	members := make(map[string]any, len(values))
	for k, v := range values {
		members[k] = v
	}
	return members
}

// Populate copies members into the struct dst points to, matching keys
// against the given struct tag (json or form). Absent and falsy members
// (null, false, "", 0) leave the field at its zero value for the required
// check to report. Other scalars are coerced: numbers and true become
// strings, integral numbers and integer strings become integers.
//
// A value that cannot be coerced is a *TypeError, unless an earlier required
// field is already missing; that field is reported first.
func Populate(members map[string]any, dst any, tag string) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validation: Populate needs a pointer to a struct, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	missingBefore := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name := strings.SplitN(sf.Tag.Get(tag), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		required := strings.Contains(sf.Tag.Get("validate"), "required")

		value, ok := members[name]
		if !ok || isFalsy(value) {
			missingBefore = missingBefore || required
			continue
		}
		if !assign(v.Field(i), value) {
			if missingBefore {
				continue
			}
			return &TypeError{Field: name, Expected: typeName(sf.Type.Kind())}
		}
	}
	return nil
}

func isFalsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	}
	return false
}

func assign(field reflect.Value, value any) bool {
	switch field.Kind() {
	case reflect.String:
		switch v := value.(type) {
		case string:
			field.SetString(v)
		case json.Number:
			field.SetString(v.String())
		case bool:
			field.SetString(strconv.FormatBool(v))
		default:
			return false
		}
		return true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt(value)
		if !ok || field.OverflowInt(n) {
			return false
		}
		field.SetInt(n)
		return true
	}
	return false
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		// 1.0 and 1e3 are integers too
		f, err := v.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, false
		}
		return int64(f), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func typeName(kind reflect.Kind) string {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "Integer"
	default:
		return "String"
	}
}

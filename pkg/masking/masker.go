package masking

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Strategy selects how a sensitive string value is obscured
type Strategy string

const (
	StrategyFull    Strategy = "full"
	StrategyPartial Strategy = "partial"
	StrategyHash    Strategy = "hash"
)

const (
	// maxDepth bounds recursion on pathological inputs. Subtrees below
	// this depth are replaced with a sentinel instead of being recursed
	// into.
	maxDepth = 10
	// fullMaskCap caps the length of a fully masked value so the original
	// length cannot be inferred beyond it.
	fullMaskCap = 20

	redactedSentinel = "[REDACTED]"
	depthSentinel    = "[MAX_DEPTH_EXCEEDED]"
	cycleSentinel    = "[CIRCULAR_REFERENCE]"
)

// Config holds the masking strategy and its parameters
type Config struct {
	Strategy     Strategy
	VisibleChars int
	MaskChar     string
}

// DefaultConfig returns partial masking with 4 visible characters
func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyPartial,
		VisibleChars: 4,
		MaskChar:     "*",
	}
}

// normalized fills in defaults for zero-valued config fields
func (c Config) normalized() Config {
	if c.Strategy == "" {
		c.Strategy = StrategyPartial
	}
	if c.VisibleChars <= 0 {
		c.VisibleChars = 4
	}
	if c.MaskChar == "" {
		c.MaskChar = "*"
	}
	return c
}

// sensitiveKeyPatterns are matched case-insensitively as substrings of
// container key names. A match masks the value under that key.
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"pwd",
	"token",
	"apikey",
	"api_key",
	"secret",
	"clientsecret",
	"client_secret",
	"ssn",
	"email",
	"connectionstring",
	"connection_string",
	"authorization",
	"credential",
	"creditcard",
	"credit_card",
	"privatekey",
	"private_key",
	"cookie",
	"session_id",
}

// IsSensitiveKey reports whether a container key name matches one of the
// sensitive-field patterns
func IsSensitiveKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// MaskObject walks value recursively and masks everything stored under a
// sensitive key. Primitives, nil and times pass through unchanged; arrays
// are masked element-wise; recursion is depth-bounded and cycle-safe via
// an identity set of the containers on the current path.
func MaskObject(value interface{}, config Config) interface{} {
	return maskObject(value, config.normalized(), 0, make(map[uintptr]bool))
}

func maskObject(value interface{}, config Config, depth int, visiting map[uintptr]bool) interface{} {
	if value == nil {
		return nil
	}
	if depth > maxDepth {
		return depthSentinel
	}

	switch typed := value.(type) {
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time:
		return typed
	case map[string]interface{}:
		id := reflect.ValueOf(typed).Pointer()
		if visiting[id] {
			return cycleSentinel
		}
		visiting[id] = true
		defer delete(visiting, id)

		masked := make(map[string]interface{}, len(typed))
		for key, entry := range typed {
			masked[key] = maskEntry(key, entry, config, depth, visiting)
		}
		return masked
	case []interface{}:
		id := reflect.ValueOf(typed).Pointer()
		if visiting[id] {
			return cycleSentinel
		}
		visiting[id] = true
		defer delete(visiting, id)

		masked := make([]interface{}, len(typed))
		for i, element := range typed {
			masked[i] = maskObject(element, config, depth+1, visiting)
		}
		return masked
	}

	return maskReflected(value, config, depth, visiting)
}

// maskEntry applies the sensitive-key policy to one container entry.
// Containers are always recursed into, even under a sensitive key;
// masking replaces only leaf content.
func maskEntry(key string, entry interface{}, config Config, depth int, visiting map[uintptr]bool) interface{} {
	if !IsSensitiveKey(key) {
		return maskObject(entry, config, depth+1, visiting)
	}
	switch typed := entry.(type) {
	case nil:
		return nil
	case string:
		return MaskValue(typed, config)
	default:
		if isContainer(entry) {
			return maskObject(entry, config, depth+1, visiting)
		}
		return redactedSentinel
	}
}

// isContainer reports whether a value is a keyed or indexed container
func isContainer(value interface{}) bool {
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Ptr, reflect.Struct:
		return true
	default:
		return false
	}
}

// maskReflected handles container types beyond the plain JSON shapes:
// typed maps, typed slices, pointers and structs.
func maskReflected(value interface{}, config Config, depth int, visiting map[uintptr]bool) interface{} {
	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if visiting[id] {
			return cycleSentinel
		}
		visiting[id] = true
		defer delete(visiting, id)
		return maskObject(rv.Elem().Interface(), config, depth+1, visiting)
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if visiting[id] {
			return cycleSentinel
		}
		visiting[id] = true
		defer delete(visiting, id)

		masked := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := toKeyString(iter.Key())
			masked[key] = maskEntry(key, iter.Value().Interface(), config, depth, visiting)
		}
		return masked
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		id := rv.Pointer()
		if visiting[id] {
			return cycleSentinel
		}
		visiting[id] = true
		defer delete(visiting, id)
		return maskElements(rv, config, depth, visiting)
	case reflect.Array:
		return maskElements(rv, config, depth, visiting)
	case reflect.Struct:
		masked := make(map[string]interface{}, rv.NumField())
		structType := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := structType.Field(i)
			if !field.IsExported() {
				continue
			}
			masked[field.Name] = maskEntry(field.Name, rv.Field(i).Interface(), config, depth, visiting)
		}
		return masked
	default:
		return value
	}
}

// maskElements masks a reflected slice or array element-wise, preserving
// order and length
func maskElements(rv reflect.Value, config Config, depth int, visiting map[uintptr]bool) []interface{} {
	masked := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		masked[i] = maskObject(rv.Index(i).Interface(), config, depth+1, visiting)
	}
	return masked
}

// toKeyString renders a reflected map key as a string, keeping distinct
// keys distinct
func toKeyString(key reflect.Value) string {
	if key.Kind() == reflect.String {
		return key.String()
	}
	return fmt.Sprintf("%v", key.Interface())
}

// MaskValue obscures a single sensitive string according to the strategy
func MaskValue(value string, config Config) string {
	config = config.normalized()

	switch config.Strategy {
	case StrategyFull:
		length := len(value)
		if length > fullMaskCap {
			length = fullMaskCap
		}
		return strings.Repeat(config.MaskChar, length)
	case StrategyHash:
		return hashTag(value)
	default: // partial
		runes := []rune(value)
		if len(runes) <= 2*config.VisibleChars {
			return strings.Repeat(config.MaskChar, len(runes))
		}
		head := string(runes[:config.VisibleChars])
		tail := string(runes[len(runes)-config.VisibleChars:])
		return head + strings.Repeat(config.MaskChar, len(runes)-2*config.VisibleChars) + tail
	}
}

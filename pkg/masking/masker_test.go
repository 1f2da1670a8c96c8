package masking

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMaskValueFull tests that full masking caps output length
func TestMaskValueFull(t *testing.T) {
	cfg := Config{Strategy: StrategyFull, MaskChar: "*"}

	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{"short value", "abc123", 6},
		{"exactly at cap", strings.Repeat("x", 20), 20},
		{"beyond cap", strings.Repeat("x", 200), 20},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked := MaskValue(tt.input, cfg)
			assert.Len(t, masked, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, strings.Repeat("*", tt.wantLen), masked)
			}
		})
	}
}

// TestMaskValuePartial tests visible head/tail preservation
func TestMaskValuePartial(t *testing.T) {
	cfg := Config{Strategy: StrategyPartial, VisibleChars: 4, MaskChar: "*"}

	// Long enough: first and last 4 characters survive
	masked := MaskValue("supersecretpassword", cfg)
	assert.Equal(t, "supe***********word", masked)
	assert.Len(t, masked, len("supersecretpassword"))

	// Too short: everything is masked
	assert.Equal(t, "********", MaskValue("12345678", cfg))
	assert.Equal(t, "***", MaskValue("abc", cfg))
}

// TestMaskValuePartialMultibyte tests that partial masking slices on
// runes, never through the middle of a multibyte character
func TestMaskValuePartialMultibyte(t *testing.T) {
	cfg := Config{Strategy: StrategyPartial, VisibleChars: 4, MaskChar: "*"}

	masked := MaskValue("пароль123456", cfg)
	assert.Equal(t, "паро****3456", masked)
	assert.True(t, utf8.ValidString(masked))

	// Short multibyte values are fully masked, one mask char per rune
	assert.Equal(t, "******", MaskValue("пароль", cfg))
}

// TestMaskValueHash tests that hashing is deterministic and opaque
func TestMaskValueHash(t *testing.T) {
	cfg := Config{Strategy: StrategyHash}

	first := MaskValue("my-secret", cfg)
	second := MaskValue("my-secret", cfg)
	other := MaskValue("other-secret", cfg)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotContains(t, first, "my-secret")
	assert.True(t, strings.HasPrefix(first, "[hash:"))
}

// TestMaskObjectSensitiveKeys tests key-based masking of string and
// non-string values
func TestMaskObjectSensitiveKeys(t *testing.T) {
	cfg := Config{Strategy: StrategyFull, MaskChar: "*"}

	input := map[string]interface{}{
		"password":  "abc123",
		"apiKey":    "sk-verylongapikeyvalue",
		"userId":    "u-1",
		"attempts":  3,
		"pinSecret": 9999,
	}

	masked, ok := MaskObject(input, cfg).(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, "******", masked["password"])
	assert.Equal(t, strings.Repeat("*", 20), masked["apiKey"])
	assert.Equal(t, "u-1", masked["userId"])
	assert.Equal(t, 3, masked["attempts"])
	// Non-string sensitive values become an opaque sentinel
	assert.Equal(t, "[REDACTED]", masked["pinSecret"])
}

// TestMaskObjectNested tests that containers under sensitive keys are
// still recursed into
func TestMaskObjectNested(t *testing.T) {
	cfg := Config{Strategy: StrategyFull, MaskChar: "*"}

	input := map[string]interface{}{
		"credentials": map[string]interface{}{
			"password": "hunter2",
			"username": "alice",
		},
		"items": []interface{}{
			map[string]interface{}{"token": "tok_123456", "label": "ci"},
			"plain string",
		},
	}

	masked := MaskObject(input, cfg).(map[string]interface{})

	credentials := masked["credentials"].(map[string]interface{})
	assert.Equal(t, "*******", credentials["password"])
	assert.Equal(t, "alice", credentials["username"])

	items := masked["items"].([]interface{})
	require.Len(t, items, 2)
	first := items[0].(map[string]interface{})
	assert.Equal(t, strings.Repeat("*", len("tok_123456")), first["token"])
	assert.Equal(t, "ci", first["label"])
	assert.Equal(t, "plain string", items[1])
}

// TestMaskObjectPassThrough tests that primitives, nil and times are
// unchanged
func TestMaskObjectPassThrough(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Now()

	assert.Nil(t, MaskObject(nil, cfg))
	assert.Equal(t, "hello", MaskObject("hello", cfg))
	assert.Equal(t, 42, MaskObject(42, cfg))
	assert.Equal(t, 3.14, MaskObject(3.14, cfg))
	assert.Equal(t, true, MaskObject(true, cfg))
	assert.Equal(t, now, MaskObject(now, cfg))
}

// TestMaskObjectCycleSafety verifies a self-referential object masks to a
// finite structure with a cycle sentinel
func TestMaskObjectCycleSafety(t *testing.T) {
	cfg := DefaultConfig()

	cyclic := map[string]interface{}{"name": "root"}
	cyclic["self"] = cyclic

	done := make(chan interface{}, 1)
	go func() {
		done <- MaskObject(cyclic, cfg)
	}()

	select {
	case masked := <-done:
		root := masked.(map[string]interface{})
		assert.Equal(t, "root", root["name"])
		assert.Equal(t, "[CIRCULAR_REFERENCE]", root["self"])
	case <-time.After(5 * time.Second):
		t.Fatal("masking a cyclic object did not terminate")
	}
}

// TestMaskObjectSharedValueIsNotACycle verifies identity-based detection:
// the same map appearing twice in sibling positions is not a cycle
func TestMaskObjectSharedValueIsNotACycle(t *testing.T) {
	cfg := DefaultConfig()

	shared := map[string]interface{}{"region": "eu-west-1"}
	input := map[string]interface{}{
		"first":  shared,
		"second": shared,
	}

	masked := MaskObject(input, cfg).(map[string]interface{})
	first := masked["first"].(map[string]interface{})
	second := masked["second"].(map[string]interface{})
	assert.Equal(t, "eu-west-1", first["region"])
	assert.Equal(t, "eu-west-1", second["region"])
}

// TestMaskObjectDepthLimit verifies deep nesting collapses to a sentinel
// instead of recursing forever
func TestMaskObjectDepthLimit(t *testing.T) {
	cfg := DefaultConfig()

	// Build an object nested well past the depth cap
	deepest := map[string]interface{}{"leaf": "value"}
	current := deepest
	for i := 0; i < 20; i++ {
		current = map[string]interface{}{"nested": current}
	}

	masked := MaskObject(current, cfg)

	// Walk down until the sentinel appears
	depth := 0
	node := masked
	for {
		asMap, ok := node.(map[string]interface{})
		if !ok {
			assert.Equal(t, "[MAX_DEPTH_EXCEEDED]", node)
			break
		}
		node = asMap["nested"]
		depth++
		require.Less(t, depth, 30, "sentinel never appeared")
	}
}

// TestMaskObjectTypedContainers tests reflection handling of non-JSON
// container shapes
func TestMaskObjectTypedContainers(t *testing.T) {
	cfg := Config{Strategy: StrategyFull, MaskChar: "*"}

	stringMap := map[string]string{"password": "qwerty", "host": "db-1"}
	masked := MaskObject(stringMap, cfg).(map[string]interface{})
	assert.Equal(t, "******", masked["password"])
	assert.Equal(t, "db-1", masked["host"])

	type creds struct {
		Token  string
		Region string
	}
	maskedStruct := MaskObject(creds{Token: "abcdef", Region: "us"}, cfg).(map[string]interface{})
	assert.Equal(t, "******", maskedStruct["Token"])
	assert.Equal(t, "us", maskedStruct["Region"])

	ints := []int{1, 2, 3}
	maskedSlice := MaskObject(ints, cfg).([]interface{})
	assert.Equal(t, []interface{}{1, 2, 3}, maskedSlice)
}

// TestMaskObjectNonStringKeys tests that distinct non-string map keys stay
// distinct in the masked output
func TestMaskObjectNonStringKeys(t *testing.T) {
	cfg := DefaultConfig()

	input := map[int]interface{}{1: "one", 2: "two", 3: "three"}
	masked := MaskObject(input, cfg).(map[string]interface{})

	require.Len(t, masked, 3)
	assert.Equal(t, "one", masked["1"])
	assert.Equal(t, "two", masked["2"])
	assert.Equal(t, "three", masked["3"])
}

// TestIsSensitiveKey tests the case-insensitive substring match
func TestIsSensitiveKey(t *testing.T) {
	sensitive := []string{"password", "PASSWORD", "userPassword", "api_key", "apiKey", "clientSecret", "db_connection_string", "SSN", "contactEmail"}
	for _, key := range sensitive {
		assert.True(t, IsSensitiveKey(key), "expected %q to be sensitive", key)
	}

	benign := []string{"userId", "name", "projectCount", "status"}
	for _, key := range benign {
		assert.False(t, IsSensitiveKey(key), "expected %q to be benign", key)
	}
}

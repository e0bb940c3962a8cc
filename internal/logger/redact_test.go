package logger

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRedactSensitive_TokenValue(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log a storage encryption key (should be redacted)
	token := "kvsec_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm"
	l.Info("token received", "token", token)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	// The token should be masked, not the original value
	tokenVal, ok := logEntry["token"].(string)
	if !ok {
		t.Fatal("Expected token field in log")
	}

	if tokenVal == token {
		t.Errorf("Token should be redacted, got original value: %s", tokenVal)
	}

	// Should contain the prefix and partial mask
	if tokenVal != "kvsec_ABC...klm" {
		t.Errorf("Token mask format incorrect, got: %s", tokenVal)
	}
}

func TestRedactSensitive_APIKeySecret(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log generic secret material (should be redacted)
	secret := "kvkey_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm"
	l.Info("api key created", "secret", secret)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	secretVal, ok := logEntry["secret"].(string)
	if !ok {
		t.Fatal("Expected secret field in log")
	}

	if secretVal == secret {
		t.Errorf("Secret should be redacted, got original value")
	}

	if secretVal != "kvkey_ABC...klm" {
		t.Errorf("Secret mask format incorrect, got: %s", secretVal)
	}
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Log with sensitive key names (should be redacted regardless of value)
	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"password", "mysecret123", "***REDACTED***"},
		{"user_password", "hunter2", "***REDACTED***"},
		{"api_key", "some-key-value", "***REDACTED***"},
		{"auth_token", "bearer-xyz", "***REDACTED***"},
		{"credential", "cred123", "***REDACTED***"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			buf.Reset()
			l.Info("test", tt.key, tt.value)

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("Failed to parse JSON log: %v", err)
			}

			val, ok := logEntry[tt.key].(string)
			if !ok {
				t.Fatalf("Expected %s field in log", tt.key)
			}

			if val != tt.expected {
				t.Errorf("Key %q should be redacted to %q, got %q", tt.key, tt.expected, val)
			}
		})
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		Level:  "info",
		Format: "json",
		Output: &buf,
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Normal values should not be redacted
	l.Info("user action", "user_id", "user123", "session_id", "kvss-abc123")

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if userID, ok := logEntry["user_id"].(string); !ok || userID != "user123" {
		t.Errorf("Normal user_id should not be redacted, got: %v", logEntry["user_id"])
	}

	if sessionID, ok := logEntry["session_id"].(string); !ok || sessionID != "kvss-abc123" {
		t.Errorf("Session ID (public) should not be redacted, got: %v", logEntry["session_id"])
	}
}

func TestRedactString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "encryption key",
			input:    "kvsec_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm",
			expected: "kvsec_ABC...klm",
		},
		{
			name:     "secret material",
			input:    "kvkey_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm",
			expected: "kvkey_ABC...klm",
		},
		{
			name:     "short token",
			input:    "kvsec_ABCDEF",
			expected: "kvsec_***",
		},
		{
			name:     "normal value",
			input:    "normalvalue123",
			expected: "normalvalue123",
		},
		{
			name:     "session id (not sensitive)",
			input:    "kvss-abc123def456",
			expected: "kvss-abc123def456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RedactString(tt.input)
			if result != tt.expected {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"user_password", true},
		{"PASSWORD", true},
		{"secret", true},
		{"api_secret", true},
		{"token", true},
		{"auth_token", true},
		{"key", true},
		{"api_key", true},
		{"credential", true},
		{"auth", true},
		{"bearer", true},
		{"username", false},
		{"user_id", false},
		{"session_id", false},
		{"request_id", false},
		{"data", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := IsSensitiveKey(tt.key)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, result, tt.sensitive)
			}
		})
	}
}

func TestIsSensitiveValue(t *testing.T) {
	tests := []struct {
		value     string
		sensitive bool
	}{
		{"kvsec_abc123", true},
		{"kvkey_xyz789", true},
		{"kvss-abc123", false}, // Session ID is public
		{"kvak-xyz789", false}, // API Key ID is public
		{"normal_value", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			result := IsSensitiveValue(tt.value)
			if result != tt.sensitive {
				t.Errorf("IsSensitiveValue(%q) = %v, want %v", tt.value, result, tt.sensitive)
			}
		})
	}
}

func TestMaskValue(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		prefix   string
		expected string
	}{
		{
			name:     "long value",
			value:    "kvsec_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklm",
			prefix:   "kvsec_",
			expected: "kvsec_ABC...klm",
		},
		{
			name:     "short value",
			value:    "kvsec_ABCDEF",
			prefix:   "kvsec_",
			expected: "kvsec_***",
		},
		{
			name:     "minimal value",
			value:    "kvsec_AB",
			prefix:   "kvsec_",
			expected: "kvsec_***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskValue(tt.value, tt.prefix)
			if result != tt.expected {
				t.Errorf("maskValue(%q, %q) = %q, want %q", tt.value, tt.prefix, result, tt.expected)
			}
		})
	}
}

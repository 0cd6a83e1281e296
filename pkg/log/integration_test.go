package log

import (
	"context"
	"fmt"
	"testing"
)

// TestLoggerInterface tests the Logger interface implementation
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, "score_interaction")
	testLogger.Warn("warning message", "warning_code", "RATE_LIMITED")
	testErr := fmt.Errorf("test error")
	testLogger.Error("error message", "error", testErr, "error_code", "NON_FINITE_METRIC")

	output := buffer.String()
	if output == "" {
		t.Fatal("Expected log output, got empty string")
	}

	if !testLogger.ContainsMessage("debug message") {
		t.Error("Debug message not found in output")
	}
	if !testLogger.ContainsMessage("info message") {
		t.Error("Info message not found in output")
	}
	if !testLogger.ContainsMessage("warning message") {
		t.Error("Warning message not found in output")
	}
	if !testLogger.ContainsMessage("error message") {
		t.Error("Error message not found in output")
	}

	if !testLogger.ContainsField("key1", "value1") {
		t.Error("Expected field key1=value1 not found")
	}
	if !testLogger.ContainsField("number", 42.0) { // JSON unmarshaling converts numbers to float64
		t.Error("Expected field number=42 not found")
	}
}

// TestLoggerWith tests the With method for context-aware logging
func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ComponentKey, "boosting",
	)

	contextLogger.Info("contextual message", OperationKey, "apply_training_update")

	if !testLogger.ContainsField(ComponentKey, "boosting") {
		t.Error("Component context not found")
	}
	if !testLogger.ContainsField(OperationKey, "apply_training_update") {
		t.Error("Operation field not found")
	}
}

// TestLoggerEnabled tests the Enabled method
func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	if !testLogger.Enabled(ctx, LevelInfo) {
		t.Error("Logger should be enabled for Info level")
	}
	if !testLogger.Enabled(ctx, LevelError) {
		t.Error("Logger should be enabled for Error level")
	}
	if testLogger.Enabled(ctx, LevelDebug) {
		t.Error("Logger should not be enabled for Debug level")
	}

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	if testLogger.ContainsMessage("this should not appear") {
		t.Error("Debug message should not appear when level is Info")
	}
	if !testLogger.ContainsMessage("this should appear") {
		t.Error("Info message should appear when level is Info")
	}
}

// TestEngineAttributeKeys tests the engine's lifecycle attribute keys
func TestEngineAttributeKeys(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	testLogger.Info("engine created",
		OperationKey, "create_engine",
		SamplesKey, 1000,
		FeaturesKey, 10,
		RandomSeedKey, int64(42),
	)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	expectedFields := map[string]interface{}{
		OperationKey:  "create_engine",
		SamplesKey:    1000.0, // JSON numbers are float64
		FeaturesKey:   10.0,
		RandomSeedKey: 42.0,
	}

	for key, expectedValue := range expectedFields {
		if actualValue, exists := entry[key]; !exists {
			t.Errorf("Expected field %s not found", key)
		} else if actualValue != expectedValue {
			t.Errorf("Field %s: expected %v, got %v", key, expectedValue, actualValue)
		}
	}
}

// TestLoggerProviderIntegration tests the LoggerProvider interface
func TestLoggerProviderIntegration(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	logger := provider.GetLogger()
	logger.Info("provider test message")

	namedLogger := provider.GetLoggerWithName("ebm")
	namedLogger.Info("named logger message")

	if buffer.String() == "" {
		t.Fatal("Expected log output from provider")
	}

	lines := buffer.String()
	if !testContains(lines, "provider test message") {
		t.Error("Provider test message not found")
	}
	if !testContains(lines, "named logger message") {
		t.Error("Named logger message not found")
	}
	if !testContains(lines, "ebm") {
		t.Error("Component name not found in named logger output")
	}
}

// TestErrorLoggingIntegration tests error logging integration
func TestErrorLoggingIntegration(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelError)

	testErr := fmt.Errorf("non-finite validation metric")

	testLogger.Error("apply_validation_update failed",
		"error", testErr,
		OperationKey, "apply_validation_update",
		SamplesKey, 100,
	)

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 error entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry["level"] != "ERROR" {
		t.Error("Expected ERROR level")
	}
	if !testLogger.ContainsField(OperationKey, "apply_validation_update") {
		t.Error("Operation field not found")
	}
}

// TestConcurrentLogging tests thread safety of logging
func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	numGoroutines := 3
	messagesPerGoroutine := 3

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer func() { done <- true }()

			for j := 0; j < messagesPerGoroutine; j++ {
				testLogger.Info(fmt.Sprintf("goroutine %d message %d", id, j),
					"goroutine_id", id,
					"message_id", j,
				)
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	entries, err := testLogger.GetLogEntries()
	if err != nil {
		t.Fatalf("Failed to parse log entries: %v", err)
	}

	expectedEntries := numGoroutines * messagesPerGoroutine
	if len(entries) < expectedEntries-2 { // Allow for some race condition tolerance
		t.Errorf("Expected around %d log entries, got %d", expectedEntries, len(entries))
	}
}

// testContains is a helper function to check if a string contains a substring
func testContains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		func() bool {
			for i := 0; i <= len(s)-len(substr); i++ {
				if s[i:i+len(substr)] == substr {
					return true
				}
			}
			return false
		}())
}

// BenchmarkLogging benchmarks logging performance
func BenchmarkLogging(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testLogger.Info("benchmark message",
			"iteration", i,
			OperationKey, "apply_training_update",
			SamplesKey, 1000,
		)
	}
}

// BenchmarkLoggingWithContext benchmarks logging with contextual fields
func BenchmarkLoggingWithContext(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)
	contextLogger := testLogger.With(
		ComponentKey, "boosting",
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextLogger.Info("benchmark message",
			"iteration", i,
			OperationKey, "apply_training_update",
			SamplesKey, 1000,
		)
	}
}

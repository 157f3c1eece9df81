package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"selection_id", SelectionID("sel-1"), `"selection_id":"sel-1"`},
		{"tool", Tool("web_search"), `"tool":"web_search"`},
		{"capability", Capability("asset_query"), `"capability":"asset_query"`},
		{"pattern", Pattern("web_search/asset_query/quick_lookup"), `"pattern":"web_search/asset_query/quick_lookup"`},
		{"mode", Mode("fast"), `"mode":"fast"`},
		{"stage", Stage("score"), `"stage":"score"`},
		{"score", Score(0.75), `"score":0.75`},
		{"gap", Gap(0.02), `"gap":0.02`},
		{"candidates", Candidates(3), `"candidates":3`},
		{"provider", Provider("anthropic"), `"provider":"anthropic"`},
		{"reason", Reason("cost ceiling"), `"reason":"cost ceiling"`},
		{"component", Component("catalog"), `"component":"catalog"`},
		{"duration", Duration(150 * time.Millisecond), `"duration_ms":150`},
		{"path", Path("/etc/selector/catalog.yaml"), `"path":"/etc/selector/catalog.yaml"`},
		{"error", ErrorField(errors.New("boom")), `"error":"boom"`},
		{"str", Str("k", "v"), `"k":"v"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")
			if !bytes.Contains(buf.Bytes(), []byte(tt.want)) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorField_Nil(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	ErrorField(nil)(logger.Info()).Msg("test")
	if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
		t.Errorf("nil error must not add a field: %s", buf.String())
	}
}

func TestLogEvent_Chaining(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Info()).Add(SelectionID("sel-9")).Add(Mode("cheap")).Msg("selected")

	for _, want := range []string{`"selection_id":"sel-9"`, `"mode":"cheap"`} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("expected %s in output: %s", want, buf.String())
		}
	}
}

func TestGet(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
	SetLevel("debug")
	SetLevel("info")
}

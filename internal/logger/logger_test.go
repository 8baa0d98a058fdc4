package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")
	log.Debug().Str("field", "school_name").Str("rule", "default").Msg("Header field fell back")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	for _, key := range []string{"level", "time", "caller", "field", "rule", "message"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("Missing key %q in %v", key, entry)
		}
	}
}

func TestNew_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "chatty", "json")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("GlobalLevel = %v, want info", zerolog.GlobalLevel())
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "pretty")
	log.Info().Msg("Server listening")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("Pretty output looks like JSON: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "Server listening") {
		t.Errorf("Message missing: %s", buf.String())
	}
}

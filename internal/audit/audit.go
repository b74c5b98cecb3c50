package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogEntry is one structured audit line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	ClientIP  string                 `json:"client_ip"`
	Session   string                 `json:"session,omitempty"` // token fragment, never the full token
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	Status    int                    `json:"status"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Logger interface
type Logger interface {
	Log(entry LogEntry)
}

// JSONLogger writes one JSON object per line to an io.Writer.
type JSONLogger struct {
	out io.Writer
}

func NewJSONLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{out: w}
}

func (l *JSONLogger) Log(entry LogEntry) {
	if entry.Metadata != nil {
		maskSensitive(entry.Metadata)
	}

	bytes, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audit log error: %v\n", err)
		return
	}
	l.out.Write(bytes)
	l.out.Write([]byte("\n"))
}

// maskSensitive redacts metadata values whose keys look like secret
// material. "content" is on the list because item bodies are secrets
// in this app.
func maskSensitive(m map[string]interface{}) {
	sensitiveKeys := []string{"password", "token", "secret", "content", "csrf"}
	for k := range m {
		lowerK := strings.ToLower(k)
		for _, s := range sensitiveKeys {
			if strings.Contains(lowerK, s) {
				m[k] = "***REDACTED***"
				break
			}
		}
	}
}

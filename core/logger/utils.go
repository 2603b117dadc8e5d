package logger

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	fieldTimestamp = "timestamp_micros"
	fieldSessionID = "session_id"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures shell events.
type Logger struct {
	Record LogRecorder

	now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
		now: time.Now,
	}
}

// NewNopLogger creates a Logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error { return nil },
		now:    time.Now,
	}
}

func (l *Logger) recordLogType(sessionID string, event Event) error {
	le, err := structpb.NewStruct(map[string]interface{}{
		fieldTimestamp: l.now().UnixMicro(),
		fieldSessionID: sessionID,
		event.LogType(): event.fields(),
	})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.LogType(), err)
	}

	return l.Record(le)
}

// NewSession creates a logger with attached random session ID.
func (l *Logger) NewSession() *SessionLogger {
	var id [8]byte
	if _, err := rand.Read(id[:]); err != nil {
		return l.Sessionless()
	}
	return &SessionLogger{Logger: l, sessionID: hex.EncodeToString(id[:])}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the identifier attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record writes a single event.
func (l *SessionLogger) Record(event Event) error {
	return l.recordLogType(l.sessionID, event)
}

// LogEntry is a decoded event log line.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	// LogType holds the event name, e.g. "run_command".
	LogType string
	// Fields holds the event payload as decoded from JSON.
	Fields map[string]interface{}
}

// Time returns the time the event was recorded.
func (le *LogEntry) Time() time.Time {
	return time.UnixMicro(le.TimestampMicros)
}

// GetString returns the named string field, or the empty string.
func (le *LogEntry) GetString(key string) string {
	s, _ := le.Fields[key].(string)
	return s
}

// GetInt returns the named numeric field, or zero.
func (le *LogEntry) GetInt(key string) int64 {
	f, _ := le.Fields[key].(float64)
	return int64(f)
}

// GetStrings returns the named list field.
func (le *LogEntry) GetStrings(key string) []string {
	list, _ := le.Fields[key].([]interface{})
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var raw structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &raw); err != nil {
			return err
		}

		handler(decodeEntry(raw.AsMap()))
	}
	return nil
}

func decodeEntry(m map[string]interface{}) *LogEntry {
	le := &LogEntry{}
	for k, v := range m {
		switch k {
		case fieldTimestamp:
			f, _ := v.(float64)
			le.TimestampMicros = int64(f)
		case fieldSessionID:
			le.SessionID, _ = v.(string)
		default:
			le.LogType = k
			le.Fields, _ = v.(map[string]interface{})
		}
	}
	return le
}

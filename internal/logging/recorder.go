package logging

import (
	"context"
	"sync"
)

// Entry is a log line captured by a Recorder.
type Entry struct {
	Level  string
	Msg    string
	Args   []any
	Fields map[string]any
}

// Recorder keeps every entry in memory. Tests use it to assert on warnings.
type Recorder struct {
	entries *[]Entry
	fields  map[string]any
}

func NewRecorder() *Recorder {
	return &Recorder{entries: &[]Entry{}, fields: map[string]any{}}
}

func (r *Recorder) GetLogger(string) Logger { return r }

func (r *Recorder) Trace(msg string, args ...any) { r.add("trace", msg, args) }
func (r *Recorder) Debug(msg string, args ...any) { r.add("debug", msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add("info", msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add("warn", msg, args) }
func (r *Recorder) Error(msg string, args ...any) { r.add("error", msg, args) }

func (r *Recorder) WithFields(fields map[string]any) Logger {
	merged := cloneFields(r.fields)
	for k, v := range fields {
		merged[k] = v
	}
	return &Recorder{entries: r.entries, fields: merged}
}

func (r *Recorder) WithContext(context.Context) Logger { return r }

func (r *Recorder) add(level, msg string, args []any) {
	recMu.Lock()
	defer recMu.Unlock()
	*r.entries = append(*r.entries, Entry{Level: level, Msg: msg, Args: args, Fields: cloneFields(r.fields)})
}

// Entries returns the captured entries at level, or all of them when level
// is empty.
func (r *Recorder) Entries(level string) []Entry {
	recMu.Lock()
	defer recMu.Unlock()
	var out []Entry
	for _, e := range *r.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// children share the parent's slice, so one lock guards all recorders
var recMu sync.Mutex

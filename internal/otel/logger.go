package otel

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize bounds events waiting to be written. The coordinator and the UI
// command goroutines emit; they never wait on the disk.
const queueSize = 1024

type queued struct {
	line []byte
	ev   Event
}

// Logger appends events to a JSONL file from a single writer goroutine and
// mirrors them into the activity ring. A nil *Logger discards everything,
// so the coordinator and main can hold one unconditionally.
type Logger struct {
	session string
	queue   chan queued
	out     io.Writer
	file    io.Closer

	ringMu sync.Mutex
	ring   *RingBuffer

	dropped atomic.Uint64
	closed  atomic.Bool
	stopped chan struct{}
	once    sync.Once
}

// NewLogger starts a logger writing to out. Close flushes it.
func NewLogger(out io.Writer) *Logger {
	l := &Logger{
		session: uuid.NewString(),
		queue:   make(chan queued, queueSize),
		out:     out,
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

// NewFileLogger appends to dataDir/logs/events-YYYY-MM-DD.jsonl, next to
// the text log.
func NewFileLogger(dataDir string) (*Logger, error) {
	dir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}
	path := filepath.Join(dir, "events-"+time.Now().Format("2006-01-02")+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	l := NewLogger(f)
	l.file = f
	return l, nil
}

// NewNullLogger feeds the ring without writing anywhere.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

// SetRingBuffer mirrors every written event into r.
func (l *Logger) SetRingBuffer(r *RingBuffer) {
	if l == nil {
		return
	}
	l.ringMu.Lock()
	l.ring = r
	l.ringMu.Unlock()
}

func (l *Logger) run() {
	defer close(l.stopped)
	for q := range l.queue {
		if _, err := l.out.Write(q.line); err != nil {
			l.dropped.Add(1)
		}
		l.ringMu.Lock()
		r := l.ring
		l.ringMu.Unlock()
		r.Push(q.ev)
	}
}

// Emit stamps e with the time and session and queues it. It never blocks:
// a full queue or a closed logger drops the event and counts it.
func (l *Logger) Emit(e Event) {
	if l == nil {
		return
	}
	defer func() {
		// send on a queue closed between the check and the send
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()
	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.SessionID = l.session

	line, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	select {
	case l.queue <- queued{line: append(line, '\n'), ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// System records a process lifecycle event such as startup or shutdown.
func (l *Logger) System(kind EventKind, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: "main", Msg: msg})
}

// SessionID is stamped on every event of this run.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Dropped counts events that never reached the file.
func (l *Logger) Dropped() uint64 {
	if l == nil {
		return 0
	}
	return l.dropped.Load()
}

// Close writes out everything queued and closes the file. Safe to call
// more than once.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.queue)
		<-l.stopped
		if l.file != nil {
			l.file.Close()
		}
	})
}

package otel

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func decodeLines(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("invalid JSONL line %q: %v", sc.Text(), err)
		}
		out = append(out, m)
	}
	return out
}

func TestFetchCycleJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Level: LevelInfo, Kind: KindFetchStart, Comp: "coord", Count: 3})
	l.Emit(Event{Level: LevelWarn, Kind: KindFetchError, Comp: "coord", Source: "VnExpress", Err: "context deadline exceeded"})
	l.Emit(Event{Level: LevelInfo, Kind: KindFetchComplete, Comp: "coord", Count: 28, Dur: 1500 * time.Millisecond})
	l.Close()

	lines := decodeLines(t, buf.Bytes())
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0]["kind"] != "fetch.start" || lines[0]["count"] != float64(3) {
		t.Errorf("start line = %v", lines[0])
	}
	if lines[1]["source"] != "VnExpress" || lines[1]["level"] != "warn" {
		t.Errorf("error line = %v", lines[1])
	}
	if lines[2]["dur_ms"] != float64(1500) {
		t.Errorf("dur_ms = %v, want 1500", lines[2]["dur_ms"])
	}
	for _, field := range []string{"source", "err", "msg", "rid", "dur_ms"} {
		if _, ok := lines[0][field]; ok {
			t.Errorf("empty field %q written on fetch.start", field)
		}
	}
}

func TestEmitStampsTimeAndSession(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.System(KindStartup, "bantin started")
	l.Emit(Event{Kind: KindGenerateStart, RequestID: "req-1", Msg: "bão số 3"})
	l.System(KindShutdown, "bantin stopped")
	l.Close()

	lines := decodeLines(t, buf.Bytes())
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if line["session_id"] != l.SessionID() || l.SessionID() == "" {
			t.Errorf("line %d session_id = %v, want %q", i, line["session_id"], l.SessionID())
		}
		ts, err := time.Parse(time.RFC3339Nano, line["t"].(string))
		if err != nil || ts.Before(before.Add(-time.Second)) {
			t.Errorf("line %d time = %v (%v)", i, line["t"], err)
		}
	}
	if lines[0]["comp"] != "main" || lines[0]["level"] != "info" || lines[0]["msg"] != "bantin started" {
		t.Errorf("startup line = %v", lines[0])
	}
	if lines[1]["rid"] != "req-1" {
		t.Errorf("rid = %v", lines[1]["rid"])
	}
}

func TestLoggerFeedsActivityRing(t *testing.T) {
	ring := NewRingBuffer(16)
	l := NewNullLogger()
	l.SetRingBuffer(ring)

	l.Emit(Event{Kind: KindGenerateStart, Msg: "giá vàng"})
	l.Emit(Event{Kind: KindGenerateComplete, Count: 30})
	l.Emit(Event{Kind: KindSpellSuggest, Msg: "giá vàng"})
	l.Close()

	sum := ring.Summary()
	if sum.Generations != 1 || sum.GenerationsDone != 1 || sum.Suggestions != 1 {
		t.Errorf("summary = %+v", sum)
	}
	e, ok := ring.LastOf(KindGenerateComplete)
	if !ok || e.SessionID != l.SessionID() {
		t.Errorf("ring event = %+v, %v", e, ok)
	}
}

func TestConcurrentEmitFromRotations(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Emit(Event{Kind: KindWeatherComplete, Comp: "coord", Source: "Huế"})
		}()
	}
	wg.Wait()
	l.Close()

	if n := len(decodeLines(t, buf.Bytes())); n != 50 {
		t.Errorf("got %d lines, want 50", n)
	}
}

// stalledWriter blocks its first Write until released.
type stalledWriter struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (w *stalledWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	return len(p), nil
}

func TestEmitNeverBlocksOnSlowDisk(t *testing.T) {
	w := &stalledWriter{entered: make(chan struct{}), release: make(chan struct{})}
	l := NewLogger(w)

	l.Emit(Event{Kind: KindFetchStart})
	<-w.entered

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize+10; i++ {
			l.Emit(Event{Kind: KindWeatherComplete})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked behind a stalled writer")
	}
	if l.Dropped() == 0 {
		t.Error("overflow was not counted as dropped")
	}

	close(w.release)
	l.Close()
}

func TestEmitAfterClose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)
	l.System(KindShutdown, "bantin stopped")
	l.Close()
	l.Close()

	l.Emit(Event{Kind: KindWeatherComplete})
	if l.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", l.Dropped())
	}
	if n := len(decodeLines(t, buf.Bytes())); n != 1 {
		t.Errorf("got %d lines, want 1", n)
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Emit(Event{Kind: KindStartup})
	l.System(KindStartup, "x")
	l.SetRingBuffer(NewRingBuffer(1))
	l.Close()
	if l.Dropped() != 0 || l.SessionID() != "" {
		t.Error("nil logger reported state")
	}
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileLogger(dir)
	if err != nil {
		t.Fatal(err)
	}
	l.System(KindStartup, "bantin started")
	l.Close()

	matches, _ := filepath.Glob(filepath.Join(dir, "logs", "events-*.jsonl"))
	if len(matches) != 1 {
		t.Fatalf("event files = %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"kind":"sys.startup"`) {
		t.Errorf("file = %s", data)
	}
}

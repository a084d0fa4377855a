// Package log persists the per-tick record stream as zstd-compressed
// JSONL, one file per UTC hour under <dataDir>/ticks.
package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"gridfall/internal/sim/world"
)

// TickLogger appends one JSON line per simulation tick. Rotation is by
// wall-clock hour; each hour is its own zstd stream so a crash loses at
// most the tail of the current hour.
type TickLogger struct {
	dir string

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

func NewTickLogger(dataDir string) *TickLogger {
	return &TickLogger{dir: filepath.Join(dataDir, "ticks")}
}

func (l *TickLogger) WriteTick(entry world.TickLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != l.hour {
		if err := l.rotate(hour); err != nil {
			return err
		}
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := l.buf.Write(append(line, '\n')); err != nil {
		return err
	}
	return l.buf.Flush()
}

func (l *TickLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeStream()
}

// rotate seals the current hour's stream and opens the next one. Append
// mode starts a new zstd frame after any existing ones, so a restart
// within the same hour keeps earlier ticks readable.
func (l *TickLogger) rotate(hour string) error {
	if err := l.closeStream(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(l.dir, "ticks-"+hour+".jsonl.zst"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	l.file = f
	l.zw = zw
	l.buf = bufio.NewWriterSize(zw, 128*1024)
	l.hour = hour
	return nil
}

func (l *TickLogger) closeStream() error {
	if l.buf != nil {
		_ = l.buf.Flush()
		l.buf = nil
	}
	var err error
	if l.zw != nil {
		err = l.zw.Close()
		l.zw = nil
	}
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	return err
}

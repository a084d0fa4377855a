package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"gridfall/internal/sim/world"
)

func TestTickLogger_WritesDecodableLines(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	for i := 0; i < 3; i++ {
		entry := world.TickLogEntry{Tick: uint64(i), Digest: "d"}
		if err := l.WriteTick(entry); err != nil {
			t.Fatalf("WriteTick %d: %v", i, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(dir, "ticks"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("file count = %d, want 1", len(ents))
	}

	f, err := os.Open(filepath.Join(dir, "ticks", ents[0].Name()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()

	var last world.TickLogEntry
	n := 0
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		if err := json.Unmarshal(sc.Bytes(), &last); err != nil {
			t.Fatalf("line %d: %v", n, err)
		}
		n++
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 3 || last.Tick != 2 || last.Digest != "d" {
		t.Fatalf("read %d lines, last tick %d", n, last.Tick)
	}
}

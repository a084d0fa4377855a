package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gridfall/internal/persistence/indexdb"
	persistlog "gridfall/internal/persistence/log"
	"gridfall/internal/persistence/snapshot"
	"gridfall/internal/sim/tuning"
	"gridfall/internal/sim/world"
	"gridfall/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		seed       = flag.Int64("seed", 1337, "world seed (used only when starting fresh)")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "./configs/world.yaml", "path to tuning yaml")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite snapshot index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	_ = os.MkdirAll(*dataDir, 0o755)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", *tuningPath)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
	}

	w := world.New(world.Config{
		Seed: *seed,
		Tune: tune,
	})

	snapshotToLoad := strings.TrimSpace(*snapPath)
	explicit := snapshotToLoad != ""
	if snapshotToLoad == "" && *loadLatest {
		snapshotToLoad = discoverLatestSnapshot(idx, *dataDir)
	}
	if snapshotToLoad != "" {
		w, err = resumeFromSnapshot(w, snapshotToLoad, explicit, *seed, tune, logger)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	tickLog := persistlog.NewTickLogger(*dataDir)
	defer tickLog.Close()
	w.SetTickLogger(multiTickLogger{a: tickLog, b: idx})

	// Snapshot writer.
	snapCh := make(chan snapshot.SnapshotV1, 2)
	w.SetSnapshotSink(snapCh)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-snapCh:
				path := filepath.Join(*dataDir, "snapshots", fmt.Sprintf("%d.snap.zst", snap.Header.Tick))
				if err := snapshot.WriteSnapshot(path, snap); err != nil {
					logger.Printf("snapshot write: %v", err)
					continue
				}
				if idx != nil {
					idx.RecordSnapshot(path, snap)
				}
			}
		}
	}()

	go func() {
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(w, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (seed=%d tick_rate=%d)", *addr, *seed, tune.TickRateHz)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// multiTickLogger fans tick entries out to the JSONL log and the sqlite
// index; either side may be nil.
type multiTickLogger struct {
	a *persistlog.TickLogger
	b *indexdb.SQLiteIndex
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		if err := m.a.WriteTick(entry); err != nil {
			return err
		}
	}
	if m.b != nil {
		return m.b.WriteTick(entry)
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

// resumeFromSnapshot loads the snapshot at path into w, rebuilding the
// world first when the snapshot carries a different seed. A read error on
// an explicitly requested snapshot is returned to the caller; for an
// auto-discovered one it only logs, so a corrupt leftover file cannot keep
// the server from starting on a fresh world. Restore rejections always
// fall back to the fresh world.
func resumeFromSnapshot(w *world.World, path string, explicit bool, seed int64, tune tuning.Tuning, logger *log.Logger) (*world.World, error) {
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		if explicit {
			return w, err
		}
		logger.Printf("snapshot %s unreadable (%v); starting fresh", filepath.Base(path), err)
		return w, nil
	}
	if snap.Seed != seed {
		// The grid layout derives from the snapshot's seed; rebuild the
		// world around it before restoring.
		w = world.New(world.Config{Seed: snap.Seed, Tune: tune})
	}
	if err := w.RestoreSnapshot(snap); err != nil {
		logger.Printf("snapshot %s rejected (%v); starting fresh", filepath.Base(path), err)
		return w, nil
	}
	logger.Printf("resumed from snapshot=%s tick=%d", filepath.Base(path), w.CurrentTick())
	return w, nil
}

// discoverLatestSnapshot prefers the sqlite index's read model and falls
// back to scanning the snapshots directory when the index is disabled or
// has no rows yet.
func discoverLatestSnapshot(idx *indexdb.SQLiteIndex, dataDir string) string {
	if idx != nil {
		if p, err := idx.LatestSnapshotPath(); err == nil && p != "" {
			return p
		}
	}
	return latestSnapshot(dataDir)
}

// latestSnapshot scans the snapshots directory for the highest-tick file.
func latestSnapshot(dataDir string) string {
	dir := filepath.Join(dataDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			best = filepath.Join(dir, name)
			bestTick = tick
		}
	}
	return best
}

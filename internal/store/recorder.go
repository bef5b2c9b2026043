package store

import (
	"log"
	"sync"
	"time"
)

const (
	recorderQueueSize = 1024
	flushBatchSize    = 50
)

// DefaultFlushInterval bounds how long a queued record waits for a write.
const DefaultFlushInterval = 2 * time.Second

type record struct {
	life *Life
	kill *KillEvent
}

// Recorder persists lives and kill events from the game loop without
// blocking it. Records are batched and written by a background goroutine.
type Recorder struct {
	db       *DB
	records  chan record
	stop     chan struct{}
	interval time.Duration
	wg       sync.WaitGroup
	once     sync.Once
}

// NewRecorder creates and starts the background writer. A nil db makes every
// method a no-op.
func NewRecorder(db *DB, interval time.Duration) *Recorder {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	r := &Recorder{
		db:       db,
		records:  make(chan record, recorderQueueSize),
		stop:     make(chan struct{}),
		interval: interval,
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// RecordLife enqueues a finished life. It never blocks; when the queue is
// full the record is dropped.
func (r *Recorder) RecordLife(l Life) {
	r.enqueue(record{life: &l})
}

// TrackKill enqueues a kill event.
func (r *Recorder) TrackKill(e KillEvent) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	r.enqueue(record{kill: &e})
}

func (r *Recorder) enqueue(rec record) {
	select {
	case r.records <- rec:
	default:
		log.Printf("recorder: queue full, dropping record")
	}
}

// Stop flushes everything queued so far and shuts the writer down.
func (r *Recorder) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]record, 0, 64)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case rec := <-r.records:
			batch = append(batch, rec)
			if len(batch) >= flushBatchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
			for {
				select {
				case rec := <-r.records:
					batch = append(batch, rec)
				default:
					r.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch in one transaction.
func (r *Recorder) flush(batch []record) {
	if r.db == nil || len(batch) == 0 {
		return
	}
	tx, err := r.db.conn.Begin()
	if err != nil {
		log.Printf("recorder: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	for _, rec := range batch {
		switch {
		case rec.life != nil:
			err = insertLife(tx, *rec.life)
		case rec.kill != nil:
			err = insertKill(tx, *rec.kill)
		default:
			continue
		}
		if err != nil {
			log.Printf("recorder: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("recorder: commit error: %v", err)
	}
}

// Package history keeps a bounded in-memory ring of completed screening
// passes. Old passes are overwritten, never flushed anywhere — it only
// exists so the UI can show what recent runs found.
package history

import (
	"sync"
	"time"

	"crypto-screenerv1/internal/model"
)

// PassRecord is one completed screening pass.
type PassRecord struct {
	At      time.Time               `json:"at"`
	Stats   model.ScreenStats       `json:"stats"`
	Results []model.ScreeningResult `json:"results"`
}

// Ring holds the most recent passes. Capacity is rounded up to the next
// power of two for bitwise index masking.
type Ring struct {
	mu   sync.RWMutex
	buf  []PassRecord
	mask uint64
	head uint64 // total records ever added
}

// New creates a pass ring. capacity is rounded up to the next power of two,
// minimum 2.
func New(capacity int) *Ring {
	c := nextPow2(capacity)
	if c < 2 {
		c = 2
	}
	return &Ring{
		buf:  make([]PassRecord, c),
		mask: uint64(c - 1),
	}
}

// Add records a completed pass, overwriting the oldest when full.
func (r *Ring) Add(rec PassRecord) {
	r.mu.Lock()
	r.buf[r.head&r.mask] = rec
	r.head++
	r.mu.Unlock()
}

// Recent returns up to n passes, newest first.
func (r *Ring) Recent(n int) []PassRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	avail := int(r.head)
	if avail > len(r.buf) {
		avail = len(r.buf)
	}
	if n > avail {
		n = avail
	}
	if n <= 0 {
		return nil
	}

	out := make([]PassRecord, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head-1-uint64(i))&r.mask]
	}
	return out
}

// Len returns the number of retained passes.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(r.head) < len(r.buf) {
		return int(r.head)
	}
	return len(r.buf)
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// nextPow2 returns the smallest power of 2 >= n.
func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

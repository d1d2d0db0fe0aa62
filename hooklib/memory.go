package hooklib

import (
	"sync"

	"github.com/ListenOcean/goTableHint/utils"
)

// DefaultMemorySize is the number of recent calls remembered.
const DefaultMemorySize = 32

type callRecord struct {
	target string
	site   CallSite
}

func (c callRecord) same(o callRecord) bool {
	return c.target == o.target && c.site.Same(o.site)
}

// Memory is a fixed-capacity ring of the most recent intercepted calls
// across all targets. The oldest record is evicted first.
type Memory struct {
	mu   sync.Mutex
	ring []callRecord
	head int // next write position
	size int
}

// NewMemory returns a memory holding capacity records; non-positive values
// select DefaultMemorySize.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemorySize
	}
	return &Memory{ring: make([]callRecord, capacity)}
}

// Record stores the call and returns how many consecutive records, counted
// back from the newest, are identical to it. The result is at least 1.
func (m *Memory) Record(target string, site CallSite) int {
	rec := callRecord{target: target, site: site}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ring[m.head] = rec
	m.head = (m.head + 1) % len(m.ring)
	if m.size < len(m.ring) {
		m.size++
	}

	similar := 0
	for i := 0; i < m.size; i++ {
		pos := (m.head - 1 - i + len(m.ring)) % len(m.ring)
		if !m.ring[pos].same(rec) {
			break
		}
		similar++
	}
	utils.True(similar >= 1, "the newest record matches itself")
	return similar
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// Cap returns the fixed capacity.
func (m *Memory) Cap() int {
	return len(m.ring)
}

// Reset forgets every record.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ring = make([]callRecord, len(m.ring))
	m.head = 0
	m.size = 0
}

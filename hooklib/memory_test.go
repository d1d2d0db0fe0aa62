package hooklib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCountsConsecutiveRecords(t *testing.T) {
	m := NewMemory(4)
	a := CallSite{File: "a.go", Line: 1, Code: "x := f()"}
	b := CallSite{File: "a.go", Line: 2, Code: "y := f()"}

	assert.Equal(t, 1, m.Record("F", a))
	assert.Equal(t, 2, m.Record("F", a))
	assert.Equal(t, 1, m.Record("G", a))
	assert.Equal(t, 1, m.Record("F", a))
	assert.Equal(t, 1, m.Record("F", b))
	assert.Equal(t, 2, m.Record("F", b))
	assert.Equal(t, 4, m.Len())
}

func TestMemoryEvictsOldest(t *testing.T) {
	m := NewMemory(3)
	site := CallSite{File: "a.go", Line: 1}
	for i := 1; i <= 3; i++ {
		assert.Equal(t, i, m.Record("F", site))
	}
	// the ring never reports more than its capacity
	assert.Equal(t, 3, m.Record("F", site))
	assert.Equal(t, 3, m.Record("F", site))
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 3, m.Cap())

	m.Reset()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, m.Record("F", site))
}

func TestMemoryDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultMemorySize, NewMemory(0).Cap())
	assert.Equal(t, DefaultMemorySize, NewMemory(-5).Cap())
}

func TestMemorySameSiteDifferentCode(t *testing.T) {
	m := NewMemory(8)
	m.Record("F", CallSite{File: "a.go", Line: 1, Code: "f(1)"})
	assert.Equal(t, 1, m.Record("F", CallSite{File: "a.go", Line: 1, Code: "f(2)"}))
}

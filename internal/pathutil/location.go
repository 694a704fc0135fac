package pathutil

import (
	"strconv"
	"strings"
	"sync"
)

const (
	defaultLocationCap = 8
	maxLocationCap     = 64
)

// Location builds dotted document locations incrementally.
// The full string is only materialized when String() is called.
type Location struct {
	segments []string
}

// Push adds a segment.
func (l *Location) Push(segment string) {
	l.segments = append(l.segments, segment)
}

// PushIndex adds an array index segment rendered as "[i]".
func (l *Location) PushIndex(i int) {
	l.segments = append(l.segments, "["+strconv.Itoa(i)+"]")
}

// Pop removes the last segment.
func (l *Location) Pop() {
	if len(l.segments) == 0 {
		return
	}
	l.segments = l.segments[:len(l.segments)-1]
}

// Reset clears the location for reuse.
func (l *Location) Reset() {
	l.segments = l.segments[:0]
}

// String materializes the location.
func (l *Location) String() string {
	if len(l.segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(l.segments[0])
	for _, seg := range l.segments[1:] {
		if !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

var locationPool = sync.Pool{
	New: func() any {
		return &Location{segments: make([]string, 0, defaultLocationCap)}
	},
}

// Get retrieves a Location from the pool, reset and ready to use.
func Get() *Location {
	l := locationPool.Get().(*Location)
	l.Reset()
	return l
}

// Put returns a Location to the pool unless it grew oversized.
func Put(l *Location) {
	if l == nil || cap(l.segments) > maxLocationCap {
		return
	}
	locationPool.Put(l)
}

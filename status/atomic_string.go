package status

import "sync/atomic"

// MaxStringLen bounds a stored string so a debug surface can't be made to
// buffer an unbounded label (e.g. a hostile or malformed peer identifier).
const MaxStringLen = 64

// AtomicString is a lock-free string handle. The zero value is ready to
// use and Loads as "".
type AtomicString struct {
	ptr atomic.Pointer[string]
}

func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

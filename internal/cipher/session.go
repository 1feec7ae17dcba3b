package cipher

import (
	"context"
	"errors"
	"sync"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/platform"
)

const (
	// HelperInvalid is shown when the latest input cannot be decrypted.
	HelperInvalid = "Invalid input or key"

	// HelperNotReady is shown when there is no key to decrypt with.
	HelperNotReady = "Not ready to decrypt: key is not set"
)

// View is what a session currently shows for its latest input.
type View struct {
	Seq       uint64
	Input     string
	Plaintext string
	Invalid   bool
	Helper    string
	Pending   bool
}

// KeyFunc returns the private key to decrypt with, if any.
type KeyFunc func() (platform.Key, bool)

// Session decrypts a changing input and keeps the result of the latest one.
type Session struct {
	service  *Service
	key      KeyFunc
	onChange func(View)

	mu       sync.Mutex
	issued   uint64
	view     View
	dropped  uint64
	queue    []View
	flushing bool

	wg sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// OnChange registers fn to receive every applied view, in the order the views
// were applied. fn runs without the session lock held.
func OnChange(fn func(View)) SessionOption {
	return func(s *Session) { s.onChange = fn }
}

// NewSession returns a session decrypting with whatever key returns at
// submission time.
func NewSession(service *Service, key KeyFunc, opts ...SessionOption) *Session {
	s := &Session{service: service, key: key}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records input as the latest input and starts decrypting it. It
// returns the sequence number of the submission. Empty input and a missing
// key resolve immediately.
func (s *Session) Submit(ctx context.Context, input string) uint64 {
	s.mu.Lock()
	s.issued++
	seq := s.issued

	if input == "" {
		s.applyLocked(View{Seq: seq})
		s.mu.Unlock()
		s.flush()
		return seq
	}

	key, ok := s.key()
	if !ok {
		s.applyLocked(View{Seq: seq, Input: input, Helper: HelperNotReady})
		s.mu.Unlock()
		s.flush()
		return seq
	}

	// Nothing from the previous input may be shown next to this one.
	s.view = View{Seq: seq, Input: input, Pending: true}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		plaintext, err := s.service.Decrypt(ctx, input, key)
		s.complete(seq, input, plaintext, err)
	}()

	return seq
}

func (s *Session) complete(seq uint64, input, plaintext string, err error) {
	// A cancelled decrypt says nothing about the input.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}

	s.mu.Lock()
	if seq != s.issued {
		s.dropped++
		s.mu.Unlock()
		return
	}

	v := View{Seq: seq, Input: input, Plaintext: plaintext}
	switch {
	case err == nil:
	case errors.Is(err, kerrors.ErrNotReady):
		v.Helper = HelperNotReady
	default:
		v.Plaintext = ""
		v.Invalid = true
		v.Helper = HelperInvalid
	}
	s.applyLocked(v)
	s.mu.Unlock()
	s.flush()
}

func (s *Session) applyLocked(v View) {
	s.view = v
	if s.onChange != nil {
		s.queue = append(s.queue, v)
	}
}

// flush delivers queued views to onChange outside the lock. Only one caller
// delivers at a time, so views arrive in the order they were applied.
func (s *Session) flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	for len(s.queue) > 0 {
		v := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		s.onChange(v)
		s.mu.Lock()
	}
	s.flushing = false
	s.mu.Unlock()
}

// View returns the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Dropped returns how many results were discarded because a newer input had
// been submitted.
func (s *Session) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Wait blocks until every started decrypt has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

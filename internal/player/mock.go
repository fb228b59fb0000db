// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"
)

// Mock is an instrumented test double for Engine.
// It counts handle creations and releases so tests can assert that at most
// one handle is live at a time.
type Mock struct {
	mu        sync.Mutex
	loadErr   error
	opErr     error
	unloadErr error
	loads     []string
	handles   []*MockHandle
	created   int
	released  int
	maxLive   int
	loadHook  func(url string)
}

// NewMock creates a new mock engine.
func NewMock() *Mock {
	return &Mock{}
}

// Load creates a MockHandle bound to url.
func (m *Mock) Load(_ context.Context, url string, opts LoadOptions) (Handle, error) {
	m.mu.Lock()
	m.loads = append(m.loads, url)
	hook := m.loadHook
	if m.loadErr != nil {
		err := m.loadErr
		m.mu.Unlock()
		return nil, err
	}
	h := &MockHandle{
		mock:  m,
		url:   url,
		opts:  opts,
		state: Paused,
	}
	if opts.Autoplay {
		h.state = Playing
	}
	m.handles = append(m.handles, h)
	m.created++
	m.maxLive = max(m.maxLive, m.created-m.released)
	m.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	return h, nil
}

// Test helpers

// SetLoadError makes subsequent Load calls fail with err.
func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetOpError makes Pause, Resume, Stop and SetPosition fail with err.
func (m *Mock) SetOpError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opErr = err
}

// SetUnloadError makes Unload fail with err. The handle still counts as released.
func (m *Mock) SetUnloadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unloadErr = err
}

// OnLoad registers a hook called after every successful Load.
func (m *Mock) OnLoad(fn func(url string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadHook = fn
}

// Loads returns every url passed to Load, in order.
func (m *Mock) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

// Created returns the number of handles created.
func (m *Mock) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Released returns the number of handles unloaded.
func (m *Mock) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Live returns the number of handles currently loaded.
func (m *Mock) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created - m.released
}

// MaxLive returns the highest number of simultaneously loaded handles seen.
func (m *Mock) MaxLive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxLive
}

// Last returns the most recently created handle, or nil.
func (m *Mock) Last() *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.handles) == 0 {
		return nil
	}
	return m.handles[len(m.handles)-1]
}

// Handles returns all handles created so far.
func (m *Mock) Handles() []*MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockHandle(nil), m.handles...)
}

// MockHandle is the handle returned by Mock.
type MockHandle struct {
	mock      *Mock
	url       string
	opts      LoadOptions
	state     State
	position  time.Duration
	seekCalls []time.Duration
	unloaded  bool
}

func (h *MockHandle) Pause(_ context.Context) error {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	if h.mock.opErr != nil {
		return h.mock.opErr
	}
	h.state = Paused
	return nil
}

func (h *MockHandle) Resume(_ context.Context) error {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	if h.mock.opErr != nil {
		return h.mock.opErr
	}
	h.state = Playing
	return nil
}

func (h *MockHandle) Stop(_ context.Context) error {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	if h.mock.opErr != nil {
		return h.mock.opErr
	}
	h.state = Stopped
	h.position = 0
	return nil
}

func (h *MockHandle) SetPosition(_ context.Context, position time.Duration) error {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	h.seekCalls = append(h.seekCalls, position)
	if h.mock.opErr != nil {
		return h.mock.opErr
	}
	h.position = position
	return nil
}

func (h *MockHandle) Unload(_ context.Context) error {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	if !h.unloaded {
		h.unloaded = true
		h.mock.released++
	}
	h.state = Stopped
	return h.mock.unloadErr
}

// URL returns the locator the handle was loaded with.
func (h *MockHandle) URL() string { return h.url }

// State returns the handle's transport state.
func (h *MockHandle) State() State {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	return h.state
}

// Unloaded reports whether Unload was called.
func (h *MockHandle) Unloaded() bool {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	return h.unloaded
}

// SeekCalls returns every position passed to SetPosition.
func (h *MockHandle) SeekCalls() []time.Duration {
	h.mock.mu.Lock()
	defer h.mock.mu.Unlock()
	return append([]time.Duration(nil), h.seekCalls...)
}

// Emit pushes a status update through the handle's callback, the way the
// engine does from its own goroutine.
func (h *MockHandle) Emit(s Status) {
	if h.opts.OnStatus != nil {
		h.opts.OnStatus(s)
	}
}

// SimulateFinished emits a completion status.
func (h *MockHandle) SimulateFinished() {
	h.Emit(Status{DidJustFinish: true})
}

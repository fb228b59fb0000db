// internal/playback/coordinator.go
package playback

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/llehouerou/wavecast/internal/player"
	"github.com/llehouerou/wavecast/internal/playlist"
)

// Verify Coordinator implements Service at compile time.
var _ Service = (*Coordinator)(nil)

// ErrorReporter receives every swallowed failure, e.g. to forward it to an
// error tracker.
type ErrorReporter func(ErrorEvent)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *log.Entry) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithErrorReporter registers a reporter for swallowed failures.
func WithErrorReporter(r ErrorReporter) Option {
	return func(c *Coordinator) { c.report = r }
}

// Coordinator owns the single live engine handle, the playback state and
// the queue.
//
// opMu serialises every operation that touches the handle, so the
// release-before-create sequence in Play is atomic across goroutines. mu
// guards the state fields and is never held across an engine call.
type Coordinator struct {
	engine player.Engine
	logger *log.Entry
	report ErrorReporter

	opMu sync.Mutex

	mu         sync.Mutex
	queue      *playlist.Queue[Track]
	state      State
	current    *Track
	playing    bool
	position   time.Duration
	duration   time.Duration
	handle     player.Handle
	generation uint64
	lastErr    *ErrorEvent
	closed     bool
	advancing  sync.WaitGroup

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates a coordinator in the Idle state with an empty queue.
func New(engine player.Engine, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine: engine,
		logger: log.WithFields(log.Fields{"module": "playback"}),
		queue:  playlist.NewQueue[Track](),
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetQueue replaces the queue. Playback is not affected.
func (c *Coordinator) SetQueue(tracks []Track) {
	c.mu.Lock()
	c.queue.Replace(tracks)
	items := c.queue.Items()
	c.mu.Unlock()

	c.broadcast(func(s *Subscription) { s.sendQueue(QueueChange{Tracks: items}) })
}

// Queue returns a copy of the queue.
func (c *Coordinator) Queue() []Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Items()
}

// PlayQueue replaces the queue and plays the track at index.
// An out of range index only replaces the queue.
func (c *Coordinator) PlayQueue(ctx context.Context, tracks []Track, index int) {
	c.SetQueue(tracks)
	if index < 0 || index >= len(tracks) {
		return
	}
	c.Play(ctx, tracks[index])
}

// Snapshot returns a copy of the playback state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:      c.state,
		Current:    copyTrack(c.current),
		Playing:    c.playing,
		Position:   c.position,
		Duration:   c.duration,
		Generation: c.generation,
		LastError:  copyError(c.lastErr),
	}
}

// CurrentTrack returns the loaded track, or nil.
func (c *Coordinator) CurrentTrack() *Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyTrack(c.current)
}

// Play releases the live handle and loads track with autoplay.
// A track without an audio locator is ignored and leaves state untouched.
func (c *Coordinator) Play(ctx context.Context, track Track) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.playLocked(ctx, track)
}

func (c *Coordinator) playLocked(ctx context.Context, track Track) {
	if !track.Playable() {
		c.logger.WithField("track", track.ID).Debug("ignoring track without audio locator")
		return
	}
	if c.isClosed() {
		return
	}

	c.releaseLocked(ctx)

	c.mu.Lock()
	c.generation++
	gen := c.generation
	prevState := c.state
	prevTrack := copyTrack(c.current)
	t := track
	c.state = StateLoading
	c.current = &t
	c.playing = false
	c.position = 0
	c.duration = track.Duration
	c.mu.Unlock()
	c.emitState(prevState, StateLoading)

	h, err := c.engine.Load(ctx, track.AudioURL, player.LoadOptions{
		Autoplay: true,
		OnStatus: c.statusFunc(gen),
	})
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.current = nil
		c.mu.Unlock()
		c.fail("load", track.ID, err)
		c.emitState(StateLoading, StateIdle)
		return
	}

	c.mu.Lock()
	c.handle = h
	c.state = StatePlaying
	c.playing = true
	c.mu.Unlock()

	c.emitState(StateLoading, StatePlaying)
	cur := t
	c.broadcast(func(s *Subscription) {
		s.sendTrack(TrackChange{Previous: prevTrack, Current: &cur})
	})
}

// releaseLocked unloads the live handle. Unload errors are swallowed.
// The generation moves on so late updates from the released handle are
// discarded. Callers hold opMu.
func (c *Coordinator) releaseLocked(ctx context.Context) {
	c.mu.Lock()
	h := c.handle
	c.handle = nil
	if h != nil {
		c.generation++
	}
	trackID := ""
	if c.current != nil {
		trackID = c.current.ID
	}
	c.mu.Unlock()

	if h == nil {
		return
	}
	if err := h.Unload(ctx); err != nil {
		c.fail("unload", trackID, err)
	}
}

// Pause pauses the live handle. No-op without one.
func (c *Coordinator) Pause(ctx context.Context) {
	c.transport(ctx, "pause", StatePaused, false, player.Handle.Pause)
}

// Resume resumes the live handle. No-op without one.
func (c *Coordinator) Resume(ctx context.Context) {
	c.transport(ctx, "resume", StatePlaying, true, player.Handle.Resume)
}

// Toggle pauses when playing and resumes when paused. When stopped with a
// track still loaded in the UI, the track is played again.
func (c *Coordinator) Toggle(ctx context.Context) {
	snap := c.Snapshot()
	switch snap.State {
	case StatePlaying:
		c.Pause(ctx)
	case StatePaused:
		c.Resume(ctx)
	case StateStopped:
		if snap.Current != nil {
			c.Play(ctx, *snap.Current)
		}
	case StateIdle, StateLoading:
	}
}

// Stop stops and releases the live handle. The current track is kept so
// the UI can still show it. No-op without a handle.
func (c *Coordinator) Stop(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	h, trackID := c.liveHandle()
	if h == nil {
		return
	}
	if err := h.Stop(ctx); err != nil {
		c.fail("stop", trackID, err)
		return
	}
	c.releaseLocked(ctx)

	c.mu.Lock()
	prev := c.state
	c.state = StateStopped
	c.playing = false
	c.position = 0
	c.mu.Unlock()
	c.emitState(prev, StateStopped)
}

func (c *Coordinator) transport(
	ctx context.Context,
	op string,
	next State,
	playing bool,
	call func(player.Handle, context.Context) error,
) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	h, trackID := c.liveHandle()
	if h == nil {
		return
	}
	if err := call(h, ctx); err != nil {
		c.fail(op, trackID, err)
		return
	}

	c.mu.Lock()
	prev := c.state
	c.state = next
	c.playing = playing
	c.mu.Unlock()
	if prev != next {
		c.emitState(prev, next)
	}
}

// Seek moves to an absolute position. The target is clamped to
// [0, duration] when the duration is known. Play/pause state is unchanged.
func (c *Coordinator) Seek(ctx context.Context, target time.Duration) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.seekLocked(ctx, func(time.Duration) time.Duration { return target })
}

// SeekBy moves relative to the current position.
func (c *Coordinator) SeekBy(ctx context.Context, delta time.Duration) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.seekLocked(ctx, func(pos time.Duration) time.Duration { return pos + delta })
}

func (c *Coordinator) seekLocked(ctx context.Context, target func(time.Duration) time.Duration) {
	c.mu.Lock()
	h := c.handle
	pos := clampPosition(target(c.position), c.duration)
	dur := c.duration
	trackID := ""
	if c.current != nil {
		trackID = c.current.ID
	}
	c.mu.Unlock()

	if h == nil {
		return
	}
	if err := h.SetPosition(ctx, pos); err != nil {
		c.fail("seek", trackID, err)
		return
	}

	c.mu.Lock()
	c.position = pos
	c.mu.Unlock()
	c.broadcast(func(s *Subscription) {
		s.sendPosition(PositionChange{Position: pos, Duration: dur})
	})
}

func clampPosition(pos, duration time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if duration > 0 && pos > duration {
		return duration
	}
	return pos
}

// Next plays the track after the current one, wrapping from the last to
// the first. No-op when nothing is loaded or the current track is not queued.
func (c *Coordinator) Next(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stepLocked(ctx, (*playlist.Queue[Track]).After)
}

// Previous plays the track before the current one, wrapping from the first
// to the last.
func (c *Coordinator) Previous(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stepLocked(ctx, (*playlist.Queue[Track]).Before)
}

// stepLocked walks the queue in one direction, skipping unplayable tracks.
// It gives up after one full lap.
func (c *Coordinator) stepLocked(ctx context.Context, step func(*playlist.Queue[Track], string) (Track, bool)) {
	c.mu.Lock()
	if c.current == nil || c.closed {
		c.mu.Unlock()
		return
	}
	key := c.current.ID
	n := c.queue.Len()
	var target Track
	found := false
	for range n {
		t, ok := step(c.queue, key)
		if !ok {
			break
		}
		if t.Playable() {
			target, found = t, true
			break
		}
		key = t.ID
	}
	c.mu.Unlock()

	if found {
		c.playLocked(ctx, target)
	}
}

// statusFunc returns the engine callback for the handle of generation gen.
// Updates from a superseded handle are discarded.
func (c *Coordinator) statusFunc(gen uint64) player.StatusFunc {
	return func(st player.Status) {
		c.mu.Lock()
		if c.closed || gen != c.generation {
			c.mu.Unlock()
			return
		}
		c.position = st.Position
		if st.Duration > 0 {
			c.duration = st.Duration
		}
		if c.state.HasHandle() {
			c.playing = st.Playing
		}
		pos, dur := c.position, c.duration
		if st.DidJustFinish {
			c.advancing.Add(1)
			go c.advance(gen)
		}
		c.mu.Unlock()

		c.broadcast(func(s *Subscription) {
			s.sendPosition(PositionChange{Position: pos, Duration: dur})
		})
	}
}

// advance moves to the next track after the handle of generation gen
// finished, unless another operation replaced it in the meantime.
func (c *Coordinator) advance(gen uint64) {
	defer c.advancing.Done()

	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.mu.Lock()
	stale := c.closed || gen != c.generation
	c.mu.Unlock()
	if stale {
		return
	}
	c.stepLocked(context.Background(), (*playlist.Queue[Track]).After)
}

// Subscribe creates a new event subscription.
func (c *Coordinator) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.isClosed() {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close releases the live handle and closes all subscriptions.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.advancing.Wait()

	c.opMu.Lock()
	c.releaseLocked(context.Background())
	c.opMu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()
	return nil
}

func (c *Coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Coordinator) liveHandle() (player.Handle, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.handle == nil {
		return nil, ""
	}
	trackID := ""
	if c.current != nil {
		trackID = c.current.ID
	}
	return c.handle, trackID
}

// fail records a swallowed failure and publishes it.
func (c *Coordinator) fail(op, trackID string, err error) {
	ev := ErrorEvent{Op: op, TrackID: trackID, Err: err, At: time.Now()}

	c.mu.Lock()
	c.lastErr = &ev
	c.mu.Unlock()

	c.logger.WithFields(log.Fields{"op": op, "track": trackID}).WithError(err).Warn("playback operation failed")
	if c.report != nil {
		c.report(ev)
	}
	c.broadcast(func(s *Subscription) { s.sendError(ev) })
}

func (c *Coordinator) emitState(prev, cur State) {
	c.broadcast(func(s *Subscription) { s.sendState(StateChange{Previous: prev, Current: cur}) })
}

func (c *Coordinator) broadcast(send func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		send(sub)
	}
}

func copyTrack(t *Track) *Track {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func copyError(e *ErrorEvent) *ErrorEvent {
	if e == nil {
		return nil
	}
	cp := *e
	return &cp
}

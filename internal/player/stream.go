package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	log "github.com/sirupsen/logrus"
)

// ErrUnloaded is returned by operations on a handle after Unload.
var ErrUnloaded = errors.New("handle unloaded")

const (
	userAgent           = "wavecast/1.0"
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxBytes     = 256 << 20
	resampleQuality     = 4
)

// StreamEngine plays remote media through the system speaker.
// Media is fetched and buffered in full before decoding starts.
type StreamEngine struct {
	client       *http.Client
	pollInterval time.Duration
	maxBytes     int64
	logger       *log.Entry

	mu          sync.Mutex
	speakerRate beep.SampleRate
}

// Option configures a StreamEngine.
type Option func(*StreamEngine)

// WithHTTPClient sets the client used to fetch media.
func WithHTTPClient(c *http.Client) Option {
	return func(e *StreamEngine) { e.client = c }
}

// WithPollInterval sets how often handles push status updates.
func WithPollInterval(d time.Duration) Option {
	return func(e *StreamEngine) {
		if d > 0 {
			e.pollInterval = d
		}
	}
}

// WithMaxBytes bounds the size of a buffered media body. Zero disables the limit.
func WithMaxBytes(n int64) Option {
	return func(e *StreamEngine) { e.maxBytes = n }
}

// NewStreamEngine creates an engine. The speaker is initialised lazily on
// the first Load, at that track's sample rate.
func NewStreamEngine(opts ...Option) *StreamEngine {
	e := &StreamEngine{
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: defaultPollInterval,
		maxBytes:     defaultMaxBytes,
		logger:       log.WithFields(log.Fields{"module": "player"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches, decodes and starts (or arms, without autoplay) the media at url.
func (e *StreamEngine) Load(ctx context.Context, url string, opts LoadOptions) (Handle, error) {
	src, err := fetchMedia(ctx, e.client, url, e.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}

	streamer, format, err := decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}

	rate, err := e.ensureSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	h := &streamHandle{
		logger:     e.logger.WithField("url", url),
		src:        streamer,
		format:     format,
		duration:   format.SampleRate.D(streamer.Len()),
		onStatus:   opts.OnStatus,
		interval:   e.pollInterval,
		state:      Paused,
		finishedCh: make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	h.ctrl = &beep.Ctrl{Streamer: out, Paused: !opts.Autoplay}
	if opts.Autoplay {
		h.state = Playing
	}

	speaker.Play(beep.Seq(h.ctrl, beep.Callback(h.signalFinished)))
	go h.poll()

	h.logger.WithField("duration", h.duration).Debug("media loaded")
	return h, nil
}

func (e *StreamEngine) ensureSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.speakerRate != 0 {
		return e.speakerRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	e.speakerRate = rate
	return rate, nil
}

// streamHandle is one decoded media item playing through the speaker.
// Lock order is mu before the speaker lock; the end-of-stream callback runs
// with the speaker lock held and only signals a channel.
type streamHandle struct {
	logger   *log.Entry
	src      beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	duration time.Duration
	onStatus StatusFunc
	interval time.Duration

	mu       sync.Mutex
	state    State
	unloaded bool

	finishedCh chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

func (h *streamHandle) Pause(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return ErrUnloaded
	}
	speaker.Lock()
	h.ctrl.Paused = true
	speaker.Unlock()
	if h.state == Playing {
		h.state = Paused
	}
	return nil
}

func (h *streamHandle) Resume(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return ErrUnloaded
	}
	speaker.Lock()
	h.ctrl.Paused = false
	speaker.Unlock()
	h.state = Playing
	return nil
}

func (h *streamHandle) Stop(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return ErrUnloaded
	}
	speaker.Lock()
	h.ctrl.Paused = true
	err := h.src.Seek(0)
	speaker.Unlock()
	h.state = Stopped
	return err
}

func (h *streamHandle) SetPosition(_ context.Context, position time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return ErrUnloaded
	}
	n := h.format.SampleRate.N(position)
	n = min(max(n, 0), max(h.src.Len()-1, 0))

	speaker.Lock()
	err := h.src.Seek(n)
	speaker.Unlock()
	return err
}

// Unload detaches the stream from the speaker and releases the decoder.
// It does not wait for the status goroutine, which may be blocked in the
// caller's callback.
func (h *streamHandle) Unload(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unloaded {
		return nil
	}
	h.unloaded = true
	h.state = Stopped
	h.closeOnce.Do(func() { close(h.done) })

	speaker.Lock()
	h.ctrl.Streamer = nil
	speaker.Unlock()

	return h.src.Close()
}

// signalFinished runs on the speaker goroutine when the stream is drained.
func (h *streamHandle) signalFinished() {
	select {
	case h.finishedCh <- struct{}{}:
	default:
	}
}

func (h *streamHandle) poll() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.emit(h.status())
	for {
		select {
		case <-h.done:
			return
		case <-h.finishedCh:
			if h.isUnloaded() {
				return
			}
			h.mu.Lock()
			h.state = Stopped
			h.mu.Unlock()
			h.logger.Debug("media finished")
			h.emit(Status{Position: h.duration, Duration: h.duration, DidJustFinish: true})
			return
		case <-ticker.C:
			if h.isUnloaded() {
				return
			}
			h.emit(h.status())
		}
	}
}

func (h *streamHandle) isUnloaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unloaded
}

func (h *streamHandle) status() Status {
	h.mu.Lock()
	playing := h.state == Playing
	unloaded := h.unloaded
	h.mu.Unlock()
	if unloaded {
		return Status{Duration: h.duration}
	}

	speaker.Lock()
	pos := h.format.SampleRate.D(h.src.Position())
	speaker.Unlock()

	return Status{Position: pos, Duration: h.duration, Playing: playing}
}

func (h *streamHandle) emit(s Status) {
	if h.onStatus != nil {
		h.onStatus(s)
	}
}

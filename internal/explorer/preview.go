package explorer

import (
	"context"
	"sync"
	"time"
)

// DefaultPreviewDelay is the hover debounce before a preview is fetched.
const DefaultPreviewDelay = 100 * time.Millisecond

// PreviewResult is one finished preview fetch.
type PreviewResult struct {
	Name    string
	Content string
	Err     error
}

type previewAPI interface {
	Preview(ctx context.Context, name string) (string, error)
}

// Previewer debounces preview requests. Only the most recent request
// survives: moving to another entry, or cancelling, drops any pending
// timer and abandons any in-flight fetch.
type Previewer struct {
	mu      sync.Mutex
	api     previewAPI
	delay   time.Duration
	results chan PreviewResult

	timer  *time.Timer
	cancel context.CancelFunc
	gen    int
}

func NewPreviewer(api previewAPI) *Previewer {
	return &Previewer{
		api:     api,
		delay:   DefaultPreviewDelay,
		results: make(chan PreviewResult, 1),
	}
}

// Results delivers finished previews. Stale results are never sent.
func (p *Previewer) Results() <-chan PreviewResult { return p.results }

// Request schedules a preview of name after the debounce delay,
// replacing any pending or in-flight request.
func (p *Previewer) Request(ctx context.Context, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dropLocked()
	p.gen++
	gen := p.gen

	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.timer = time.AfterFunc(p.delay, func() {
		content, err := p.api.Preview(fetchCtx, name)

		p.mu.Lock()
		stale := gen != p.gen
		p.mu.Unlock()
		if stale || fetchCtx.Err() != nil {
			return
		}
		select {
		case p.results <- PreviewResult{Name: name, Content: content, Err: err}:
		default:
		}
	})
}

// Cancel drops the pending or in-flight preview, if any.
func (p *Previewer) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dropLocked()
	p.gen++
}

func (p *Previewer) dropLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

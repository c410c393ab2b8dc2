// Package dialog brokers modal prompts between view-models and a frontend.
// Only one dialog may be open at a time; a second request while one is
// pending fails with ErrBusy instead of queueing.
package dialog

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned when a dialog is requested while another is open.
var ErrBusy = errors.New("dialog: another dialog is already open")

// Kind distinguishes the dialog shapes a frontend must render.
type Kind string

const (
	KindConfirm Kind = "confirm"
	KindPrompt  Kind = "prompt"
	KindChoice  Kind = "choice"
)

// Choice is the answer to a three-way choice dialog.
type Choice string

const (
	ChoiceSave    Choice = "save"
	ChoiceDiscard Choice = "discard"
	ChoiceCancel  Choice = "cancel"
)

type response struct {
	ok     bool
	text   string
	choice Choice
}

// Request describes one open dialog. Exactly one of Confirm, Submit or
// Cancel must be called on it.
type Request struct {
	Kind        Kind
	Title       string
	Message     string
	Placeholder string
	Secret      bool
	Danger      bool

	once sync.Once
	resp chan response
}

// Confirm resolves a confirm dialog affirmatively.
func (r *Request) Confirm() { r.resolve(response{ok: true}) }

// Submit resolves a prompt dialog with the entered text.
func (r *Request) Submit(text string) { r.resolve(response{ok: true, text: text}) }

// Choose resolves a choice dialog with one of its options.
func (r *Request) Choose(c Choice) { r.resolve(response{ok: c != ChoiceCancel, choice: c}) }

// Cancel dismisses the dialog.
func (r *Request) Cancel() { r.resolve(response{choice: ChoiceCancel}) }

func (r *Request) resolve(res response) {
	r.once.Do(func() { r.resp <- res })
}

// Broker owns the single dialog slot.
type Broker struct {
	mu       sync.Mutex
	pending  bool
	requests chan *Request
}

// NewBroker creates a broker. Frontends drain Requests and resolve each
// request they receive.
func NewBroker() *Broker {
	return &Broker{requests: make(chan *Request, 1)}
}

// Requests delivers dialogs for the frontend to render.
func (b *Broker) Requests() <-chan *Request { return b.requests }

// Confirm opens a yes/no dialog and blocks until answered or the context
// ends. A context end counts as a dismissal.
func (b *Broker) Confirm(ctx context.Context, title, message string, danger bool) (bool, error) {
	req := &Request{
		Kind:    KindConfirm,
		Title:   title,
		Message: message,
		Danger:  danger,
		resp:    make(chan response, 1),
	}
	res, err := b.run(ctx, req)
	return res.ok, err
}

// Prompt opens a text-entry dialog. ok is false when the user dismissed
// it; a dismissal is not an error.
func (b *Broker) Prompt(ctx context.Context, title, message, placeholder string, secret bool) (text string, ok bool, err error) {
	req := &Request{
		Kind:        KindPrompt,
		Title:       title,
		Message:     message,
		Placeholder: placeholder,
		Secret:      secret,
		resp:        make(chan response, 1),
	}
	res, err := b.run(ctx, req)
	return res.text, res.ok, err
}

// SaveDiscardCancel opens a save/discard/cancel dialog for unsaved
// work. Dismissal and context end both come back as ChoiceCancel.
func (b *Broker) SaveDiscardCancel(ctx context.Context, title, message string) (Choice, error) {
	req := &Request{
		Kind:    KindChoice,
		Title:   title,
		Message: message,
		Danger:  true,
		resp:    make(chan response, 1),
	}
	res, err := b.run(ctx, req)
	if err != nil {
		return ChoiceCancel, err
	}
	if res.choice == "" {
		return ChoiceCancel, nil
	}
	return res.choice, nil
}

func (b *Broker) run(ctx context.Context, req *Request) (response, error) {
	b.mu.Lock()
	if b.pending {
		b.mu.Unlock()
		return response{}, ErrBusy
	}
	b.pending = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.pending = false
		b.mu.Unlock()
	}()

	select {
	case b.requests <- req:
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case res := <-req.resp:
		return res, nil
	case <-ctx.Done():
		req.resolve(response{})
		return response{}, ctx.Err()
	}
}

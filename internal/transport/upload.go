package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/snailsynk/snailsynk-go/internal/logging"
)

// ErrUploadAborted is returned by UploadHandle.Wait after Abort.
var ErrUploadAborted = errors.New("upload aborted")

// UploadFile is one file of a multi-file upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// UploadHandle tracks an in-flight upload. Abort cancels it; the caller's
// UI must return to its pre-upload state when Wait reports ErrUploadAborted.
type UploadHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Abort cancels the in-flight upload.
func (h *UploadHandle) Abort() {
	h.cancel()
}

// Wait blocks until the upload finishes and returns its outcome.
func (h *UploadHandle) Wait() error {
	<-h.done
	return h.err
}

// Upload streams files to the server as multipart form data. progress, when
// non-nil, is called as bytes are consumed from the readers.
func (c *Client) Upload(ctx context.Context, subpath string, files []UploadFile, progress func(sent, total int64)) *UploadHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &UploadHandle{cancel: cancel, done: make(chan struct{})}

	var total int64
	for _, f := range files {
		total += f.Size
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	var sent atomic.Int64

	// Abort must not wait on a blocked file reader: closing the read end
	// fails the request body immediately, and the ctx-aware reader below
	// lets the form writer bail out of an in-flight Read.
	go func() {
		<-ctx.Done()
		pr.CloseWithError(context.Canceled)
	}()

	go func() {
		err := func() error {
			if err := form.WriteField("subpath", subpath); err != nil {
				return err
			}
			for _, f := range files {
				if err := ctx.Err(); err != nil {
					return err
				}
				part, err := form.CreateFormFile("file", f.Name)
				if err != nil {
					return err
				}
				counted := &countingReader{r: &ctxReader{ctx: ctx, r: f.Reader}, onRead: func(n int) {
					if progress != nil {
						progress(sent.Add(int64(n)), total)
					}
				}}
				if _, err := io.Copy(part, counted); err != nil {
					return fmt.Errorf("read %s: %w", f.Name, err)
				}
			}
			return form.Close()
		}()
		pw.CloseWithError(err)
	}()

	go func() {
		defer close(h.done)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
		if err != nil {
			h.err = err
			return
		}
		req.Header.Set("Content-Type", form.FormDataContentType())
		c.applyAuth(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				h.err = ErrUploadAborted
				return
			}
			c.setOnline(false)
			h.err = err
			return
		}
		defer resp.Body.Close()
		c.setOnline(true)

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			h.err = apiErrorFrom(resp)
			return
		}
		logging.Debug("upload complete",
			zap.Int("files", len(files)), zap.String("path", subpath))
	}()

	return h
}

type countingReader struct {
	r      io.Reader
	onRead func(n int)
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 && cr.onRead != nil {
		cr.onRead(n)
	}
	return n, err
}

// ctxReader makes Read return once ctx ends even when the underlying
// reader is blocked. The abandoned read finishes in the background; its
// bytes are dropped.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

type readResult struct {
	n   int
	err error
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	buf := make([]byte, len(p))
	ch := make(chan readResult, 1)
	go func() {
		n, err := cr.r.Read(buf)
		ch <- readResult{n: n, err: err}
	}()
	select {
	case res := <-ch:
		copy(p, buf[:res.n])
		return res.n, res.err
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	}
}

package grading

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/louisbranch/jgram/internal/core/assessment"
	apperrors "github.com/louisbranch/jgram/internal/platform/errors"
)

type fakeDocument struct {
	name        string
	comments    []string
	commentsErr error
	tokenErr    error
	writeErr    error

	// inFlight, when set, tracks concurrent Comments calls.
	inFlight *concurrency

	mu           sync.Mutex
	token        string
	hasTable     bool
	written      *assessment.Result
	writtenToken string
}

func (d *fakeDocument) Name() string { return d.name }

func (d *fakeDocument) Comments(ctx context.Context) ([]string, error) {
	if d.inFlight != nil {
		d.inFlight.enter()
		defer d.inFlight.leave()
	}
	if d.commentsErr != nil {
		return nil, d.commentsErr
	}
	return d.comments, nil
}

func (d *fakeDocument) ResultToken(ctx context.Context) (string, bool, error) {
	if d.tokenErr != nil {
		return "", false, d.tokenErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token, d.hasTable, nil
}

func (d *fakeDocument) WriteResultTable(ctx context.Context, result assessment.Result, token string) error {
	if d.writeErr != nil {
		return d.writeErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hasTable {
		return apperrors.New(apperrors.CodeResultExists, "result table exists")
	}
	d.written = &result
	d.writtenToken = token
	d.token = token
	d.hasTable = true
	return nil
}

type concurrency struct {
	current atomic.Int32
	max     atomic.Int32
}

func (c *concurrency) enter() {
	n := c.current.Add(1)
	for {
		m := c.max.Load()
		if n <= m || c.max.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
}

func (c *concurrency) leave() {
	c.current.Add(-1)
}

func openerFor(docs map[string]*fakeDocument) Opener {
	return func(path string) (Document, error) {
		doc, ok := docs[path]
		if !ok {
			return nil, apperrors.New(apperrors.CodeNotFound, "document "+path+" not found")
		}
		return doc, nil
	}
}

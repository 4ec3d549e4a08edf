// Package convert runs the simulated conversion sequence. No bytes are ever
// transformed; the output of a conversion is bit-identical to the input and
// only the name changes. The progress steps exist for user feedback.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/filemorph/morph/pkg/bucket"
	"github.com/filemorph/morph/pkg/morphd/session"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

var ErrNothingToConvert = errors.New("conversion requires a loaded file and a selected format")

const (
	DefaultStepDelay     = 100 * time.Millisecond
	DefaultUploadTimeout = 30 * time.Second
	progressStep         = 5
)

// Completed is the outcome of a successful conversion run. DownloadURL is
// empty when no bucket is configured or the upload failed; that degraded
// path is still a success.
type Completed struct {
	DownloadURL string
	StorageKey  string
}

type Driver struct {
	stepDelay     time.Duration
	uploadTimeout time.Duration
	obj           bucket.ObjClient
	progress      func(pct int)
}

type Option func(*Driver)

// WithStepDelay sets the delay between progress steps.
func WithStepDelay(d time.Duration) Option {
	return func(drv *Driver) { drv.stepDelay = d }
}

// WithUploadTimeout bounds the single storage upload attempt.
func WithUploadTimeout(d time.Duration) Option {
	return func(drv *Driver) { drv.uploadTimeout = d }
}

// WithObjClient configures the storage collaborator. A nil client means
// conversions complete without a download URL.
func WithObjClient(obj bucket.ObjClient) Option {
	return func(drv *Driver) { drv.obj = obj }
}

// WithProgress sets the sink each progress percentage is published to.
func WithProgress(fn func(pct int)) Option {
	return func(drv *Driver) { drv.progress = fn }
}

func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		stepDelay:     DefaultStepDelay,
		uploadTimeout: DefaultUploadTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run executes the fixed progress sequence from 0 to 100 and then attempts
// the single upload. Cancelling ctx aborts between steps, so a reset during
// Converting halts in-flight work.
func (d *Driver) Run(ctx context.Context, work session.Work) (Completed, error) {
	if work.File.Name == "" || work.Format == "" {
		return Completed{}, ErrNothingToConvert
	}

	timer := time.NewTimer(d.stepDelay)
	defer timer.Stop()

	for pct := 0; pct <= 100; pct += progressStep {
		select {
		case <-ctx.Done():
			return Completed{}, ctx.Err()
		case <-timer.C:
		}

		if d.progress != nil {
			d.progress(pct)
		}

		timer.Reset(d.stepDelay)
	}

	return d.store(ctx, work), nil
}

// store uploads the original bytes under the generated key. One attempt, no
// retry; any failure leaves the conversion successful without a URL.
func (d *Driver) store(ctx context.Context, work session.Work) Completed {
	if d.obj == nil {
		return Completed{}
	}

	key := StorageKey(work.File.Name, work.Format, time.Now())

	uploadCtx, cancel := context.WithTimeout(ctx, d.uploadTimeout)
	defer cancel()

	result, err := d.obj.Put(uploadCtx, key, bytes.NewReader(work.File.Bytes), work.File.MimeType)
	if err != nil {
		log.Errorf("Upload of %s failed, conversion proceeds without a download URL: %s", key, err)
		return Completed{StorageKey: key}
	}

	return Completed{DownloadURL: result.RetrievalURL, StorageKey: key}
}

// StorageKey generates the bucket key for a converted artifact:
// conversions/{base}_converted_{timestampMillis}.{format}, base being the
// filename up to its first dot, sanitized for use in a URL path.
func StorageKey(filename, format string, now time.Time) string {
	base := filename
	if idx := strings.Index(filename, "."); idx >= 0 {
		base = filename[:idx]
	}

	return fmt.Sprintf("conversions/%s_converted_%d.%s", slug.Make(base), now.UnixMilli(), format)
}

package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Exporter runs writers under row limits.
type Exporter struct {
	Limits Limits
	Logger zerolog.Logger
}

// NewExporter returns an exporter with DefaultLimits.
func NewExporter(log zerolog.Logger) *Exporter {
	return &Exporter{Limits: DefaultLimits, Logger: log}
}

// Job is a running export. Callers await it with Wait or abandon it; there is
// no cancellation.
type Job struct {
	ID     string
	Format Format
	Rows   int

	done chan struct{}
	data []byte
	err  error
}

// Done is closed when the document is ready.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the document is ready or ctx ends. An ended ctx only
// stops the wait; the job keeps running.
func (j *Job) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-j.done:
		return j.data, j.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start checks capacity and then encodes a private copy of t in the
// background. Capacity errors are returned before any work begins.
func (e *Exporter) Start(ctx context.Context, w Writer, t *Table) (*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.Limits.CheckCapacity(w.Format(), len(t.Rows)); err != nil {
		e.Logger.Warn().Err(err).Str("format", string(w.Format())).Msg("export rejected")
		return nil, err
	}
	own, err := t.Clone()
	if err != nil {
		return nil, err
	}
	job := &Job{ID: uuid.NewString(), Format: w.Format(), Rows: len(own.Rows), done: make(chan struct{})}
	log := e.Logger.With().Str("job", job.ID).Str("format", string(job.Format)).Logger()
	log.Debug().Int("rows", job.Rows).Msg("export started")

	go func() {
		defer close(job.done)
		defer func() {
			if r := recover(); r != nil {
				job.data, job.err = nil, fmt.Errorf("export %s panicked: %v", job.ID, r)
				log.Error().Err(job.err).Msg("export failed")
			}
		}()
		var buf bytes.Buffer
		if err := w.Write(&buf, own); err != nil {
			job.err = fmt.Errorf("export %s: %w", job.Format, err)
			log.Error().Err(err).Msg("export failed")
			return
		}
		job.data = buf.Bytes()
		log.Info().Int("rows", job.Rows).Int("bytes", len(job.data)).Msg("export finished")
	}()
	return job, nil
}

// Export runs Start and waits for the result.
func (e *Exporter) Export(ctx context.Context, w Writer, t *Table) ([]byte, error) {
	job, err := e.Start(ctx, w, t)
	if err != nil {
		return nil, err
	}
	return job.Wait(ctx)
}

// Dispatch produces the document and hands it to m. When sending fails the
// document is still returned, together with a *DispatchError carrying it.
func (e *Exporter) Dispatch(ctx context.Context, w Writer, m Mailer, t *Table, req MailRequest) ([]byte, error) {
	doc, err := e.Export(ctx, w, t)
	if err != nil {
		return nil, err
	}
	if req.FileName == "" {
		req.FileName = FileName(req.ReportName, w.Format())
	}
	req.Content = base64.StdEncoding.EncodeToString(doc)
	if err := m.Send(ctx, req); err != nil {
		e.Logger.Error().Err(err).Str("recipient", req.Recipient).Str("file", req.FileName).Msg("mail dispatch failed")
		return doc, &DispatchError{Recipient: req.Recipient, Document: doc, Err: err}
	}
	e.Logger.Info().Str("recipient", req.Recipient).Str("file", req.FileName).Msg("report mailed")
	return doc, nil
}

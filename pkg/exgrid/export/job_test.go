package export

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCheckCapacity(t *testing.T) {
	t.Parallel()
	err := DefaultLimits.CheckCapacity(FormatPDF, 8001)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacity)

	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 8001, ce.Rows)
	assert.Equal(t, 8000, ce.Limit)
	assert.Contains(t, err.Error(), "8001")
	assert.Contains(t, err.Error(), "8000")

	assert.NoError(t, DefaultLimits.CheckCapacity(FormatPDF, 8000))
	assert.NoError(t, DefaultLimits.CheckCapacity(FormatCSV, 1_000_000))
	assert.ErrorIs(t, DefaultLimits.CheckCapacity(FormatXLSX, 100001), ErrCapacity)
}

type countingWriter struct {
	calls int
}

func (w *countingWriter) Format() Format { return FormatPDF }

func (w *countingWriter) Write(out io.Writer, _ *Table) error {
	w.calls++
	_, err := out.Write([]byte("doc"))
	return err
}

func TestStartRejectsBeforeWork(t *testing.T) {
	t.Parallel()
	w := &countingWriter{}
	e := NewExporter(zerolog.Nop())

	job, err := e.Start(context.Background(), w, sampleTable(8001))
	assert.Nil(t, job)
	assert.ErrorIs(t, err, ErrCapacity)
	assert.Zero(t, w.calls)
}

func TestStartRunsInBackground(t *testing.T) {
	t.Parallel()
	e := NewExporter(zerolog.Nop())
	tbl := sampleTable(3)

	job, err := e.Start(context.Background(), &CSVWriter{}, tbl)
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, FormatCSV, job.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := job.Wait(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Name,Posted On,Amount\n"))
}

type failingWriter struct{}

func (failingWriter) Format() Format { return FormatCSV }

func (failingWriter) Write(io.Writer, *Table) error { return errors.New("disk full") }

func TestJobReportsWriterError(t *testing.T) {
	t.Parallel()
	job, err := NewExporter(zerolog.Nop()).Start(context.Background(), failingWriter{}, sampleTable(1))
	require.NoError(t, err)
	<-job.Done()
	_, err = job.Wait(context.Background())
	assert.ErrorContains(t, err, "disk full")
}

type recordingMailer struct {
	got MailRequest
	err error
}

func (m *recordingMailer) Send(_ context.Context, req MailRequest) error {
	m.got = req
	return m.err
}

func TestDispatch(t *testing.T) {
	t.Parallel()
	e := NewExporter(zerolog.Nop())
	m := &recordingMailer{}

	doc, err := e.Dispatch(context.Background(), &CSVWriter{}, m, sampleTable(2), MailRequest{Recipient: "ops@example.com", ReportName: "Daily Ledger"})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", m.got.Recipient)
	assert.Equal(t, "Daily_Ledger.csv", m.got.FileName)
	decoded, err := base64.StdEncoding.DecodeString(m.got.Content)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestDispatchFailureKeepsDocument(t *testing.T) {
	t.Parallel()
	e := NewExporter(zerolog.Nop())
	m := &recordingMailer{err: errors.New("smtp down")}

	doc, err := e.Dispatch(context.Background(), &CSVWriter{}, m, sampleTable(1), MailRequest{Recipient: "a@b.c"})
	require.Error(t, err)
	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.NotEmpty(t, doc)
	assert.Equal(t, doc, de.Document)
	assert.ErrorContains(t, err, "smtp down")
}

func TestHTTPMailer(t *testing.T) {
	t.Parallel()
	var got MailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, 0)
	m.Header = http.Header{"Authorization": {"Bearer t"}}
	require.NoError(t, m.Send(context.Background(), MailRequest{Recipient: "x@y.z", FileName: "r.pdf", Content: "ZG9j"}))
	assert.Equal(t, "r.pdf", got.FileName)
	assert.Equal(t, "ZG9j", got.Content)
}

func TestHTTPMailerErrors(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, 0)
	err := m.Send(context.Background(), MailRequest{})
	assert.ErrorContains(t, err, "429")
	assert.ErrorContains(t, err, "quota exceeded")

	m.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	_ = m.Send(context.Background(), MailRequest{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, m.Send(ctx, MailRequest{}), "second send waits on the limiter")
}

package publish

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightdelays/internal/report"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	sent     []message
	flushes  int
	failWith error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, message{subject, data})
	return nil
}

func (f *fakeConn) Flush() error {
	f.flushes++
	return nil
}

func TestPublishSummary(t *testing.T) {
	conn := &fakeConn{}
	p := New(conn, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, DefaultSubject, p.Subject())

	s := report.NewBatch(nil, nil).Summary(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, p.PublishSummary(s))

	require.Len(t, conn.sent, 1)
	assert.Equal(t, DefaultSubject, conn.sent[0].subject)
	assert.Equal(t, 1, conn.flushes)

	var env Envelope
	require.NoError(t, json.Unmarshal(conn.sent[0].data, &env))
	assert.Equal(t, "flightdelays", env.Source)
	require.NotNil(t, env.Summary)
	assert.Len(t, env.Summary.Hours, 24)
	assert.Equal(t, s.GeneratedAt, env.Summary.GeneratedAt)
}

func TestPublishError(t *testing.T) {
	conn := &fakeConn{failWith: errors.New("nats: connection closed")}
	p := New(conn, "delays.custom", nil)

	err := p.PublishSummary(report.Summary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delays.custom")
	assert.Zero(t, conn.flushes)
}

func TestCloseWithoutConnect(t *testing.T) {
	p := New(&fakeConn{}, "x", nil)
	assert.NotPanics(t, p.Close)
}

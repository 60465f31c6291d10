package redaction

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_Redacts(t *testing.T) {
	r := regexOnly(t, Config{Patterns: []string{`secret`}})
	buf := &bytes.Buffer{}
	w := NewWriter(buf, r)

	data := []byte("level=WARN msg=\"rule failed\" value=secret\n")
	n, err := w.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.NotContains(t, buf.String(), "secret")
	assert.Contains(t, buf.String(), "[REDACTED]")
}

func TestWriter_PassThrough(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, nil)

	_, err := w.Write([]byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "secret", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_Error(t *testing.T) {
	w := NewWriter(failingWriter{}, nil)
	n, err := w.Write([]byte("x"))
	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestWriter_Concurrent(t *testing.T) {
	r := regexOnly(t, Config{Patterns: []string{`secret`}})
	buf := &bytes.Buffer{}
	w := NewWriter(buf, r)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = w.Write([]byte("secret line\n"))
			}
		}()
	}
	wg.Wait()

	assert.NotContains(t, buf.String(), "secret")
	assert.Equal(t, 500, bytes.Count(buf.Bytes(), []byte("[REDACTED] line\n")))
}

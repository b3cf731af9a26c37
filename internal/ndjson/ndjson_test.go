package ndjson

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, string(line))
	}
}

func TestReader_BasicLines(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n{\"b\":2}\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, readAll(t, r))
}

func TestReader_CRLF(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\r\n{\"b\":2}\r\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, readAll(t, r))
}

func TestReader_SkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n\n\r\n{\"b\":2}\n\n"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, readAll(t, r))
}

func TestReader_FinalUnterminatedLine(t *testing.T) {
	r := NewReader(strings.NewReader("{\"a\":1}\n{\"b\":2}"))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, readAll(t, r))
}

func TestReader_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.ReadLine()
	assert.Equal(t, io.EOF, err)
}

func TestReader_LineSplitAcrossReads(t *testing.T) {
	// io.Pipe delivers each write as a separate read, so one line arrives
	// in several chunks.
	pr, pw := io.Pipe()
	go func() {
		io.WriteString(pw, `{"a":`)
		io.WriteString(pw, `1}`)
		io.WriteString(pw, "\n")
		pw.Close()
	}()

	r := NewReader(pr)
	assert.Equal(t, []string{`{"a":1}`}, readAll(t, r))
}

func TestWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteRaw([]byte(`{"a":1}`)))
	require.NoError(t, w.Write(map[string]int{"b": 2}))

	r := NewReader(&buf)
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, readAll(t, r))
}

// Package ndjson provides newline-delimited JSON framing over byte streams.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

// Reader reads newline-delimited JSON lines from an underlying stream.
// It tolerates both \n and \r\n line endings, skips blank lines, and emits a
// final unterminated line at stream end. A Reader is bound to one stream and
// is not reusable across process invocations.
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadLine returns the next non-empty line with the trailing newline (and any
// carriage return) stripped. It returns io.EOF when the stream is exhausted.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		line, err := r.br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimRight(line, "\r\n")
			if len(line) > 0 {
				return line, nil
			}
			// Blank line: keep reading unless the stream ended.
			if err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}
	}
}

// Writer writes newline-delimited JSON lines to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRaw writes one pre-encoded line followed by a newline.
func (w *Writer) WriteRaw(line []byte) error {
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{'\n'})
	return err
}

// Write marshals v as JSON and writes it as one line.
func (w *Writer) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteRaw(data)
}

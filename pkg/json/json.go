// Package json provides high-performance JSON serialization with pooled
// encode buffers. It wraps goccy/go-json and stages encoder output in
// buffers leased from a sharded pool, so concurrent report writers reuse
// memory instead of allocating per encode.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/mempool/pkg/pool"
)

// buffers holds staging buffers for Encode. The factory never fails, so a
// construction error here can only mean bad pool arguments.
var buffers = func() *pool.Pool[*bytes.Buffer] {
	p, err := pool.New(4, 64, newBuffer)
	if err != nil {
		panic(err)
	}
	return p
}()

func newBuffer() (*bytes.Buffer, error) {
	return bytes.NewBuffer(make([]byte, 0, 4096)), nil
}

// Marshal serializes v to JSON.
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// MarshalIndent serializes v to indented JSON.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// Unmarshal deserializes JSON data into v.
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// Encode serializes v and writes it to w, staging the output in a pooled
// buffer so the encoder's scratch space is reused across calls.
func Encode(w io.Writer, v interface{}) error {
	h, err := buffers.Pull(newBuffer)
	if err != nil {
		return err
	}
	defer h.Release()

	buf := h.Value()
	buf.Reset()

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

package strings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "", BytesToString(nil))
	assert.Equal(t, "hello", BytesToString([]byte("hello")))
}

func TestStringToBytes(t *testing.T) {
	assert.Nil(t, StringToBytes(""))
	assert.Equal(t, []byte("hello"), StringToBytes("hello"))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(16)

	b.WriteString("foo")
	b.WriteByte('-')
	b.WriteBytes([]byte("bar"))

	assert.Equal(t, "foo-bar", b.String())
	assert.Equal(t, 7, b.Len())

	n, err := fmt.Fprintf(b, "-%d", 42)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "foo-bar-42", b.String())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())
}

func TestClone(t *testing.T) {
	src := []byte("mutable")
	s := BytesToString(src)
	cloned := Clone(s)

	src[0] = 'X'
	assert.Equal(t, "Xutable", s, "zero-copy view observes the mutation")
	assert.Equal(t, "mutable", cloned, "clone owns its memory")
}

func TestConcat(t *testing.T) {
	assert.Equal(t, "", Concat())
	assert.Equal(t, "solo", Concat("solo"))
	assert.Equal(t, "a-b-c", Concat("a", "-", "b", "-", "c"))
}

func TestSprintf(t *testing.T) {
	assert.Equal(t, "plain", Sprintf("plain"))

	got := Sprintf("shard %d of %d: %s", 3, 8, "full")
	want := fmt.Sprintf("shard %d of %d: %s", 3, 8, "full")
	assert.Equal(t, want, got)
}

func TestPooledBuilderReuse(t *testing.T) {
	b := GetBuilder(Small)
	b.WriteString("scratch")
	PutBuilder(b, Small)

	b2 := GetBuilder(Small)
	assert.Equal(t, 0, b2.Len(), "pooled builder must come back reset")
	PutBuilder(b2, Small)
}

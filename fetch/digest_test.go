package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestDeterministic(t *testing.T) {
	b := []byte("some image bytes")

	d1 := Digest(b)
	d2 := Digest(b)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64) // 256 bits as hex
}

func TestDigestDistinguishesPayloads(t *testing.T) {
	assert.NotEqual(t, Digest([]byte("a")), Digest([]byte("b")))
	assert.NotEqual(t, Digest(nil), Digest([]byte{0}))
}

package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeatedDigits(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + i%10))
	}
	return b.String()
}

func TestSplitEmptyText(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(Split("", 1000, 200))
	assert.Empty(Split("   \n\t  ", 1000, 200))
}

func TestSplitSingleWindow(t *testing.T) {
	assert := assert.New(t)

	text := repeatedDigits(1000)

	chunks := Split(text, 1000, 200)
	assert.Len(chunks, 1)
	assert.Equal(text, chunks[0])
}

func TestSplitOverlappingWindows(t *testing.T) {
	assert := assert.New(t)

	text := repeatedDigits(2200)

	chunks := Split(text, 1000, 200)
	if !assert.Len(chunks, 3) {
		return
	}

	assert.Equal(text[0:1000], chunks[0])
	assert.Equal(text[800:1800], chunks[1])
	assert.Equal(text[1600:2200], chunks[2])
}

func TestSplitShortTail(t *testing.T) {
	assert := assert.New(t)

	text := repeatedDigits(1001)

	chunks := Split(text, 1000, 200)
	if !assert.Len(chunks, 2) {
		return
	}

	assert.Equal(text[0:1000], chunks[0])
	assert.Equal(text[800:1001], chunks[1])
}

func TestSplitReconstructsInput(t *testing.T) {
	assert := assert.New(t)

	const (
		size    = 100
		overlap = 30
	)

	for _, n := range []int{1, 99, 100, 101, 250, 1000, 2047} {
		text := repeatedDigits(n)

		chunks := Split(text, size, overlap)
		if !assert.NotEmpty(chunks) {
			continue
		}

		rebuilt := chunks[0]
		for _, chunk := range chunks[1:] {
			rebuilt += chunk[overlap:]
		}

		assert.Equal(text, rebuilt, "input of %d characters", n)
	}
}

func TestSplitTrimsWhitespace(t *testing.T) {
	assert := assert.New(t)

	text := "  hello" + strings.Repeat(" ", 993) + "world  "

	chunks := Split(text, 1000, 200)
	if !assert.Len(chunks, 2) {
		return
	}

	assert.Equal("hello", chunks[0])
	assert.Equal("world", chunks[1])
}

func TestSplitMultibyteRunes(t *testing.T) {
	assert := assert.New(t)

	text := strings.Repeat("界", 1500)

	chunks := Split(text, 1000, 200)
	if !assert.Len(chunks, 2) {
		return
	}

	assert.Len([]rune(chunks[0]), 1000)
	assert.Len([]rune(chunks[1]), 700)
}

package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := "a\tb\r\nc   d\n\ne"
	assert.Equal(t, "a b c d e", Sanitize(in))
	assert.Equal(t, "", Sanitize("  \t \n "))
}

func TestChunkByWordsOverlap(t *testing.T) {
	words := []string{"w0", "w1", "w2", "w3", "w4", "w5", "w6", "w7", "w8", "w9"}
	text := strings.Join(words, " ")

	chunks := ChunkByWords(text, 4, 1)
	require.Len(t, chunks, 3)
	assert.Equal(t, "w0 w1 w2 w3", chunks[0])
	assert.Equal(t, "w3 w4 w5 w6", chunks[1])
	assert.Equal(t, "w6 w7 w8 w9", chunks[2])

	// last word of each window starts the next one
	for i := 0; i < len(chunks)-1; i++ {
		tail := strings.Fields(chunks[i])
		head := strings.Fields(chunks[i+1])
		assert.Equal(t, tail[len(tail)-1], head[0])
	}
}

func TestChunkByWordsShortText(t *testing.T) {
	chunks := ChunkByWords("just three words", 100, 10)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just three words", chunks[0])
}

func TestChunkByWordsEmpty(t *testing.T) {
	assert.Nil(t, ChunkByWords("", 100, 10))
}

func TestChunkByWordsBadParams(t *testing.T) {
	// size <= 0 falls back to the default window, overlap < 0 to none
	chunks := ChunkByWords("a b c", 0, -5)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a b c", chunks[0])

	// overlap >= size must still make progress
	chunks = ChunkByWords("a b c d", 2, 5)
	assert.NotEmpty(t, chunks)
}

func TestExtractPagesMissingFile(t *testing.T) {
	_, err := ExtractPages("does-not-exist.pdf")
	require.Error(t, err)
}

// buildOnePagePDF assembles a structurally valid single-page PDF whose
// content stream declares the given filter, computing xref offsets on
// the fly.
func buildOnePagePDF(filter string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 5)
	obj := func(i int, body string) {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i, body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	obj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>")
	stream := "BT (hi) Tj ET"
	obj(4, fmt.Sprintf("<< /Length %d /Filter /%s >>\nstream\n%s\nendstream", len(stream), filter, stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractPagesUndecodableStream(t *testing.T) {
	// rsc.io/pdf panics on stream filters it cannot decode; a hostile
	// upload must come back as an error, not take the goroutine down
	path := filepath.Join(t.TempDir(), "hostile.pdf")
	require.NoError(t, os.WriteFile(path, buildOnePagePDF("JBIG2Decode"), 0o600))

	var pages []string
	var err error
	require.NotPanics(t, func() { pages, err = ExtractPages(path) })
	require.Error(t, err)
	assert.Nil(t, pages)
}

func TestExtractPagesTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\nnot really a pdf"), 0o600))

	var err error
	require.NotPanics(t, func() { _, err = ExtractPages(path) })
	require.Error(t, err)
}

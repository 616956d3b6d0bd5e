package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimir-ai/pdfchat/internal/config"
	"github.com/mimir-ai/pdfchat/internal/store"
	"github.com/mimir-ai/pdfchat/internal/user"
)

func stubExtractPages(t *testing.T, pages []string, err error) {
	t.Helper()
	orig := extractPages
	extractPages = func(string) ([]string, error) { return pages, err }
	t.Cleanup(func() { extractPages = orig })
}

func newIngestEnv(t *testing.T, reg store.Registry, emb Embedder) (*Ingestor, string) {
	t.Helper()
	users := user.NewStore()
	_, err := users.Append("Acme", "a@x.com", "hash")
	require.NoError(t, err)

	tmpDir := t.TempDir()
	cfg := &config.Config{ChunkSize: 5, ChunkOverlap: 1, TmpDir: tmpDir}
	return NewIngestor(users, reg, emb, cfg, testLogger()), tmpDir
}

func TestIngestUnknownUser(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{1}}
	ing, tmpDir := newIngestEnv(t, store.NewMemoryRegistry(), emb)

	_, err := ing.Ingest(context.Background(), 99, "doc.pdf", "application/pdf", []byte("x"))
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, emb.calls)
	assertDirEmpty(t, tmpDir)
}

func TestIngestWrongContentType(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{1}}
	ing, tmpDir := newIngestEnv(t, store.NewMemoryRegistry(), emb)

	_, err := ing.Ingest(context.Background(), 1, "doc.txt", "text/plain", []byte("x"))
	require.ErrorIs(t, err, ErrUnsupportedContentType)

	// rejected before anything touches the filesystem or the embedder
	assert.Zero(t, emb.calls)
	assertDirEmpty(t, tmpDir)
}

func TestIngestHappyPath(t *testing.T) {
	stubExtractPages(t, []string{"one two three four five", "six seven eight"}, nil)
	reg := store.NewMemoryRegistry()
	emb := &fakeEmbedder{vec: []float32{1, 0}}
	ing, tmpDir := newIngestEnv(t, reg, emb)

	msg, err := ing.Ingest(context.Background(), 1, "report.pdf", "application/pdf", []byte("%PDF-fake"))
	require.NoError(t, err)
	assert.Contains(t, msg, "report.pdf")

	ok, err := reg.Has(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Positive(t, emb.calls)

	// temp file cleaned up on success
	assertDirEmpty(t, tmpDir)
}

func TestIngestSecondUploadReplacesFirst(t *testing.T) {
	reg := store.NewMemoryRegistry()
	emb := &fakeEmbedder{vec: []float32{1, 0}}

	stubExtractPages(t, []string{"first document body"}, nil)
	ing, _ := newIngestEnv(t, reg, emb)
	_, err := ing.Ingest(context.Background(), 1, "first.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	stubExtractPages(t, []string{"second document body"}, nil)
	_, err = ing.Ingest(context.Background(), 1, "second.pdf", "application/pdf", []byte("y"))
	require.NoError(t, err)

	// whatever we retrieve now must come from the second document only
	chunks, err := reg.Search(context.Background(), 1, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Contains(t, c.ID, "second.pdf_chunk_")
		assert.NotContains(t, c.Text, "first")
	}
}

func TestIngestExtractionFailure(t *testing.T) {
	stubExtractPages(t, nil, assert.AnError)
	emb := &fakeEmbedder{vec: []float32{1}}
	ing, tmpDir := newIngestEnv(t, store.NewMemoryRegistry(), emb)

	_, err := ing.Ingest(context.Background(), 1, "broken.pdf", "application/pdf", []byte("x"))
	require.ErrorIs(t, err, ErrProcessing)
	assert.Zero(t, emb.calls)

	// temp file cleaned up on failure too
	assertDirEmpty(t, tmpDir)
}

func TestIngestMalformedPDFBytes(t *testing.T) {
	// no extraction stub: the real parser sees the bytes
	emb := &fakeEmbedder{vec: []float32{1}}
	ing, tmpDir := newIngestEnv(t, store.NewMemoryRegistry(), emb)

	var err error
	require.NotPanics(t, func() {
		_, err = ing.Ingest(context.Background(), 1, "hostile.pdf", "application/pdf", []byte("%PDF-1.4\nnot really a pdf"))
	})
	require.ErrorIs(t, err, ErrProcessing)
	assert.Zero(t, emb.calls)
	assertDirEmpty(t, tmpDir)
}

func TestIngestEmptyPDF(t *testing.T) {
	stubExtractPages(t, []string{"   ", ""}, nil)
	ing, _ := newIngestEnv(t, store.NewMemoryRegistry(), &fakeEmbedder{})

	_, err := ing.Ingest(context.Background(), 1, "empty.pdf", "application/pdf", []byte("x"))
	require.ErrorIs(t, err, ErrProcessing)
}

func TestIngestEmbeddingFailureLeavesOldIndex(t *testing.T) {
	reg := store.NewMemoryRegistry()

	stubExtractPages(t, []string{"first document body"}, nil)
	good := &fakeEmbedder{vec: []float32{1, 0}}
	ing, _ := newIngestEnv(t, reg, good)
	_, err := ing.Ingest(context.Background(), 1, "first.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	bad := &fakeEmbedder{err: assert.AnError}
	users := user.NewStore()
	_, err = users.Append("Acme", "a@x.com", "hash")
	require.NoError(t, err)
	failing := NewIngestor(users, reg, bad, &config.Config{ChunkSize: 5, ChunkOverlap: 1, TmpDir: t.TempDir()}, testLogger())

	_, err = failing.Ingest(context.Background(), 1, "second.pdf", "application/pdf", []byte("y"))
	require.ErrorIs(t, err, ErrProcessing)

	// the registry write is the last step, so the old index survives
	chunks, err := reg.Search(context.Background(), 1, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Contains(t, chunks[0].ID, "first.pdf_chunk_")
}

func TestIngestSanitizesFilename(t *testing.T) {
	stubExtractPages(t, []string{"some document text here"}, nil)
	reg := &fakeRegistry{}
	ing, tmpDir := newIngestEnv(t, reg, &fakeEmbedder{vec: []float32{1}})

	_, err := ing.Ingest(context.Background(), 1, "../../etc/passwd.pdf", "application/pdf", []byte("x"))
	require.NoError(t, err)

	// chunk ids carry the base name only
	require.NotEmpty(t, reg.replaced[1])
	assert.Contains(t, reg.replaced[1][0].ID, "passwd.pdf_chunk_")
	assertDirEmpty(t, tmpDir)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

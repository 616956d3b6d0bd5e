package pdf

import (
	"fmt"
	"strings"

	rscpdf "rsc.io/pdf"
)

// ExtractPages returns the text of every page of the PDF at path, one
// entry per page. NUL bytes from broken encodings are stripped.
//
// rsc.io/pdf reports many malformed-input conditions by panicking
// (unknown stream filters, broken object streams), so the whole walk
// runs under a recover that turns a panic into a returned error.
func ExtractPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := rscpdf.Open(path)
	if err != nil {
		return nil, err
	}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		var sb strings.Builder
		for _, t := range p.Content().Text {
			sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
		}
		pages = append(pages, sb.String())
	}
	return pages, nil
}

// Sanitize normalizes extracted text to single-space separated words.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ChunkByWords splits text into windows of size words, with overlap
// words shared between adjacent windows so context survives the cut.
func ChunkByWords(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if size <= 0 {
		size = 200
	}
	if overlap < 0 {
		overlap = 0
	}
	var out []string
	for i := 0; i < len(words); i += max(1, size-overlap) {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[i:end], " "))
		if end == len(words) {
			break
		}
	}
	return out
}

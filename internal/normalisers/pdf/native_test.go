package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// buildPDF assembles a minimal PDF with one Helvetica text line per page.
func buildPDF(pages []string) []byte {
	n := len(pages)
	// 1 catalog, 2 pages tree, 3 font, then a page and content pair per page
	objects := make([]string, 3+2*n)

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n)
	objects[2] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects[3+2*i] = fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i)
		objects[4+2*i] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractor_Name(t *testing.T) {
	assert.Equal(t, "native", New().Name())
}

func TestExtractor_Extract(t *testing.T) {
	path := writeFile(t, "paper.pdf", buildPDF([]string{"Deep Residual Learning", "Second page body"}))

	doc, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	assert.Contains(t, doc.Pages[0], "Deep Residual Learning")
	assert.Contains(t, doc.Pages[1], "Second page body")
	assert.Contains(t, doc.Text, "Deep Residual Learning")
	assert.Contains(t, doc.Text, "Second page body")
}

func TestExtractor_Extract_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.pdf") }},
		{name: "not a pdf", path: func(t *testing.T) string { return writeFile(t, "page.pdf", []byte("<html>nope</html>")) }},
		{name: "truncated", path: func(t *testing.T) string { return writeFile(t, "cut.pdf", buildPDF([]string{"x"})[:40]) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := New().Extract(context.Background(), tt.path(t))

			assert.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestExtractor_Extract_EmptyPath(t *testing.T) {
	_, err := New().Extract(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractor_Extract_Cancelled(t *testing.T) {
	path := writeFile(t, "paper.pdf", buildPDF([]string{"Some text"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Extract(ctx, path)

	assert.ErrorIs(t, err, context.Canceled)
}

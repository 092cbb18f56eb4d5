package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

func TestExtractPlainText(t *testing.T) {
	e := New()

	text, err := e.Extract([]byte("hello world"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = e.Extract([]byte("# heading"), "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# heading", text)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := New()

	for _, name := range []string{"image.png", "archive.zip", "noextension", "report.PDF.bak"} {
		_, err := e.Extract([]byte("data"), name)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, "filename %q", name)
	}
}

func TestExtractCaseInsensitiveExtension(t *testing.T) {
	e := New()

	text, err := e.Extract([]byte("upper"), "NOTES.TXT")
	require.NoError(t, err)
	assert.Equal(t, "upper", text)
}

func TestExtractMalformedPDF(t *testing.T) {
	e := New()

	_, err := e.Extract([]byte("not a pdf at all"), "broken.pdf")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFormat)
}

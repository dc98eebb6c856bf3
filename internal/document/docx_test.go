package document

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		parts[f.Name] = string(body)
	}
	return parts
}

func TestDOCXPackageLayout(t *testing.T) {
	data, err := DOCX(Parse("# Title\nbody"))
	require.NoError(t, err)

	parts := readParts(t, data)
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/numbering.xml",
		"word/document.xml",
	} {
		assert.Contains(t, parts, name)
	}
	assert.Contains(t, parts["[Content_Types].xml"], "/word/numbering.xml")
	assert.Contains(t, parts["word/styles.xml"], `w:styleId="Heading3"`)
}

func TestDOCXDocumentBody(t *testing.T) {
	model := Parse("## Summary\n- step one\n\nplain  <text> & more")
	model.Title = "INC-1 & co"

	data, err := DOCX(model)
	require.NoError(t, err)
	parts := readParts(t, data)
	doc := parts["word/document.xml"]

	assert.Equal(t, len(model.Blocks), strings.Count(doc, "<w:p>"))
	assert.Contains(t, doc, `<w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t xml:space="preserve">Summary</w:t>`)
	assert.Contains(t, doc, `<w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t xml:space="preserve">step one</w:t>`)
	assert.Contains(t, doc, "<w:p></w:p>")
	assert.Contains(t, doc, `<w:t xml:space="preserve">plain  &lt;text&gt; &amp; more</w:t>`)
	assert.Contains(t, parts["docProps/core.xml"], "<dc:title>INC-1 &amp; co</dc:title>")
}

func TestDOCXBlockOrderPreserved(t *testing.T) {
	data, err := DOCX(Parse("first\nsecond\nthird"))
	require.NoError(t, err)
	doc := readParts(t, data)["word/document.xml"]

	first := strings.Index(doc, "first")
	second := strings.Index(doc, "second")
	third := strings.Index(doc, "third")
	assert.True(t, first < second && second < third)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteDOCXWrapsWriterFailure(t *testing.T) {
	err := WriteDOCX(failingWriter{}, Parse("x"))
	require.Error(t, err)
	assert.Equal(t, "SERIALIZATION_FAILED", errorutil.ToDomainError(err).Code)
}

func TestWriteDOCXMatchesDOCX(t *testing.T) {
	model := Parse("# a\n- b")
	var buf bytes.Buffer
	require.NoError(t, WriteDOCX(&buf, model))

	data, err := DOCX(model)
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

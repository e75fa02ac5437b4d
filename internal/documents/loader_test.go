package documents

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const docxDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
	`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Skills:</w:t></w:r><w:r><w:tab/><w:t>Go &amp; Kubernetes</w:t></w:r></w:p>` +
	`</w:body></w:document>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeDocx(t *testing.T, path string) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	zw := zip.NewWriter(file)
	for name, body := range map[string]string{
		"word/document.xml":            docxDocument,
		"word/_rels/document.xml.rels": docxRels,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func TestLoadFolder(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "a_jane.txt"), "Jane Doe\nGo developer")
	writeFile(t, filepath.Join(dir, "b_notes.md"), "# not a profile")
	writeFile(t, filepath.Join(dir, "c_empty.txt"), "")
	writeFile(t, filepath.Join(dir, "d_broken.pdf"), "definitely not a pdf")
	writeFile(t, filepath.Join(dir, "e_UPPER.TXT"), "John Smith")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	core, observed := observer.New(zapcore.WarnLevel)
	docs := NewLoader(zap.New(core)).LoadFolder(dir)

	assert.Equal(t, []string{"a_jane.txt", "e_UPPER.TXT"}, docs.Names())
	assert.Equal(t, "Jane Doe\nGo developer", docs[0].Content)

	assert.Equal(t, 1, observed.FilterMessage("skipping unsupported file").Len())
	assert.Equal(t, 1, observed.FilterMessage("loading document failed").Len())
}

func TestLoadFolderKeepsWhitespaceOnlyDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "blank.txt"), "   \n")

	docs := NewLoader(nil).LoadFolder(dir)

	require.Len(t, docs, 1)
	assert.True(t, NewJobDescription(docs[0]).IsBlank())
}

func TestLoadFolderMissing(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	docs := NewLoader(zap.New(core)).LoadFolder(filepath.Join(t.TempDir(), "missing"))

	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.Equal(t, 1, observed.FilterMessage("folder not found").Len())
}

func TestLoadDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.docx")
	writeDocx(t, path)

	text, err := NewLoader(nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills:\tGo & Kubernetes", text)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := NewLoader(nil).Load("profile.odt")
	assert.EqualError(t, err, `unsupported file format: ".odt"`)
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, []byte{0x4a, 0xfc, 0x72, 0x67}, 0o644))

	_, err := NewLoader(nil).Load(path)
	assert.ErrorContains(t, err, "not valid UTF-8")
}

func TestDocxText(t *testing.T) {
	xml := `<w:p><w:r><w:t>Line one</w:t><w:br/><w:t>Line two</w:t></w:r></w:p><w:p><w:r><w:t>&lt;Go&gt;</w:t></w:r></w:p>`

	assert.Equal(t, "Line one\nLine two\n<Go>", docxText(xml))
}

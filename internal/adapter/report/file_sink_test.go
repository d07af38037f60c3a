package report

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

type staticExplanation struct {
	html string
}

func (e *staticExplanation) TopLabel() int                     { return 4 }
func (e *staticExplanation) Features() []service.FeatureWeight { return nil }
func (e *staticExplanation) WriteHTML(w io.Writer) error {
	_, err := io.WriteString(w, e.html)
	return err
}

func TestFileSink_Persist(t *testing.T) {
	t.Run("writes the report under the deterministic name", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewFileSink(dir)
		require.NoError(t, err)

		path, err := sink.Persist(&staticExplanation{html: "<html>report</html>"}, "1-explanation-fasttext.html")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "1-explanation-fasttext.html"), path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<html>report</html>", string(content))
	})

	t.Run("creates the base directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "nested")

		_, err := NewFileSink(dir)

		require.NoError(t, err)
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("unwritable destination fails", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewFileSink(dir)
		require.NoError(t, err)

		_, err = sink.Persist(&staticExplanation{html: "x"}, filepath.Join("missing-subdir", "report.html"))

		assert.Error(t, err)
	})
}

package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
}

func TestDebug_SilentByDefault(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())
}

func TestDebug_VerboseEnabled(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("chunked %d documents", 3)
	assert.Contains(t, buf.String(), "[DEBUG] chunked 3 documents")
}

func TestInfoWarnSection(t *testing.T) {
	restore(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Ingestion")
	Info("added %s", "doc-1")
	Warn("rollback %s", "doc-2")

	out := buf.String()
	assert.Contains(t, out, "=== Ingestion ===")
	assert.Contains(t, out, "[INFO] added doc-1")
	assert.Contains(t, out, "[WARN] rollback doc-2")
}

func TestIsVerbose(t *testing.T) {
	restore(t)
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}

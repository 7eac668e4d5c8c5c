package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	captureOutput(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := captureOutput(t, true)

	Debug("refresh %s", "corpus")

	assert.Equal(t, "[DEBUG] refresh corpus\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := captureOutput(t, false)

	Debug("refresh corpus")

	assert.Empty(t, buf.String())
}

func TestInfo_WhenNotVerbose(t *testing.T) {
	buf := captureOutput(t, false)

	Info("results %d", 3)

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := captureOutput(t, true)

	Section("Query Change")

	assert.Equal(t, "\n=== Query Change ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	buf := captureOutput(t, true)

	Info("results %d", 42)

	assert.Equal(t, "[INFO] results 42\n", buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := captureOutput(t, false)

	Warn("listing failed: %v", "boom")

	assert.Equal(t, "[WARN] listing failed: boom\n", buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := captureOutput(t, false)

	Error("selection failed")

	assert.Equal(t, "[ERROR] selection failed\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	captureOutput(t, false)
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}

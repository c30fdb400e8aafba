package progress_test

import (
	"bytes"
	"testing"

	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledIsNoOp(t *testing.T) {
	pm := progress.New(false)
	assert.False(t, pm.IsInteractive())

	task := pm.StartTask("evaluating", 3)
	task.Increment(1)
	task.Describe("quality")
	task.Complete()
	pm.Close()
}

func TestNew_CIIsNoOp(t *testing.T) {
	t.Setenv("CI", "true")
	assert.False(t, progress.IsInteractiveEnvironment())
	assert.False(t, progress.New(true).IsInteractive())
}

func TestBarManager_WritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	pm := progress.NewBarManager(&buf)
	assert.True(t, pm.IsInteractive())

	task := pm.StartTask("evaluating", 2)
	task.Increment(1)
	task.Describe("assessing quality")
	task.Increment(1)
	pm.Close()

	assert.Contains(t, buf.String(), "assessing quality")
}

package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithOutput(&buf), WithLevel("warn"), WithFormatter(&logrus.JSONFormatter{}))

	l.Info("hidden")
	l.WithFields(Fields{"gas": 21000}).Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"gas":21000`)
}

func TestWithLevelFallsBackToInfo(t *testing.T) {
	l := New(WithNullLogger(), WithLevel("not-a-level"))
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	l = New(WithNullLogger(), WithLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.True(t, l.ReportCaller)
}

func TestNullLoggerDiscards(t *testing.T) {
	l := NewNullLogger()
	require.NotNil(t, l)
	l.Error("nothing to see")
}

func TestFormatFilePath(t *testing.T) {
	assert.Equal(t, "vm/interpreter.go", formatFilePath("/src/core/vm/interpreter.go", 2))
	assert.Equal(t, "a", formatFilePath("a", 3))
}

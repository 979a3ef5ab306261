package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

// tbAppender writes formatted entries through testing.TB.Log.
type tbAppender struct {
	tb testing.TB
}

// NewTestAppender returns an Appender for tb. Lines show up under the test that logged them.
func NewTestAppender(tb testing.TB) Appender {
	return tbAppender{tb: tb}
}

func (a tbAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	a.tb.Helper()
	line, err := formatEntry(entry, fields)
	a.tb.Log(line)
	return err
}

func (a tbAppender) Sync() error {
	return nil
}

package cli

import (
	"github.com/urfave/cli/v2"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/rimage/transform"
)

// loggerFromContext returns the logger set up by setupLogging, or a blank logger when the app
// was run without it.
func loggerFromContext(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.NewBlankLogger("camxform")
}

const loggerKey = "logger"

func setupLogging(c *cli.Context) error {
	logger := logging.NewBlankLogger("camxform")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.INFO)
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
		c.Context = logging.EnableDebugMode(c.Context, "")
	}
	transformLogger := logger.Sublogger("transform")
	transform.SetLogger(transformLogger)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

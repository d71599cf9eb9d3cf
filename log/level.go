package log

// Level specifies the log level
type Level int

const (
	// DebugLevel indicates Debug log level
	DebugLevel Level = iota
	// InfoLevel indicates Info log level.
	InfoLevel
	// WarningLevel indicates Warning log level.
	WarningLevel
	// ErrorLevel indicates Error log level.
	ErrorLevel
	// FatalLevel indicates Fatal log level.
	FatalLevel
	// PanicLevel indicates Panic log level
	PanicLevel
	numLogLevels = 6
)

var levels = [numLogLevels]string{
	DebugLevel:   "DEBUG",
	InfoLevel:    "INFO",
	WarningLevel: "WARNING",
	ErrorLevel:   "ERROR",
	FatalLevel:   "FATAL",
	PanicLevel:   "PANIC",
}

// String renders the level name, e.g. for inclusion in a log line prefix.
func (l Level) String() string {
	if int(l) < 0 || int(l) >= numLogLevels {
		return "UNKNOWN"
	}
	return levels[l]
}

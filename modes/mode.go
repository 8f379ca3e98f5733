package modes

import "log/slog"

type Mode uint8

const (
	ModeProduction Mode = iota + 1
	ModeDevelopment
)

func (m Mode) String() string {
	switch m {
	case ModeProduction:
		return "production"
	case ModeDevelopment:
		return "development"
	}
	return "unknown"
}

// Level is the default log level of the mode.
func (m Mode) Level() slog.Level {
	if m == ModeDevelopment {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

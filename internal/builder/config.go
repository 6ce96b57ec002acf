package builder

import "log/slog"

// Config tunes the forward builder.
type Config struct {
	// SpaceThresholds maps a length unit to the smallest mspace width that
	// is read as an intentional text space rather than layout.
	SpaceThresholds map[string]float64

	// ProofMarker is matched against an mtable's semantics attribute to
	// select the inference builder.
	ProofMarker string

	// Logger receives debug records for fallbacks. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the thresholds used by common MathML producers.
func DefaultConfig() Config {
	return Config{
		SpaceThresholds: map[string]float64{
			"cm": 0.4,
			"pc": 0.5,
			"em": 0.5,
			"ex": 1,
			"in": 0.15,
			"pt": 5,
			"mm": 5,
		},
		ProofMarker: "bspr_",
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

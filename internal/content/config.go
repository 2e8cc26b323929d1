package content

// Config holds gateway tuning parameters.
type Config struct {
	// MaxTokens bounds every structured response.
	MaxTokens int

	// Temperature for content generation.
	Temperature float64

	// HistoryWindow caps how many prior turns are sent with a tutor
	// question. Older turns are dropped.
	HistoryWindow int

	// ImageAspectRatio is requested for every illustration.
	ImageAspectRatio string
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        8192,
		Temperature:      0.7,
		HistoryWindow:    5,
		ImageAspectRatio: "1:1",
	}
}

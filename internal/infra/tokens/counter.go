package tokens

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

type encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

// Counter estimates token counts with a BPE encoding. The encoding is
// loaded in the background; until it is ready, or when it cannot be loaded,
// Count uses a four-characters-per-token estimate and never waits.
type Counter struct {
	encoding string
	logger   *slog.Logger
	load     func(string) (encoder, error)

	once sync.Once
	mu   sync.RWMutex
	enc  encoder
}

// NewCounter builds a counter for the named encoding.
func NewCounter(encoding string, logger *slog.Logger) *Counter {
	if encoding == "" {
		encoding = defaultEncoding
	}
	return &Counter{
		encoding: encoding,
		logger:   logger.With("component", "tokens.counter"),
		load: func(name string) (encoder, error) {
			return tiktoken.GetEncoding(name)
		},
	}
}

// Warm starts loading the encoding if it has not been started yet.
func (c *Counter) Warm() {
	c.once.Do(func() {
		go c.loadEncoding()
	})
}

// Count returns the estimated number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.Warm()
	c.mu.RLock()
	enc := c.enc
	c.mu.RUnlock()
	if enc == nil {
		return estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) loadEncoding() {
	enc, err := c.load(c.encoding)
	if err != nil {
		c.logger.Warn("token encoding unavailable; using estimate", "encoding", c.encoding, "error", err)
		return
	}
	c.mu.Lock()
	c.enc = enc
	c.mu.Unlock()
	c.logger.Info("token encoding loaded", "encoding", c.encoding)
}

func estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

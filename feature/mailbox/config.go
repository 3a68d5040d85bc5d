package mailbox

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the mailbox collaborator.
type Config struct {
	// Prefix is the object key prefix of the mailbox dump.
	Prefix string `mapstructure:"prefix" default:"mailbox"`
	// ProcessedLabel is the label marking threads already merged.
	ProcessedLabel string `mapstructure:"processed_label" default:"camp-bookings"`
	// MaxThreads caps how many threads a single pass scans.
	MaxThreads int `mapstructure:"max_threads" default:"500"`
	// AddLabel controls whether processed threads get labeled.
	AddLabel bool `mapstructure:"add_label" default:"true"`
	// SearchWindow is the recency window, e.g. "7d" or "72h".
	SearchWindow string `mapstructure:"search_window" default:"7d"`
}

// Window parses the configured search window. The "Nd" day shorthand of
// mailbox search queries is accepted alongside Go duration syntax.
func (c Config) Window() (time.Duration, error) {
	s := strings.TrimSpace(c.SearchWindow)
	if s == "" {
		return 7 * 24 * time.Hour, nil
	}
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days <= 0 {
			return 0, fmt.Errorf("invalid search window %q", c.SearchWindow)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid search window %q", c.SearchWindow)
	}
	return d, nil
}

package extract

// Platform names wired to built-in extraction rule sets.
const (
	PlatformRakuten = "rakuten"
	PlatformNap     = "nap"
)

// Platform describes one booking platform: how to recognize its emails and
// where its reservations land in the ledger. The extraction rule set is
// selected by Name; everything else is plain configuration.
type Platform struct {
	// Name selects the extraction rule set ("rakuten" or "nap").
	Name string `mapstructure:"name"`
	// Label is the display label written to the ledger's platform column.
	Label string `mapstructure:"label"`
	// Sender is the platform's sender address (substring match).
	Sender string `mapstructure:"sender"`
	// ConfirmSubject marks confirmation emails (substring match).
	ConfirmSubject string `mapstructure:"confirm_subject"`
	// CancelSubject marks cancellation emails (substring match).
	CancelSubject string `mapstructure:"cancel_subject"`
	// Table is the registry table holding this platform's reservations.
	Table string `mapstructure:"table"`
}

// Config holds the per-platform settings. The operator's two platforms are
// fixed; adding a third means adding a rule set, not new control flow.
type Config struct {
	Rakuten Platform `mapstructure:"rakuten"`
	Nap     Platform `mapstructure:"nap"`
}

// Platforms returns the configured platforms in a stable order.
func (c Config) Platforms() []Platform {
	return []Platform{c.Rakuten, c.Nap}
}

// WithDefaults fills unset platform fields from Defaults, so partial
// overrides (say, a different processed table name) keep the built-in
// senders and subject markers.
func (c Config) WithDefaults() Config {
	d := Defaults()
	c.Rakuten = mergePlatform(c.Rakuten, d.Rakuten)
	c.Nap = mergePlatform(c.Nap, d.Nap)
	return c
}

func mergePlatform(p, d Platform) Platform {
	if p.Name == "" {
		p.Name = d.Name
	}
	if p.Label == "" {
		p.Label = d.Label
	}
	if p.Sender == "" {
		p.Sender = d.Sender
	}
	if p.ConfirmSubject == "" {
		p.ConfirmSubject = d.ConfirmSubject
	}
	if p.CancelSubject == "" {
		p.CancelSubject = d.CancelSubject
	}
	if p.Table == "" {
		p.Table = d.Table
	}
	return p
}

// Defaults returns the platform settings matching the production mailboxes.
func Defaults() Config {
	return Config{
		Rakuten: Platform{
			Name:           PlatformRakuten,
			Label:          "楽天トラベル",
			Sender:         "no-reply@camp.travel.rakuten.co.jp",
			ConfirmSubject: "予約が確定しました",
			CancelSubject:  "予約がキャンセルされました",
			Table:          "rakuten",
		},
		Nap: Platform{
			Name:           PlatformNap,
			Label:          "なっぷ",
			Sender:         "rsv@nap-camp.com",
			ConfirmSubject: "ご予約ありがとうございます",
			CancelSubject:  "キャンセル",
			Table:          "nap",
		},
	}
}

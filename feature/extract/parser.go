package extract

import (
	"strings"
	"time"

	"booking-mirror/feature/mailbox"
)

// Parser turns raw emails into reservation signals. It is pure: parsing
// never touches the mailbox or the ledger.
type Parser struct {
	platforms []Platform
	loc       *time.Location
}

// NewParser creates a parser for the given platforms. Extracted dates are
// interpreted in loc (the campground's local time).
func NewParser(platforms []Platform, loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{platforms: platforms, loc: loc}
}

// ParseThreads parses every message of every thread, in order, and returns
// the recognized signals. Unrecognized messages are expected noise and are
// dropped silently.
func (p *Parser) ParseThreads(threads []mailbox.Thread) []*RawSignal {
	var signals []*RawSignal
	for _, th := range threads {
		for _, msg := range th.Messages {
			if sig := p.Parse(th.ID, msg); sig != nil {
				signals = append(signals, sig)
			}
		}
	}
	return signals
}

// Parse maps a single message to a signal, or nil when the message is not a
// recognized platform email. A message yields a signal only when all three
// of platform, reservation ID, and kind are established; a confirmation
// additionally needs a valid check-in date and a guest name, which guards
// against malformed templates producing garbage ledger rows.
func (p *Parser) Parse(threadID string, msg mailbox.Message) *RawSignal {
	platform := p.detect(msg.From)
	if platform == nil {
		return nil
	}

	id := extractID(platform.Name, msg.Subject, msg.Body)
	if id == "" {
		return nil
	}

	sig := &RawSignal{
		Platform:      platform.Name,
		ReservationID: id,
		ThreadID:      threadID,
		Timestamp:     msg.Date,
	}

	// Cancellation markers win: Nap's cancel marker is a substring of
	// ordinary subjects, so it must be tested first.
	switch {
	case strings.Contains(msg.Subject, platform.CancelSubject):
		sig.Kind = KindCancel
		return sig
	case strings.Contains(msg.Subject, platform.ConfirmSubject):
		sig.Kind = KindConfirm
	default:
		return nil
	}

	fields := extractFields(platform.Name, msg.Body, msg.Date, p.loc)
	if fields == nil || fields.CheckIn.IsZero() || fields.GuestName == "" {
		return nil
	}
	sig.Fields = fields
	return sig
}

func (p *Parser) detect(from string) *Platform {
	for i := range p.platforms {
		if p.platforms[i].Sender != "" && strings.Contains(from, p.platforms[i].Sender) {
			return &p.platforms[i]
		}
	}
	return nil
}

func extractID(platformName, subject, body string) string {
	switch platformName {
	case PlatformRakuten:
		return extractRakutenID(subject, body)
	case PlatformNap:
		return extractNapID(subject, body)
	default:
		return ""
	}
}

func extractFields(platformName, body string, msgDate time.Time, loc *time.Location) *Fields {
	switch platformName {
	case PlatformRakuten:
		return extractRakutenFields(body, msgDate, loc)
	case PlatformNap:
		return extractNapFields(body, msgDate, loc)
	default:
		return nil
	}
}

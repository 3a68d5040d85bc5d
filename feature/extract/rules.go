package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Each platform's extraction rules are a set of declared patterns plus a
// small amount of post-processing (date-range splitting, count
// normalization). Adding a platform means adding a rule set here and a
// Platform entry in the configuration.

// pick returns the first capture group of the pattern in s, trimmed, or ""
// when the pattern does not match.
func pick(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return strings.TrimSpace(g)
		}
	}
	return ""
}

// numOrZero extracts the digits of s as an int, returning 0 for anything
// unparseable. Mirrors how the ledger treats missing guest counts.
func numOrZero(s string) int {
	digits := nonDigits.ReplaceAllString(s, "")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

/* ---------- Rakuten Travel Camp ---------- */

var rakutenRules = struct {
	reservationID *regexp.Regexp
	stayPeriod    *regexp.Regexp
	rangeSplit    *regexp.Regexp
	endHasDate    []*regexp.Regexp
	siteName      *regexp.Regexp
	siteCount     *regexp.Regexp
	people        *regexp.Regexp
	adults        *regexp.Regexp
	children      *regexp.Regexp
	infants       *regexp.Regexp
	guestName     *regexp.Regexp
	phone         *regexp.Regexp
	email         *regexp.Regexp
	remarks       *regexp.Regexp
	price         *regexp.Regexp
}{
	reservationID: regexp.MustCompile(`(?i)(?:予約ID|予約ＩＤ)[^\S\r\n]*[:：]?\s*([A-Z0-9-]+)`),
	stayPeriod:    regexp.MustCompile(`(?i)[▼\s]*(宿泊期間|利用日)[^\S\r\n]*[:：]?\s*([0-9\/.\-年月日 　:\n～~]+)`),
	rangeSplit:    regexp.MustCompile(`[～~]`),
	endHasDate: []*regexp.Regexp{
		regexp.MustCompile(`\d{4}\s*[/年]`),
		regexp.MustCompile(`\d{1,2}\s*[/月]\s*\d{1,2}`),
	},
	siteName:  regexp.MustCompile(`(?i)サイト名[^\S\r\n]*[:：]?\s*([^\n<]+)`),
	siteCount: regexp.MustCompile(`(?i)予約サイト数[^\S\r\n]*[:：]?\s*(\d+)`),
	people:    regexp.MustCompile(`(?is)大人[^\d]*(\d+)\s*名.*?子供[^\d]*(\d+)\s*名.*?幼児[^\d]*(\d+)\s*名`),
	adults:    regexp.MustCompile(`大人[^\d]*(\d+)\s*名`),
	children:  regexp.MustCompile(`子供[^\d]*(\d+)\s*名`),
	infants:   regexp.MustCompile(`幼児[^\d]*(\d+)\s*名`),
	guestName: regexp.MustCompile(`(?i)お名前[^\S\r\n]*[:：]\s*([^\n<]+)`),
	phone:     regexp.MustCompile(`電話番号[^\S\r\n]*[:：]\s*(0\d{9,10})`),
	email:     regexp.MustCompile(`メールアドレス[^\S\r\n]*[:：]\s*([\w._%+\-]+@[\w.\-]+\.[A-Za-z]{2,})`),
	// Remarks run until the next section heading or a blank line. RE2 has
	// no lookahead, so the terminator is consumed by a non-capturing group.
	remarks: regexp.MustCompile(`(?is)[▼\s]*備考[^\S\n\r]*[:：]?[^\S\n\r]*(.+?)(?:\n[^\S\n\r]*[▼\s]*(?:利用料金|お支払い済み料金|サイト名|予約者情報|予約詳細)|\n{2,}|\n?\z)`),
	price:   regexp.MustCompile(`(?i)(?:利用料金|合計料金|お支払い済み料金)[^\d￥]*([￥]?\s*[\d,]+)`),
}

func extractRakutenID(subject, body string) string {
	return pick(rakutenRules.reservationID, body)
}

// extractRakutenFields parses a Rakuten confirmation body. The stay is
// given either as a period (宿泊期間, check-in ～ check-out) or a single day
// visit (利用日), which implies an 18:00 checkout.
func extractRakutenFields(body string, msgDate time.Time, loc *time.Location) *Fields {
	f := &Fields{BookedAt: msgDate}

	if m := rakutenRules.stayPeriod.FindStringSubmatch(body); m != nil {
		kind := strings.TrimSpace(m[1])
		raw := strings.TrimSpace(strings.ReplaceAll(m[2], "\r", ""))

		var parts []string
		for _, p := range rakutenRules.rangeSplit.Split(raw, -1) {
			p = strings.TrimSpace(strings.ReplaceAll(p, "\n", " "))
			if p != "" {
				parts = append(parts, p)
			}
		}

		if len(parts) > 0 {
			f.CheckIn = parseLooseDate(parts[0], time.Time{}, loc)
		}

		switch kind {
		case "利用日":
			if !f.CheckIn.IsZero() {
				y, mo, d := f.CheckIn.Date()
				f.CheckOut = time.Date(y, mo, d, 18, 0, 0, 0, loc)
			}
		case "宿泊期間":
			if !f.CheckIn.IsZero() && len(parts) > 1 {
				endRaw := parts[1]
				hasDate := false
				for _, re := range rakutenRules.endHasDate {
					if re.MatchString(endRaw) {
						hasDate = true
						break
					}
				}
				if hasDate {
					f.CheckOut = parseLooseDate(endRaw, time.Time{}, loc)
				} else {
					f.CheckOut = parseLooseDate(endRaw, f.CheckIn, loc)
					// A bare time on the last day means the next morning.
					if !f.CheckOut.IsZero() && !f.CheckOut.After(f.CheckIn) {
						f.CheckOut = f.CheckOut.AddDate(0, 0, 1)
					}
				}
			}
		}
	}

	f.SiteName = pick(rakutenRules.siteName, body)
	f.SiteCount = pick(rakutenRules.siteCount, body)

	if m := rakutenRules.people.FindStringSubmatch(body); m != nil {
		f.Adults = numOrZero(m[1])
		f.Children = numOrZero(m[2])
		f.Infants = numOrZero(m[3])
	} else {
		f.Adults = numOrZero(pick(rakutenRules.adults, body))
		f.Children = numOrZero(pick(rakutenRules.children, body))
		f.Infants = numOrZero(pick(rakutenRules.infants, body))
	}

	f.GuestName = pick(rakutenRules.guestName, body)
	f.Phone = pick(rakutenRules.phone, body)
	f.Email = pick(rakutenRules.email, body)
	f.Remarks = pick(rakutenRules.remarks, strings.ReplaceAll(body, "\r", ""))
	f.Price = strings.Join(strings.Fields(pick(rakutenRules.price, body)), "")

	return f
}

// parseLooseDate parses the loosely formatted dates seen in Rakuten bodies:
// "2026/02/14 13:00", "2026年2月14日", "10:00" (resolved against base).
func parseLooseDate(s string, base time.Time, loc *time.Location) time.Time {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.NewReplacer("年", "/", "月", "/", "日", "", ".", "/", "-", "/").Replace(s)
	s = strings.Join(strings.Fields(s), " ")

	if m := looseDateTime.FindStringSubmatch(s); m != nil {
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), atoi(m[4]), atoi(m[5]), 0, 0, loc)
	}
	if m := looseDate.FindStringSubmatch(s); m != nil {
		return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), 0, 0, 0, 0, loc)
	}
	if m := looseTime.FindStringSubmatch(s); m != nil && !base.IsZero() {
		y, mo, d := base.Date()
		return time.Date(y, mo, d, atoi(m[1]), atoi(m[2]), 0, 0, loc)
	}
	return time.Time{}
}

var (
	looseDateTime = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2}) (\d{1,2}):(\d{2})$`)
	looseDate     = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	looseTime     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

/* ---------- Nap ---------- */

var napRules = struct {
	reservationID *regexp.Regexp
	subjectID     *regexp.Regexp
	bookedAt      *regexp.Regexp
	checkIn       *regexp.Regexp
	checkOut      *regexp.Regexp
	siteName      *regexp.Regexp
	adults        *regexp.Regexp
	children      *regexp.Regexp
	infants       *regexp.Regexp
	guestName     *regexp.Regexp
	phone         *regexp.Regexp
	email         *regexp.Regexp
	remarks       *regexp.Regexp
	price         *regexp.Regexp
}{
	reservationID: regexp.MustCompile(`予約詳細番号[^:：]*[:：]\s*([A-Z0-9-]+)`),
	subjectID:     regexp.MustCompile(`([A-Z0-9]+-\d+)`),
	bookedAt:      napDateTimePattern("予約日時"),
	checkIn:       napDateTimePattern("チェックイン日時"),
	checkOut:      napDateTimePattern("チェックアウト日時"),
	siteName:      regexp.MustCompile(`予約施設[^:：]*[:：]\s*([^\n]+)`),
	adults:        regexp.MustCompile(`人数[^\n]*大人\s*(\d+)\s*人`),
	children:      regexp.MustCompile(`人数[^\n]*子供\s*(\d+)\s*人`),
	infants:       regexp.MustCompile(`人数[^\n]*幼児\s*(\d+)`),
	guestName:     regexp.MustCompile(`代表者氏名[^:：]*[:：]\s*([^\n]+)`),
	phone:         regexp.MustCompile(`代表者連絡先[^:：]*[:：]\s*(0\d{9,10})`),
	email:         regexp.MustCompile(`お客様のメールアドレス[^:：]*[:：]\s*\[?([^\]\s\n]+@[^\]\s\n]+)\]?`),
	remarks:       regexp.MustCompile(`■\s*ご要望\s*\n\s*([^\n]+)`),
	price:         regexp.MustCompile(`利用料総額[^:：]*[:：]\s*([￥]?\s*[\d,]+円?)`),
}

// napDateTimePattern matches Nap's labeled timestamps, e.g.
// "チェックイン日時　　 : 2026年02月14日(土) 13時00分".
func napDateTimePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(label + `[^:：]*[:：]\s*(\d{4})年(\d{2})月(\d{2})日[^0-9]*(\d{1,2})時(\d{2})分`)
}

func extractNapID(subject, body string) string {
	if id := pick(napRules.reservationID, body); id != "" {
		return id
	}
	return pick(napRules.subjectID, subject)
}

func extractNapFields(body string, msgDate time.Time, loc *time.Location) *Fields {
	f := &Fields{
		BookedAt: napTime(napRules.bookedAt, body, loc),
		CheckIn:  napTime(napRules.checkIn, body, loc),
		CheckOut: napTime(napRules.checkOut, body, loc),
	}
	if f.BookedAt.IsZero() {
		f.BookedAt = msgDate
	}

	f.SiteName = pick(napRules.siteName, body)
	// Nap reservations never state a site count.
	f.Adults = numOrZero(pick(napRules.adults, body))
	f.Children = numOrZero(pick(napRules.children, body))
	f.Infants = numOrZero(pick(napRules.infants, body))
	f.GuestName = pick(napRules.guestName, body)
	f.Phone = pick(napRules.phone, body)
	f.Email = pick(napRules.email, body)
	f.Remarks = pick(napRules.remarks, body)
	f.Price = pick(napRules.price, body)

	return f
}

func napTime(re *regexp.Regexp, body string, loc *time.Location) time.Time {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return time.Time{}
	}
	return time.Date(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), atoi(m[4]), atoi(m[5]), 0, 0, loc)
}

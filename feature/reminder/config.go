package reminder

// Config controls the guest reminder mailer.
type Config struct {
	// Enabled turns the reminder pass on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// DryRun logs what would be sent without sending or flagging.
	DryRun bool `mapstructure:"dry_run" default:"false"`
	// ForceTo overrides every recipient, for test runs against real
	// reservation data.
	ForceTo string `mapstructure:"force_to"`
	// LockCode is the gate code included in the day-after-booking
	// notice.
	LockCode string `mapstructure:"lock_code"`

	LockCodeSubject string `mapstructure:"lock_code_subject"`
	LockCodeBody    string `mapstructure:"lock_code_body"`
	ReminderSubject string `mapstructure:"reminder_subject"`
	ReminderBody    string `mapstructure:"reminder_body"`
}

// Default templates. Placeholders in {braces} are substituted per
// reservation.
const (
	defaultLockCodeSubject = "【ご予約確認】入場ゲート暗証番号のご案内"
	defaultLockCodeBody    = `{guest_name} 様

この度はご予約いただき誠にありがとうございます。
ご予約内容(予約ID: {reservation_id})を確認いたしました。

ご利用日: {check_in}
入場ゲートの暗証番号: {lock_code}

当日お会いできることを楽しみにしております。`
	defaultReminderSubject = "【ご利用前日のご案内】ご予約内容のご確認"
	defaultReminderBody    = `{guest_name} 様

明日のご来場についてご案内いたします。

予約ID: {reservation_id}
チェックイン: {check_in}
サイト: {site_name}

お気をつけてお越しください。`
)

// withDefaults fills empty templates with the built-in ones.
func (c Config) withDefaults() Config {
	if c.LockCodeSubject == "" {
		c.LockCodeSubject = defaultLockCodeSubject
	}
	if c.LockCodeBody == "" {
		c.LockCodeBody = defaultLockCodeBody
	}
	if c.ReminderSubject == "" {
		c.ReminderSubject = defaultReminderSubject
	}
	if c.ReminderBody == "" {
		c.ReminderBody = defaultReminderBody
	}
	return c
}

package extract

import (
	"testing"
	"time"

	"booking-mirror/feature/mailbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func testParser() *Parser {
	cfg := Defaults()
	return NewParser(cfg.Platforms(), jst)
}

const rakutenConfirmBody = `西郷様

以下の内容で予約が確定しました。

▼予約詳細
予約ID：RK12345-6
▼宿泊期間：2026/02/14 13:00　～　2026/02/15 10:00
サイト名：林間サイトA
予約サイト数：1
大人 2名 子供 1名 幼児 0名
▼予約者情報
お名前：山田 太郎
電話番号：09012345678
メールアドレス：taro@example.com
▼備考：焚き火台を利用します

利用料金：￥4,800
`

const napConfirmBody = `■ 予約内容
予約詳細番号　　　　 : NAP123-456
予約日時　　　　　　 : 2026年02月08日(日) 23時19分
予約施設　　　　　　 : ぬくもりの森キャンプ場
チェックイン日時　　 : 2026年02月14日(土) 13時00分
チェックアウト日時　 : 2026年02月15日(日) 10時00分
人数　　　　　　　　 : 大人 1人 子供 0人 幼児 0人
利用料総額　　　　　 :   1,600円

■ お客様情報
代表者氏名　　　　　 : 鈴木 花子
代表者連絡先　　　　 : 09087654321
お客様のメールアドレス : [hanako@example.com]

■ ご要望
ペット同伴です
`

func TestParse_RakutenConfirm(t *testing.T) {
	p := testParser()
	msgDate := time.Date(2026, 2, 8, 10, 30, 0, 0, jst)

	sig := p.Parse("th-1", mailbox.Message{
		From:    "楽天トラベル <no-reply@camp.travel.rakuten.co.jp>",
		Subject: "【楽天トラベル】予約が確定しました",
		Body:    rakutenConfirmBody,
		Date:    msgDate,
	})
	require.NotNil(t, sig)

	assert.Equal(t, PlatformRakuten, sig.Platform)
	assert.Equal(t, "RK12345-6", sig.ReservationID)
	assert.Equal(t, KindConfirm, sig.Kind)
	assert.Equal(t, "th-1", sig.ThreadID)

	f := sig.Fields
	require.NotNil(t, f)
	assert.Equal(t, time.Date(2026, 2, 14, 13, 0, 0, 0, jst), f.CheckIn)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 0, 0, 0, jst), f.CheckOut)
	assert.Equal(t, "林間サイトA", f.SiteName)
	assert.Equal(t, "1", f.SiteCount)
	assert.Equal(t, 2, f.Adults)
	assert.Equal(t, 1, f.Children)
	assert.Equal(t, 0, f.Infants)
	assert.Equal(t, "山田 太郎", f.GuestName)
	assert.Equal(t, "09012345678", f.Phone)
	assert.Equal(t, "taro@example.com", f.Email)
	assert.Equal(t, "焚き火台を利用します", f.Remarks)
	assert.Equal(t, "￥4,800", f.Price)
	assert.Equal(t, msgDate, f.BookedAt)
}

func TestParse_RakutenDayUse(t *testing.T) {
	p := testParser()
	body := `予約ID：RK777
▼利用日：2026/03/01
お名前：佐藤 一
大人 4名 子供 0名 幼児 0名
`
	sig := p.Parse("th-2", mailbox.Message{
		From:    "no-reply@camp.travel.rakuten.co.jp",
		Subject: "予約が確定しました",
		Body:    body,
		Date:    time.Date(2026, 2, 20, 9, 0, 0, 0, jst),
	})
	require.NotNil(t, sig)

	// A day-use booking implies an 18:00 checkout on the same day.
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, jst), sig.Fields.CheckIn)
	assert.Equal(t, time.Date(2026, 3, 1, 18, 0, 0, 0, jst), sig.Fields.CheckOut)
}

func TestParse_NapConfirm(t *testing.T) {
	p := testParser()

	sig := p.Parse("th-3", mailbox.Message{
		From:    "なっぷ <rsv@nap-camp.com>",
		Subject: "【なっぷ】ご予約ありがとうございます",
		Body:    napConfirmBody,
		Date:    time.Date(2026, 2, 9, 0, 5, 0, 0, jst),
	})
	require.NotNil(t, sig)

	assert.Equal(t, PlatformNap, sig.Platform)
	assert.Equal(t, "NAP123-456", sig.ReservationID)
	assert.Equal(t, KindConfirm, sig.Kind)

	f := sig.Fields
	require.NotNil(t, f)
	// Booked-at comes from the body, not the message header.
	assert.Equal(t, time.Date(2026, 2, 8, 23, 19, 0, 0, jst), f.BookedAt)
	assert.Equal(t, time.Date(2026, 2, 14, 13, 0, 0, 0, jst), f.CheckIn)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 0, 0, 0, jst), f.CheckOut)
	assert.Equal(t, "ぬくもりの森キャンプ場", f.SiteName)
	assert.Equal(t, "", f.SiteCount)
	assert.Equal(t, 1, f.Adults)
	assert.Equal(t, "鈴木 花子", f.GuestName)
	assert.Equal(t, "09087654321", f.Phone)
	assert.Equal(t, "hanako@example.com", f.Email)
	assert.Equal(t, "ペット同伴です", f.Remarks)
	assert.Equal(t, "1,600円", f.Price)
}

func TestParse_NapIDFromSubject(t *testing.T) {
	p := testParser()

	sig := p.Parse("th-4", mailbox.Message{
		From:    "rsv@nap-camp.com",
		Subject: "ご予約のキャンセルを承りました (NAP999-111)",
		Body:    "ご予約のキャンセルが完了しました。",
		Date:    time.Now(),
	})
	require.NotNil(t, sig)
	assert.Equal(t, "NAP999-111", sig.ReservationID)
	assert.Equal(t, KindCancel, sig.Kind)
	assert.Nil(t, sig.Fields)
}

func TestParse_RakutenCancel(t *testing.T) {
	p := testParser()

	sig := p.Parse("th-5", mailbox.Message{
		From:    "no-reply@camp.travel.rakuten.co.jp",
		Subject: "予約がキャンセルされました",
		Body:    "予約ID：RK12345-6\nキャンセルを受け付けました。",
		Date:    time.Now(),
	})
	require.NotNil(t, sig)
	assert.Equal(t, KindCancel, sig.Kind)
	assert.Equal(t, "RK12345-6", sig.ReservationID)
}

func TestParse_Noise(t *testing.T) {
	p := testParser()
	now := time.Now()

	t.Run("unknown sender with plausible ID", func(t *testing.T) {
		sig := p.Parse("th-6", mailbox.Message{
			From:    "deals@travel-spam.example.com",
			Subject: "予約が確定しました",
			Body:    "予約ID：RK12345-6",
			Date:    now,
		})
		assert.Nil(t, sig)
	})

	t.Run("unclassified subject", func(t *testing.T) {
		sig := p.Parse("th-7", mailbox.Message{
			From:    "no-reply@camp.travel.rakuten.co.jp",
			Subject: "アンケートのお願い",
			Body:    "予約ID：RK12345-6",
			Date:    now,
		})
		assert.Nil(t, sig)
	})

	t.Run("no reservation ID", func(t *testing.T) {
		sig := p.Parse("th-8", mailbox.Message{
			From:    "no-reply@camp.travel.rakuten.co.jp",
			Subject: "予約が確定しました",
			Body:    "本文に予約番号がありません",
			Date:    now,
		})
		assert.Nil(t, sig)
	})

	t.Run("confirmation without guest name", func(t *testing.T) {
		sig := p.Parse("th-9", mailbox.Message{
			From:    "no-reply@camp.travel.rakuten.co.jp",
			Subject: "予約が確定しました",
			Body:    "予約ID：RK1\n▼宿泊期間：2026/02/14 13:00～2026/02/15 10:00\n",
			Date:    now,
		})
		assert.Nil(t, sig)
	})

	t.Run("confirmation without check-in", func(t *testing.T) {
		sig := p.Parse("th-10", mailbox.Message{
			From:    "no-reply@camp.travel.rakuten.co.jp",
			Subject: "予約が確定しました",
			Body:    "予約ID：RK1\nお名前：山田 太郎\n",
			Date:    now,
		})
		assert.Nil(t, sig)
	})
}

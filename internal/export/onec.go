// Package export renders parsed statements in the 1CClientBankExchange
// format read by 1C accounting software.
//
// The account section carries turnovers under both the standard
// ВсегоПоступило/ВсегоСписано keys and the ДебетОборот/КредитОборот keys
// that some importers read instead.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/izvod-dev/izvod/internal/model"
)

// Encoding selects the character set of the rendered file.
type Encoding string

const (
	EncodingUTF8    Encoding = "UTF-8"
	EncodingWindows Encoding = "Windows"
)

const (
	formatVersion = "1.03"
	sender        = "izvod"
	dateFormat    = "02.01.2006"
	timeFormat    = "15:04:05"
	documentKind  = "Платёжное поручение"
)

// ErrMixedAccounts is returned when statements for different accounts are
// rendered into one file.
var ErrMixedAccounts = errors.New("statements belong to different accounts")

// Options control rendering. A zero Created leaves the creation stamp empty.
type Options struct {
	Created  time.Time
	Encoding Encoding
}

// Write1C renders statements as one exchange file. All statements must share
// the same account number.
func Write1C(w io.Writer, statements []model.Statement, opts Options) error {
	if len(statements) == 0 {
		return errors.New("no statements to export")
	}
	account := statements[0].AccountNumber
	for _, s := range statements[1:] {
		if s.AccountNumber != account {
			return fmt.Errorf("%w: %q and %q", ErrMixedAccounts, account, s.AccountNumber)
		}
	}

	enc := opts.Encoding
	if enc == "" {
		enc = EncodingUTF8
	}
	out := w
	var closer io.Closer
	switch enc {
	case EncodingUTF8:
	case EncodingWindows:
		tw := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder()).Writer(w)
		out, closer = tw, tw.(io.Closer)
	default:
		return fmt.Errorf("unknown encoding %q", enc)
	}

	bw := bufio.NewWriter(out)
	r := &renderer{w: bw}

	start, end := span(statements)
	r.line("1CClientBankExchange")
	r.field("ВерсияФормата", formatVersion)
	r.field("Кодировка", string(enc))
	r.field("Отправитель", sender)
	r.field("Получатель", "")
	r.field("ДатаСоздания", stamp(opts.Created, dateFormat))
	r.field("ВремяСоздания", stamp(opts.Created, timeFormat))
	r.field("ДатаНачала", formatDate(start))
	r.field("ДатаКонца", formatDate(end))
	r.field("РасчСчет", account)

	for _, s := range statements {
		r.account(s)
	}
	for _, s := range statements {
		for _, tx := range s.Transactions {
			r.document(s.Header, tx)
		}
	}
	r.line("КонецФайла")

	if r.err != nil {
		return fmt.Errorf("writing 1C export: %w", r.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing 1C export: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("writing 1C export: %w", err)
		}
	}
	return nil
}

type renderer struct {
	w   *bufio.Writer
	err error
}

func (r *renderer) line(s string) {
	if r.err != nil {
		return
	}
	_, r.err = r.w.WriteString(s + "\r\n")
}

func (r *renderer) field(key, value string) {
	r.line(key + "=" + value)
}

func (r *renderer) account(s model.Statement) {
	start, end := s.PeriodStart, s.PeriodEnd
	if start == nil {
		start = s.StatementDate
	}
	if end == nil {
		end = s.StatementDate
	}
	r.line("СекцияРасчСчет")
	r.field("ДатаНачала", formatDate(start))
	r.field("ДатаКонца", formatDate(end))
	r.field("РасчСчет", s.AccountNumber)
	r.field("НачальныйОстаток", formatAmount(s.OpeningBalance))
	r.field("ВсегоПоступило", formatAmount(s.TotalCredit))
	r.field("ВсегоСписано", formatAmount(s.TotalDebit))
	r.field("ДебетОборот", formatAmount(s.TotalDebit))
	r.field("КредитОборот", formatAmount(s.TotalCredit))
	r.field("КонечныйОстаток", formatAmount(s.ClosingBalance))
	r.line("КонецРасчСчет")
}

// document writes one payment. On the debit side the account holder pays the
// counterparty, on the credit side the counterparty pays the holder.
func (r *renderer) document(h model.Header, tx model.Transaction) {
	amount, debit := tx.Amount()
	date := tx.ValueDate
	if date == nil {
		date = tx.BookingDate
	}

	r.field("СекцияДокумент", documentKind)
	r.field("Номер", fmt.Sprint(tx.RowNumber))
	r.field("Дата", formatDate(date))
	r.field("Сумма", amount.StringFixed(2))
	if debit {
		r.field("ДатаСписано", formatDate(tx.BookingDate))
		r.party("Плательщик", h.AccountNumber, h.ClientName, h.ClientTaxID)
		r.party("Получатель", tx.CounterpartyAccount, tx.Counterparty, "")
	} else {
		r.field("ДатаПоступило", formatDate(tx.BookingDate))
		r.party("Плательщик", tx.CounterpartyAccount, tx.Counterparty, "")
		r.party("Получатель", h.AccountNumber, h.ClientName, h.ClientTaxID)
	}
	if tx.CounterpartyBank != "" {
		if debit {
			r.field("ПолучательБанк1", tx.CounterpartyBank)
		} else {
			r.field("ПлательщикБанк1", tx.CounterpartyBank)
		}
	}
	r.field("ВидПлатежа", tx.PaymentCode)
	r.field("НазначениеПлатежа", tx.Purpose)
	r.line("КонецДокумента")
}

func (r *renderer) party(role, account, name, taxID string) {
	r.field(role+"Счет", account)
	r.field(role, name)
	r.field(role+"ИНН", taxID)
}

// span returns the earliest start and latest end across statements, falling
// back to the statement date where no period is printed.
func span(statements []model.Statement) (start, end *time.Time) {
	for _, s := range statements {
		from, to := s.PeriodStart, s.PeriodEnd
		if from == nil {
			from = s.StatementDate
		}
		if to == nil {
			to = s.StatementDate
		}
		if from != nil && (start == nil || from.Before(*start)) {
			start = from
		}
		if to != nil && (end == nil || to.After(*end)) {
			end = to
		}
	}
	return start, end
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dateFormat)
}

func stamp(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

func formatAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "0.00"
	}
	return d.Decimal.StringFixed(2)
}

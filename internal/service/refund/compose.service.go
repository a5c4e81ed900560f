package refund

import (
	"strings"

	"refund-relay/internal/pkg/wizard"
)

const (
	consentGiven   = "Telah Disetujui"
	consentMissing = "Belum Disetujui"
)

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
)

// Compose renders a draft as the Telegram Markdown message admins receive.
// The output depends only on the draft.
func Compose(d wizard.Draft) string {
	consent := consentMissing
	if d.Agreed {
		consent = consentGiven
	}

	lines := []string{
		"*PENGAJUAN REFUND BARU* 📦",
		"👤 *Biodata:*",
		"- Nama: " + escape(d.FullName),
		"- WA: " + escape(d.PhoneNumber),
		"📦 *Pesanan:*",
		"- Resi: " + escape(d.ReceiptNumber),
		"- Alamat: " + escape(d.Address),
		"💳 *Rekening:*",
		"- Bank: " + escape(d.BankName),
		"- No. Rek: " + escape(d.BankAccountNumber),
		"- Atas Nama: " + escape(d.BankAccountHolder),
		"✅ *Status Konfirmasi:* " + consent,
	}
	return strings.Join(lines, "\n")
}

// escape trims v and neutralises legacy Markdown entity characters.
func escape(v string) string {
	return markdownEscaper.Replace(strings.TrimSpace(v))
}

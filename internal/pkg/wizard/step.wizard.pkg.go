package wizard

// Step is one page of the form and the fields it needs before moving on.
type Step struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Required []Field `json:"required"`
}

// DefaultSteps is the five-page refund form. requireInstitution toggles the
// bank selector on the payout page.
func DefaultSteps(requireInstitution bool) []Step {
	payout := []Field{FieldBankAccountNumber, FieldBankAccountHolder}
	if requireInstitution {
		payout = append([]Field{FieldBankName}, payout...)
	}

	return []Step{
		{ID: 1, Title: "Biodata", Required: []Field{FieldFullName, FieldPhoneNumber}},
		{ID: 2, Title: "Pesanan", Required: []Field{FieldReceiptNumber, FieldAddress}},
		{ID: 3, Title: "Rekening", Required: payout},
		{ID: 4, Title: "Bukti", Required: []Field{FieldAttachment}},
		{ID: 5, Title: "Konfirmasi", Required: []Field{FieldAgreed}},
	}
}

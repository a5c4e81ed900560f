package wizard

import (
	"strings"

	types "refund-relay/internal/common/type"
)

// Field names a Draft value. The names double as the JSON keys of the
// session API.
type Field string

const (
	FieldFullName          Field = "fullName"
	FieldPhoneNumber       Field = "phoneNumber"
	FieldReceiptNumber     Field = "receiptNumber"
	FieldAddress           Field = "address"
	FieldBankName          Field = "bankName"
	FieldBankAccountNumber Field = "bankAccountNumber"
	FieldBankAccountHolder Field = "bankAccountHolder"
	FieldAgreed            Field = "agreed"
	FieldAttachment        Field = "attachment"
)

// Draft is the in-progress refund request. It only lives in memory.
type Draft struct {
	FullName          string              `json:"fullName"`
	PhoneNumber       string              `json:"phoneNumber"`
	ReceiptNumber     string              `json:"receiptNumber"`
	Address           string              `json:"address"`
	BankName          string              `json:"bankName"`
	BankAccountNumber string              `json:"bankAccountNumber"`
	BankAccountHolder string              `json:"bankAccountHolder"`
	Agreed            bool                `json:"agreed"`
	Attachment        *types.BufferedFile `json:"attachment,omitempty"`
}

// text returns a pointer to the string slot for f, nil for non-text fields.
func (d *Draft) text(f Field) *string {
	switch f {
	case FieldFullName:
		return &d.FullName
	case FieldPhoneNumber:
		return &d.PhoneNumber
	case FieldReceiptNumber:
		return &d.ReceiptNumber
	case FieldAddress:
		return &d.Address
	case FieldBankName:
		return &d.BankName
	case FieldBankAccountNumber:
		return &d.BankAccountNumber
	case FieldBankAccountHolder:
		return &d.BankAccountHolder
	}
	return nil
}

// filled reports whether f holds a usable value: non-blank text, a
// non-empty attachment, or consent given.
func (d *Draft) filled(f Field) bool {
	switch f {
	case FieldAgreed:
		return d.Agreed
	case FieldAttachment:
		return d.Attachment.HasContent()
	}
	if p := d.text(f); p != nil {
		return strings.TrimSpace(*p) != ""
	}
	return false
}

// Settable reports whether SetField accepts f. The attachment has its own
// setter.
func (f Field) Settable() bool {
	if f == FieldAgreed {
		return true
	}
	var d Draft
	return d.text(f) != nil
}

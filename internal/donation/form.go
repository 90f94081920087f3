// Package donation implements the donation intake flow: the form aggregate
// with its ordered validation rules, the submission state machine, the
// per-client session registry and the provider error classifier.
package donation

import (
	"strconv"

	"github.com/adotapet/adotapet-backend/internal/fields"
)

// Beneficiary is the organization selected to receive the donation.
type Beneficiary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PixKey      string `json:"pix_key"`
	Description string `json:"description"`
}

// Request is the validated aggregate handed to the gateway orchestrator.
// It exists only in memory for the lifetime of a form session.
type Request struct {
	Beneficiary      Beneficiary
	AmountMinorUnits int64
	DonorName        string
	DonorEmail       string
	DonorPhone       string // canonical digits
	DonorTaxID       string // canonical digits
}

// Violation is a single human-readable validation failure. Callers display
// only the first one; the full ordered list is kept computable for tests.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// User-facing validation messages, in the order the form surfaces them.
const (
	MsgSelectBeneficiary = "Selecione uma organização para doar"
	MsgInvalidAmount     = "Informe um valor entre R$ 1,00 e R$ 999.999,99"
	MsgInvalidName       = "Informe seu nome completo"
	MsgInvalidEmail      = "Informe um e-mail válido"
	MsgMissingPhone      = "Informe seu telefone"
	MsgInvalidTaxID      = "CPF inválido"
	MsgInvalidPhone      = "Telefone inválido"
)

// Form holds the current field values of one donation session. Field setters
// normalize eagerly on every update so display and canonical forms never
// diverge; validation runs only on submit.
type Form struct {
	Beneficiary   *Beneficiary
	AmountDisplay string
	amountMinor   int64
	Name          string
	Email         string
	Phone         string // masked display form
	TaxID         string // masked display form
}

func NewForm() *Form {
	return &Form{}
}

// SetAmountText normalizes free-text currency input.
func (f *Form) SetAmountText(raw string) {
	f.AmountDisplay = fields.FormatCurrency(raw)
	f.amountMinor = fields.ParseCurrencyToMinorUnits(f.AmountDisplay)
}

// SetAmountPreset takes a preset amount in centavos.
func (f *Form) SetAmountPreset(minorUnits int64) {
	f.amountMinor = minorUnits
	f.AmountDisplay = fields.FormatCurrency(toDigitString(minorUnits))
}

func (f *Form) SetName(raw string)  { f.Name = fields.SanitizeName(raw) }
func (f *Form) SetEmail(raw string) { f.Email = fields.SanitizeEmail(raw) }
func (f *Form) SetPhone(raw string) { f.Phone = fields.FormatPhone(raw) }
func (f *Form) SetTaxID(raw string) { f.TaxID = fields.FormatTaxID(raw) }

func (f *Form) SetBeneficiary(b *Beneficiary) { f.Beneficiary = b }

// AmountMinorUnits returns the canonical amount in centavos.
func (f *Form) AmountMinorUnits() int64 { return f.amountMinor }

// Validate runs the validators in fixed priority order and returns every
// violation found. The ordering is a UX decision: the cheapest and most
// likely missing fields surface first.
func (f *Form) Validate() []Violation {
	var out []Violation
	if f.Beneficiary == nil {
		out = append(out, Violation{Field: "beneficiary", Message: MsgSelectBeneficiary})
	}
	if !fields.IsValidAmount(f.amountMinor) {
		out = append(out, Violation{Field: "amount", Message: MsgInvalidAmount})
	}
	if !fields.IsValidName(f.Name) {
		out = append(out, Violation{Field: "name", Message: MsgInvalidName})
	}
	if !fields.IsValidEmail(f.Email) {
		out = append(out, Violation{Field: "email", Message: MsgInvalidEmail})
	}
	phone := fields.ToDigits(f.Phone)
	if phone == "" {
		out = append(out, Violation{Field: "phone", Message: MsgMissingPhone})
	}
	taxID := fields.ToDigits(f.TaxID)
	if !fields.IsValidTaxID(taxID) {
		out = append(out, Violation{Field: "tax_id", Message: MsgInvalidTaxID})
	}
	if phone != "" && !fields.IsValidPhone(phone) {
		out = append(out, Violation{Field: "phone", Message: MsgInvalidPhone})
	}
	return out
}

// Request builds the canonical aggregate for submission. Call only after
// Validate returns no violations.
func (f *Form) Request() *Request {
	return &Request{
		Beneficiary:      *f.Beneficiary,
		AmountMinorUnits: f.amountMinor,
		DonorName:        f.Name,
		DonorEmail:       f.Email,
		DonorPhone:       fields.ToDigits(f.Phone),
		DonorTaxID:       fields.ToDigits(f.TaxID),
	}
}

func toDigitString(minorUnits int64) string {
	if minorUnits < 0 {
		return ""
	}
	return strconv.FormatInt(minorUnits, 10)
}

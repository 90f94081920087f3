package models

import (
	"time"
)

// Donor carries the canonical (digits-only where applicable) personal data
// collected on the donation form.
type Donor struct {
	FullName string `bson:"donor_name" json:"donor_name"`
	Email    string `bson:"donor_email" json:"donor_email"`
	Phone    string `bson:"donor_phone" json:"donor_phone"`
	TaxID    string `bson:"donor_tax_id" json:"donor_tax_id"`
}

// PixCharge is the result of a successful submission: everything the client
// needs to render and redeem the PIX payment. Never mutated after creation.
type PixCharge struct {
	ChargeID         string    `json:"charge_id"`
	QRImageData      string    `json:"qr_image_data"` // base64 PNG from the provider
	CopyPasteCode    string    `json:"copy_paste_code"`
	AmountMinorUnits int64     `json:"amount_minor_units"`
	BeneficiaryName  string    `json:"beneficiary_name"`
	DueAt            time.Time `json:"due_at"`
}

// DonationRecord is the write-once document persisted after a successful
// gateway run. PaymentStatus is the only field touched afterwards, and only
// by the provider webhook.
type DonationRecord struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	BeneficiaryID    string    `bson:"beneficiary_id" json:"beneficiary_id"`
	BeneficiaryName  string    `bson:"beneficiary_name" json:"beneficiary_name"`
	DonorName        string    `bson:"donor_name" json:"donor_name"`
	DonorEmail       string    `bson:"donor_email" json:"donor_email"`
	DonorPhone       string    `bson:"donor_phone" json:"donor_phone"`
	DonorTaxID       string    `bson:"donor_tax_id" json:"donor_tax_id"`
	AmountMinorUnits int64     `bson:"amount_minor_units" json:"amount_minor_units"`
	PixKey           string    `bson:"pix_key" json:"pix_key"`
	ChargeID         string    `bson:"charge_id" json:"charge_id"`
	QRImageData      string    `bson:"qr_image_data" json:"qr_image_data"`
	CopyPasteCode    string    `bson:"copy_paste_code" json:"copy_paste_code"`
	PaymentStatus    string    `bson:"payment_status" json:"payment_status"` // PENDING, RECEIVED, CONFIRMED, OVERDUE
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// ChargeJournal records a provider charge that exists remotely before the
// donation document is written. If the final persist fails, the journal entry
// is what operators reconcile against.
type ChargeJournal struct {
	ChargeID          string    `bson:"charge_id" json:"charge_id"`
	BeneficiaryID     string    `bson:"beneficiary_id" json:"beneficiary_id"`
	ExternalReference string    `bson:"external_reference" json:"external_reference"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}

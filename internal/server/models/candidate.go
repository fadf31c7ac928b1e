package models

// FileUpload is a pitch-deck file as received from the client.
type FileUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

// Candidate is an entry submission before validation and payment checks.
// It deliberately has no fee fields: amounts come from the payment intent.
type Candidate struct {
	OwnerID         string
	Category        Category
	EntryType       EntryType
	Title           string
	Description     string
	TextContent     string
	VideoURL        string
	File            *FileUpload
	PaymentIntentID string
}

// IntentQuote is what the client needs to complete a payment.
type IntentQuote struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Fees
}

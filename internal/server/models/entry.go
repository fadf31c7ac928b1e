// Package models defines the server-side data model of contest entries.
package models

import "time"

type Category string

const (
	CategoryBusiness     Category = "business"
	CategoryCreative     Category = "creative"
	CategoryTechnology   Category = "technology"
	CategorySocialImpact Category = "social-impact"
)

// Categories lists every accepted category.
var Categories = []Category{CategoryBusiness, CategoryCreative, CategoryTechnology, CategorySocialImpact}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type EntryType string

const (
	EntryTypeText      EntryType = "text"
	EntryTypePitchDeck EntryType = "pitch-deck"
	EntryTypeVideo     EntryType = "video"
)

var EntryTypes = []EntryType{EntryTypeText, EntryTypePitchDeck, EntryTypeVideo}

func (t EntryType) Valid() bool {
	for _, v := range EntryTypes {
		if t == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

type ReviewStatus string

const (
	ReviewSubmitted   ReviewStatus = "submitted"
	ReviewUnderReview ReviewStatus = "under-review"
	ReviewFinalist    ReviewStatus = "finalist"
	ReviewWinner      ReviewStatus = "winner"
	ReviewRejected    ReviewStatus = "rejected"
)

// Fees are whole currency units. TotalAmount is always EntryFee + ProcessingFee.
type Fees struct {
	EntryFee      int64 `json:"entryFee"`
	ProcessingFee int64 `json:"processingFee"`
	TotalAmount   int64 `json:"totalAmount"`
}

// FileRef describes a stored pitch-deck payload. Data is only filled when the
// caller explicitly asked for the payload.
type FileRef struct {
	Ref      string `json:"-"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Data     []byte `json:"data,omitempty"`
}

// Entry is a persisted contest submission. Exactly one of TextContent,
// File and VideoURL is populated, matching EntryType.
type Entry struct {
	ID              string        `json:"id"`
	OwnerID         string        `json:"ownerId"`
	Category        Category      `json:"category"`
	EntryType       EntryType     `json:"entryType"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	TextContent     string        `json:"textContent,omitempty"`
	VideoURL        string        `json:"videoUrl,omitempty"`
	File            *FileRef      `json:"file,omitempty"`
	Fees                          // flattened into entryFee/processingFee/totalAmount
	PaymentIntentID string        `json:"paymentIntentId"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	ReviewStatus    ReviewStatus  `json:"reviewStatus"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// WithoutPayload returns a shallow copy with file bytes dropped.
func (e *Entry) WithoutPayload() *Entry {
	c := *e
	if e.File != nil {
		f := *e.File
		f.Data = nil
		c.File = &f
	}
	return &c
}

// Package validation holds the entry content rules. Validation is a pure
// function of the candidate: it never talks to the store or the payment
// provider, and it reports every failed rule rather than the first one.
package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
)

const (
	MinTitleLength       = 5
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
	MinWords             = 100
	MaxWords             = 2000
	MaxFileSize          = 25 << 20
)

const (
	MimePDF  = "application/pdf"
	MimePPT  = "application/vnd.ms-powerpoint"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

var allowedMimeTypes = map[string]struct{}{MimePDF: {}, MimePPT: {}, MimePPTX: {}}

var mimeByExtension = map[string]string{".pdf": MimePDF, ".ppt": MimePPT, ".pptx": MimePPTX}

// The host must end right after the domain so look-alikes such as
// youtube.com.evil.net do not pass.
var videoURLPattern = regexp.MustCompile(`(?i)^(https?://)?(www\.)?(youtube\.com|youtu\.be|vimeo\.com)([/?#:]|$)`)

// ValidationError lists every rule a candidate failed.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return common.ErrValidation.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

type collector struct {
	reasons []string
}

func (c *collector) fail(format string, args ...any) {
	c.reasons = append(c.reasons, fmt.Sprintf(format, args...))
}

// Validate checks c against all entry rules and returns nil or a
// *ValidationError.
func Validate(c *models.Candidate) error {
	var v collector

	required := []struct {
		name  string
		value string
	}{
		{"ownerId", c.OwnerID},
		{"category", string(c.Category)},
		{"entryType", string(c.EntryType)},
		{"title", c.Title},
		{"paymentIntentId", c.PaymentIntentID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.fail("%s is required", r.name)
		}
	}

	if c.Category != "" && !c.Category.Valid() {
		v.fail("category %q is not supported", c.Category)
	}
	if c.EntryType != "" && !c.EntryType.Valid() {
		v.fail("entryType %q is not supported", c.EntryType)
	}

	if title := strings.TrimSpace(c.Title); title != "" {
		if n := utf8.RuneCountInString(title); n < MinTitleLength || n > MaxTitleLength {
			v.fail("title must be between %d and %d characters", MinTitleLength, MaxTitleLength)
		}
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLength {
		v.fail("description must be at most %d characters", MaxDescriptionLength)
	}

	hasText := strings.TrimSpace(c.TextContent) != ""
	hasVideo := strings.TrimSpace(c.VideoURL) != ""
	hasFile := c.File != nil

	switch c.EntryType {
	case models.EntryTypeText:
		if !hasText {
			v.fail("textContent is required for text entries")
		} else if n := WordCount(c.TextContent); n < MinWords || n > MaxWords {
			v.fail("textContent must contain between %d and %d words, got %d", MinWords, MaxWords, n)
		}
		if hasVideo || hasFile {
			v.fail("text entries must not carry a file or video URL")
		}
	case models.EntryTypePitchDeck:
		if !hasFile {
			v.fail("a file is required for pitch-deck entries")
		} else {
			for _, r := range CheckFile(c.File.Name, c.File.MimeType, int64(len(c.File.Data))) {
				v.fail("%s", r)
			}
		}
		if hasText || hasVideo {
			v.fail("pitch-deck entries must not carry text content or a video URL")
		}
	case models.EntryTypeVideo:
		if !hasVideo {
			v.fail("videoUrl is required for video entries")
		} else if !ValidVideoURL(c.VideoURL) {
			v.fail("videoUrl must be a YouTube or Vimeo link")
		}
		if hasText || hasFile {
			v.fail("video entries must not carry text content or a file")
		}
	}

	if len(v.reasons) > 0 {
		return &ValidationError{Reasons: v.reasons}
	}
	return nil
}

// WordCount counts whitespace-separated, non-empty tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ValidVideoURL reports whether u points at YouTube or Vimeo.
func ValidVideoURL(u string) bool {
	return videoURLPattern.MatchString(strings.TrimSpace(u))
}

// CheckFile returns the failed file rules; nil means the file is acceptable.
func CheckFile(name, mimeType string, size int64) []string {
	var reasons []string
	if size == 0 {
		reasons = append(reasons, "file is empty")
	}
	if size > MaxFileSize {
		reasons = append(reasons, fmt.Sprintf("file must be at most %d bytes", MaxFileSize))
	}
	if _, ok := allowedMimeTypes[MimeTypeFor(name, mimeType)]; !ok {
		reasons = append(reasons, "file must be a PDF, PPT or PPTX document")
	}
	return reasons
}

// MimeTypeFor returns the declared mime type, or one inferred from the file
// extension when the transport sent none or a generic binary type.
func MimeTypeFor(name, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return mimeByExtension[strings.ToLower(filepath.Ext(name))]
}

package rest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/metrics"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
)

// multipartOverhead is allowed on top of the (encoded) file size limit for the
// other fields and framing.
const multipartOverhead = 1 << 20

type createIntentRequest struct {
	Category  models.Category  `json:"category"`
	EntryType models.EntryType `json:"entryType"`
}

type filePayload struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// submitEntryRequest carries no fee fields; any the client sends are dropped
// by the decoder.
type submitEntryRequest struct {
	OwnerID         string           `json:"ownerId"`
	Category        models.Category  `json:"category"`
	EntryType       models.EntryType `json:"entryType"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	TextContent     string           `json:"textContent"`
	VideoURL        string           `json:"videoUrl"`
	File            *filePayload     `json:"file"`
	PaymentIntentID string           `json:"paymentIntentId"`
}

type deleteEntryRequest struct {
	OwnerID string `json:"ownerId"`
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: malformed JSON body: %w", common.ErrInvalidInput, err)
	}
	return nil
}

func (s *HTTPServer) createIntent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, smallBodyLimit)

	var req createIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	quote, err := s.deps.Intents.CreateIntent(r.Context(), req.Category, req.EntryType)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *HTTPServer) submitEntry(w http.ResponseWriter, r *http.Request) {
	var (
		c   *models.Candidate
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, s.deps.MaxUploadSize+multipartOverhead)
		c, err = s.candidateFromMultipart(r)
	} else {
		// file.data travels base64-encoded in JSON bodies
		r.Body = http.MaxBytesReader(w, r.Body, int64(base64.StdEncoding.EncodedLen(int(s.deps.MaxUploadSize)))+multipartOverhead)
		c, err = candidateFromJSON(r)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	id, err := s.deps.Submissions.Submit(r.Context(), c)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"entryId": id})
}

func candidateFromJSON(r *http.Request) (*models.Candidate, error) {
	var req submitEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	c := &models.Candidate{
		OwnerID:         req.OwnerID,
		Category:        req.Category,
		EntryType:       req.EntryType,
		Title:           req.Title,
		Description:     req.Description,
		TextContent:     req.TextContent,
		VideoURL:        req.VideoURL,
		PaymentIntentID: req.PaymentIntentID,
	}
	if req.File != nil {
		c.File = &models.FileUpload{Name: req.File.Name, MimeType: req.File.MimeType, Data: req.File.Data}
	}
	return c, nil
}

func (s *HTTPServer) candidateFromMultipart(r *http.Request) (*models.Candidate, error) {
	if err := r.ParseMultipartForm(s.deps.MaxUploadSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: malformed multipart body", common.ErrInvalidInput)
	}
	defer r.MultipartForm.RemoveAll()

	c := &models.Candidate{
		OwnerID:         r.FormValue("ownerId"),
		Category:        models.Category(r.FormValue("category")),
		EntryType:       models.EntryType(r.FormValue("entryType")),
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		TextContent:     r.FormValue("textContent"),
		VideoURL:        r.FormValue("videoUrl"),
		PaymentIntentID: r.FormValue("paymentIntentId"),
	}

	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable file part", common.ErrInvalidInput)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable file part", common.ErrInvalidInput)
	}
	c.File = &models.FileUpload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}
	return c, nil
}

func (s *HTTPServer) listEntries(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Entries.ListByOwner(r.Context(), r.PathValue("ownerId"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getEntry(w http.ResponseWriter, r *http.Request) {
	includePayload := false
	if raw := r.URL.Query().Get("includePayload"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeServiceError(w, r, fmt.Errorf("%w: includePayload must be a boolean", common.ErrInvalidInput))
			return
		}
		includePayload = v
	}

	e, err := s.deps.Entries.Get(r.Context(), r.PathValue("id"), includePayload)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *HTTPServer) downloadEntry(w http.ResponseWriter, r *http.Request) {
	f, err := s.deps.Entries.Download(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	contentType := f.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": f.Name}))
	w.WriteHeader(http.StatusOK)
	w.Write(f.Data)
}

func (s *HTTPServer) deleteEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, smallBodyLimit)

	var req deleteEntryRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
			s.writeServiceError(w, r, err)
			return
		}
	}
	if req.OwnerID == "" {
		req.OwnerID = r.URL.Query().Get("ownerId")
	}
	if strings.TrimSpace(req.OwnerID) == "" {
		s.writeServiceError(w, r, common.ErrMissingField)
		return
	}

	if err := s.deps.Entries.Delete(r.Context(), r.PathValue("id"), req.OwnerID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// paymentWebhook answers 200 for every correctly signed event, even when
// applying it fails; the failure is logged and counted instead.
func (s *HTTPServer) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	if s.deps.WebhookSecret == "" {
		s.writeServiceError(w, r, common.ErrPaymentsNotConfigured)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, smallBodyLimit))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	ev, err := payments.VerifyEvent(payload, r.Header.Get(common.StripeSignatureHeader), s.deps.WebhookSecret)
	if err != nil {
		s.logger.Warn(r.Context(), "webhook rejected", "error", err, "request_id", requestID(r.Context()))
		writeError(w, http.StatusBadRequest, common.ErrWebhookSignature.Error())
		return
	}

	switch ev.Type {
	case payments.EventPaymentFailed:
		if err := s.deps.Reconciler.OnPaymentFailed(r.Context(), ev.ID, ev.PaymentIntentID); err != nil {
			s.logger.Error(r.Context(), "webhook reconciliation failed", "event_id", ev.ID, "payment_intent_id", ev.PaymentIntentID, "error", err)
		}
	default:
		metrics.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
		s.logger.Debug(r.Context(), "webhook event ignored", "event_id", ev.ID, "type", ev.Type)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Payments string `json:"payments"`
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Database: "memory", Payments: "configured"}

	if s.deps.StoreCheck != nil {
		switch err := s.deps.StoreCheck(r.Context()); {
		case err == nil:
			resp.Database = "up"
		case errors.Is(err, common.ErrStoreNotConfigured):
			resp.Database = "not_configured"
		default:
			resp.Database = "down"
		}
	}
	if !s.deps.PaymentsConfigured {
		resp.Payments = "not_configured"
	}
	if resp.Database == "down" || resp.Database == "not_configured" || resp.Payments != "configured" {
		resp.Status = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

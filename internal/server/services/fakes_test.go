package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/contestentries/internal/common"
	"github.com/dmitrijs2005/contestentries/internal/server/blobs"
	"github.com/dmitrijs2005/contestentries/internal/server/models"
	"github.com/dmitrijs2005/contestentries/internal/server/payments"
	"github.com/dmitrijs2005/contestentries/internal/server/store"
)

// fakeGateway is an in-memory payment provider.
type fakeGateway struct {
	mu        sync.Mutex
	intents   map[string]*payments.Intent
	seq       int
	createErr error
	getErr    error
	lastReq   payments.IntentRequest
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{intents: map[string]*payments.Intent{}}
}

func (g *fakeGateway) CreateIntent(_ context.Context, req payments.IntentRequest) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.seq++
	id := fmt.Sprintf("pi_%d", g.seq)
	meta := map[string]string{}
	for k, v := range req.Metadata {
		meta[k] = v
	}
	g.intents[id] = &payments.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Status:       "requires_payment_method",
		Amount:       req.Amount,
		Currency:     req.Currency,
		Metadata:     meta,
	}
	g.lastReq = req
	return g.intents[id], nil
}

func (g *fakeGateway) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.getErr != nil {
		return nil, g.getErr
	}
	in, ok := g.intents[id]
	if !ok {
		return nil, common.ErrPaymentNotFound
	}
	c := *in
	return &c, nil
}

func (g *fakeGateway) setStatus(id, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id].Status = status
}

// put registers a succeeded intent with the given metadata.
func (g *fakeGateway) put(id string, category models.Category, entryType models.EntryType, entryFee, processingFee int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents[id] = &payments.Intent{
		ID:     id,
		Status: payments.StatusSucceeded,
		Amount: (entryFee + processingFee) * 100,
		Metadata: map[string]string{
			payments.MetaCategory:      string(category),
			payments.MetaEntryType:     string(entryType),
			payments.MetaEntryFee:      strconv.FormatInt(entryFee, 10),
			payments.MetaProcessingFee: strconv.FormatInt(processingFee, 10),
		},
	}
}

// failingStore fails Create, everything else goes to the embedded store.
type failingStore struct {
	store.EntryStore
	createErr error
}

func (f *failingStore) Create(context.Context, *models.Entry) (string, error) {
	return "", f.createErr
}

// countingBlobs wraps a blob store and records deletes.
type countingBlobs struct {
	blobs.Store
	deleted []string
	putErr  error
}

func (c *countingBlobs) Put(ctx context.Context, data []byte, meta blobs.Meta) (string, error) {
	if c.putErr != nil {
		return "", c.putErr
	}
	return c.Store.Put(ctx, data, meta)
}

func (c *countingBlobs) Delete(ctx context.Context, ref string) error {
	c.deleted = append(c.deleted, ref)
	return c.Store.Delete(ctx, ref)
}

var errBoom = errors.New("boom")

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func textCandidate(owner, intent string) *models.Candidate {
	return &models.Candidate{
		OwnerID:         owner,
		Category:        models.CategoryCreative,
		EntryType:       models.EntryTypeText,
		Title:           "A short story",
		TextContent:     words(150),
		PaymentIntentID: intent,
	}
}

func pdf(size int) []byte {
	b := make([]byte, size)
	copy(b, "%PDF-1.7\n")
	for i := 9; i < size; i++ {
		b[i] = byte(i % 251)
	}
	return b
}

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))
}

func TestWithCtxReturnsInjected(t *testing.T) {
	var buf bytes.Buffer
	injected := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := InjectLogger(context.Background(), injected)
	WithCtx(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=abc")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestNewHandlerProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "production")).Info("ready", "port", "8080")

	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
	assert.Contains(t, buf.String(), `"port":"8080"`)
}

func TestNewHandlerProductionDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "prod")).Debug("noise")
	assert.Empty(t, buf.String())
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	slog.New(h).With("k", "v").Info("both")

	assert.Contains(t, a.String(), "k=v")
	assert.Contains(t, b.String(), `"k":"v"`)
}

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]interface{}
}

func (f *fakeWriter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]interface{}(nil), docs...))
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeWriter) docs() []LogDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []LogDocument
	for _, b := range f.batches {
		for _, d := range b {
			out = append(out, d.(LogDocument))
		}
	}
	return out
}

func TestMongoDocumentLiftsDomainKeys(t *testing.T) {
	h := &MongoHandler{sink: &sink{}}
	scoped := h.WithAttrs([]slog.Attr{slog.String("request_id", "rid-1")}).(*MongoHandler)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "order placed", 0)
	r.AddAttrs(slog.String("order_id", "ORD-1"), slog.String("buyer_email", "a@b.com"), slog.Int("items", 2))

	doc := scoped.document(r)
	assert.Equal(t, "farmermarket", doc.Service)
	assert.Equal(t, "rid-1", doc.RequestID)
	assert.Equal(t, "ORD-1", doc.OrderID)
	assert.Equal(t, "a@b.com", doc.BuyerEmail)
	assert.EqualValues(t, 2, doc.Attrs["items"])
	assert.NotContains(t, doc.Attrs, "order_id")
}

func TestMongoDocumentGroupsAttrs(t *testing.T) {
	h := &MongoHandler{sink: &sink{}}
	grouped := h.WithGroup("lookup").(*MongoHandler)

	r := slog.NewRecord(time.Now(), slog.LevelWarn, "strategy failed", 0)
	r.AddAttrs(slog.String("strategy", "contains"), slog.String("order_id", "ORD-2"))

	doc := grouped.document(r)
	assert.Equal(t, "WARN", doc.Level)
	assert.Equal(t, "contains", doc.Attrs["lookup.strategy"])
	assert.Equal(t, "ORD-2", doc.Attrs["lookup.order_id"])
	assert.Empty(t, doc.OrderID)
}

func TestMongoCloseFlushesPending(t *testing.T) {
	w := &fakeWriter{}
	h := startMongoHandler(w, nil, MongoOptions{BatchSize: 100, FlushTick: time.Hour})

	log := slog.New(h)
	log.Info("one", "order_id", "ORD-1")
	log.Info("two")
	log.Debug("skipped")

	h.Close()
	h.Close()

	docs := w.docs()
	require.Len(t, docs, 2)
	assert.Equal(t, "one", docs[0].Msg)
	assert.Equal(t, "ORD-1", docs[0].OrderID)
}

func TestMongoFlushesFullBatches(t *testing.T) {
	w := &fakeWriter{}
	h := startMongoHandler(w, nil, MongoOptions{BatchSize: 2, FlushTick: time.Hour})
	defer h.Close()

	log := slog.New(h)
	log.Info("a")
	log.Info("b")

	require.Eventually(t, func() bool { return len(w.docs()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestMongoHandleNeverBlocks(t *testing.T) {
	s := &sink{queue: make(chan LogDocument, 3)}
	h := &MongoHandler{sink: s}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Handle(context.Background(), r))
	}
	assert.Len(t, s.queue, 3)
	assert.EqualValues(t, 2, h.Dropped())
}

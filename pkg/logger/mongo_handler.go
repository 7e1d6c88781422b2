package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "farmermarket"

// LogDocument is the shape written to MongoDB. Request, order and buyer keys
// are lifted out of attrs so support queries can filter on them directly.
type LogDocument struct {
	Time       time.Time `bson:"time"`
	Level      string    `bson:"level"`
	Msg        string    `bson:"msg"`
	Service    string    `bson:"service"`
	RequestID  string    `bson:"request_id,omitempty"`
	OrderID    string    `bson:"order_id,omitempty"`
	BuyerEmail string    `bson:"buyer_email,omitempty"`
	Attrs      bson.M    `bson:"attrs,omitempty"`
}

// docWriter is the part of *mongo.Collection the drain loop needs.
type docWriter interface {
	InsertMany(ctx context.Context, docs []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// MongoOptions tunes batching. Zero values take the defaults.
type MongoOptions struct {
	QueueSize int           // 4096
	BatchSize int           // 50
	FlushTick time.Duration // 2s
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.QueueSize <= 0 {
		o.QueueSize = 4096
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.FlushTick <= 0 {
		o.FlushTick = 2 * time.Second
	}
	return o
}

// sink is shared by every handler derived through WithAttrs/WithGroup.
type sink struct {
	w       docWriter
	client  *mongo.Client
	opts    MongoOptions
	queue   chan LogDocument
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

// MongoHandler is an slog.Handler that batches INFO and above into a MongoDB
// collection from a background goroutine. A full queue drops the record.
type MongoHandler struct {
	sink   *sink
	attrs  []slog.Attr
	groups []string
}

// NewMongoHandler connects to uri, ensures the lookup indexes and starts the
// drain loop. The caller must eventually call Close.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	col := client.Database(db).Collection(collection)
	_, err = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "time", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "time", Value: -1}}},
	})
	if err != nil {
		Warn("logger: mongo indexes not created", "error", err)
	}

	return startMongoHandler(col, client, MongoOptions{}), nil
}

func startMongoHandler(w docWriter, client *mongo.Client, opts MongoOptions) *MongoHandler {
	opts = opts.withDefaults()
	s := &sink{
		w:       w,
		client:  client,
		opts:    opts,
		queue:   make(chan LogDocument, opts.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.drain()
	return &MongoHandler{sink: s}
}

func (h *MongoHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelInfo }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	select {
	case h.sink.queue <- h.document(r):
	default:
		h.sink.dropped.Add(1)
	}
	return nil
}

// Dropped is the number of records discarded because the queue was full.
func (h *MongoHandler) Dropped() uint64 { return h.sink.dropped.Load() }

// document flattens handler and record attrs. Grouped keys are joined with
// dots; the lifted keys are only recognised outside groups.
func (h *MongoHandler) document(r slog.Record) LogDocument {
	doc := LogDocument{
		Time:    r.Time,
		Level:   r.Level.String(),
		Msg:     r.Message,
		Service: serviceName,
		Attrs:   bson.M{},
	}

	prefix := strings.Join(h.groups, ".")
	put := func(a slog.Attr) {
		v := a.Value.Resolve()
		if prefix == "" {
			switch a.Key {
			case "request_id":
				doc.RequestID = v.String()
				return
			case "order_id":
				doc.OrderID = v.String()
				return
			case "buyer_email":
				doc.BuyerEmail = v.String()
				return
			}
		}
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		doc.Attrs[key] = v.Any()
	}

	for _, a := range h.attrs {
		put(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(a)
		return true
	})
	if len(doc.Attrs) == 0 {
		doc.Attrs = nil
	}
	return doc
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func (s *sink) drain() {
	defer close(s.stopped)

	ticker := time.NewTicker(s.opts.FlushTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, s.opts.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// stderr only; logging here would feed back into the queue
		if _, err := s.w.InsertMany(ctx, batch); err != nil {
			fmt.Fprintf(stderr, "logger: mongo insert of %d records failed: %v\n", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-s.queue:
			batch = append(batch, doc)
			if len(batch) >= s.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			for len(s.queue) > 0 {
				batch = append(batch, <-s.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes pending records and disconnects. Safe to call more than once.
func (h *MongoHandler) Close() {
	s := h.sink
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		if s.client != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.client.Disconnect(ctx)
		}
	})
}

// MultiHandler fans out to multiple slog.Handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}

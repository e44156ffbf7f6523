package vectorize

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/motif-tracer/internal/config"
	"github.com/ironsheep/motif-tracer/internal/logging"
	"github.com/ironsheep/motif-tracer/internal/metrics"
	"github.com/ironsheep/motif-tracer/internal/store"
	"github.com/ironsheep/motif-tracer/internal/trace"
)

// memStore is an in-memory store.Store.
type memStore struct {
	docs map[string]string
	err  error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]string)}
}

func (m *memStore) Save(_ context.Context, svg string) (string, error) {
	if m.err != nil {
		return "", &store.StorageError{Op: "save", Err: m.err}
	}
	id := store.ID(svg)
	m.docs[id] = svg
	return id, nil
}

func (m *memStore) Load(_ context.Context, id string) (string, error) {
	if m.err != nil {
		return "", &store.StorageError{Op: "load", Err: m.err}
	}
	svg, ok := m.docs[id]
	if !ok {
		return "", &store.StorageError{Op: "load", Err: store.ErrNotFound}
	}
	return svg, nil
}

// badgePNG is a low-contrast 20x20 square on a 200x200 canvas.
func badgePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			v := uint8(200)
			if x >= 90 && x < 110 && y >= 90 && y < 110 {
				v = 150
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestService_Trace(t *testing.T) {
	var logs bytes.Buffer
	mem := newMemStore()
	svc := New(
		WithStore(mem),
		WithLogger(logging.NewWithWriter(&logs, slog.LevelDebug)),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
	)

	resp, res := svc.Trace(context.Background(), Request{Image: badgePNG(t), Source: "badge.png"})
	require.True(t, resp.OK, resp.Error)
	require.NotNil(t, res)

	assert.Len(t, resp.Badges, 1)
	assert.Empty(t, resp.Banners)
	assert.Equal(t, "solid", resp.Strategy)
	assert.Equal(t, store.ID(resp.SVG), resp.ID)
	assert.Equal(t, resp.SVG, mem.docs[resp.ID])
	assert.Empty(t, resp.StorageError)

	assert.Contains(t, logs.String(), "traced image")
	assert.Contains(t, logs.String(), "source=badge.png")

	svg, err := svc.Load(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.SVG, svg)
}

func TestService_Trace_Defaults(t *testing.T) {
	svc := New(WithDefaults(trace.Options{Layout: trace.LayoutFlat, Preset: trace.PresetOutline}))

	resp, res := svc.Trace(context.Background(), Request{Image: badgePNG(t)})
	require.True(t, resp.OK)
	assert.Equal(t, trace.StrategyOutline, res.Strategy)
	assert.Equal(t, trace.LayoutFlat, res.Layout)

	resp, res = svc.Trace(context.Background(), Request{Image: badgePNG(t), Preset: "detailed", Layout: "badges_banners"})
	require.True(t, resp.OK)
	assert.Equal(t, trace.StrategyDetailed, res.Strategy)
	assert.Equal(t, trace.LayoutBadgesBanners, res.Layout)
}

func TestService_Trace_DecodeError(t *testing.T) {
	var logs bytes.Buffer
	mem := newMemStore()
	svc := New(WithStore(mem), WithLogger(logging.NewWithWriter(&logs, slog.LevelInfo)))

	resp, res := svc.Trace(context.Background(), Request{Image: []byte("nope")})
	assert.False(t, resp.OK)
	assert.Nil(t, res)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, mem.docs)
	assert.Contains(t, logs.String(), "could not be decoded")
}

func TestService_Trace_EmptyNotStored(t *testing.T) {
	mem := newMemStore()
	svc := New(WithStore(mem))

	img := image.NewGray(image.Rect(0, 0, 50, 50))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	resp, _ := svc.Trace(context.Background(), Request{Image: buf.Bytes()})
	assert.True(t, resp.OK)
	assert.Equal(t, trace.EmptyResultWarning, resp.Warning)
	assert.Empty(t, resp.ID)
	assert.Empty(t, mem.docs)
}

func TestService_Trace_StorageFailureKeepsResult(t *testing.T) {
	mem := newMemStore()
	mem.err = errors.New("connection refused")
	svc := New(WithStore(mem))

	resp, _ := svc.Trace(context.Background(), Request{Image: badgePNG(t)})
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.SVG)
	assert.Empty(t, resp.ID)
	assert.True(t, strings.Contains(resp.StorageError, "connection refused"))
}

func TestService_Load(t *testing.T) {
	_, err := New().Load(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoStore)

	svc := New(WithStore(newMemStore()))
	assert.True(t, svc.HasStore())
	_, err = svc.Load(context.Background(), "0000000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDefaultsFromConfig(t *testing.T) {
	opts := DefaultsFromConfig(config.TraceConfig{
		Layout:  "flat",
		Preset:  "bogus",
		Ink:     "#ff0000",
		MaxSide: 512,
	})
	assert.Equal(t, trace.LayoutFlat, opts.Layout)
	assert.Equal(t, trace.PresetSolid, opts.Preset)
	assert.Equal(t, "#ff0000", opts.Ink)
	assert.Equal(t, 512, opts.MaxSide)
}

type pingStore struct {
	*memStore
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func TestService_Ping(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, New().Ping(ctx), "no store")
	assert.NoError(t, New(WithStore(newMemStore())).Ping(ctx), "store without Ping")
	assert.NoError(t, New(WithStore(pingStore{memStore: newMemStore()})).Ping(ctx))

	down := errors.New("connection refused")
	assert.ErrorIs(t, New(WithStore(pingStore{memStore: newMemStore(), err: down})).Ping(ctx), down)
}

package grid

import (
	"sync"

	"github.com/zjrosen/gridline/internal/engine"
	"github.com/zjrosen/gridline/internal/log"
	"github.com/zjrosen/gridline/internal/pubsub"
)

// Redraw is the payload published on every successful paint, so
// observers (status bar, debug overlays) can refresh without polling.
type Redraw struct {
	Header bool
	Left   float64
	Top    float64
}

// Bridge adapts scroll state and viewport config into render engine
// calls and owns the engine's lifecycle. The engine handle is a scoped
// resource: acquired in Initialize, exclusively owned here, and released
// exactly once in Dispose.
//
// Render failures never propagate: a failed paint is logged and the next
// input-triggered redraw retries naturally. The worst case is a stalled
// viewport, never a crash.
type Bridge struct {
	factory engine.Factory

	headerSurface  *engine.Surface
	contentSurface *engine.Surface

	// Drawing contexts are acquired lazily, once, and cached.
	headerCtx  engine.Context2D
	contentCtx engine.Context2D

	eng        engine.Engine
	totalWidth float64

	headerPainted bool
	ready         bool

	disposeOnce sync.Once

	events *pubsub.Broker[Redraw]
}

// NewBridge creates a bridge that will draw through the given surfaces.
func NewBridge(factory engine.Factory, headerSurface, contentSurface *engine.Surface) *Bridge {
	return &Bridge{
		factory:        factory,
		headerSurface:  headerSurface,
		contentSurface: contentSurface,
		events:         pubsub.NewBroker[Redraw](),
	}
}

// Events returns the redraw event broker.
func (b *Bridge) Events() *pubsub.Broker[Redraw] { return b.events }

// Ready reports whether the engine was constructed successfully. A
// false value after Initialize means the session is non-functional and
// the caller must reinitialize; there is no automatic retry.
func (b *Bridge) Ready() bool { return b.ready }

// TotalWidth returns the engine-reported content width, 0 when the
// engine is not ready. The engine is authoritative here; total height
// is computed locally by the mapper because of its precision demands.
func (b *Bridge) TotalWidth() float64 { return b.totalWidth }

// Initialize constructs the engine from the viewport config. A
// construction failure is logged and leaves the bridge not ready.
func (b *Bridge) Initialize(cfg Config) {
	ec := engine.NewTableConfig(
		cfg.Columns, cfg.Rows,
		cfg.CellWidth, cfg.CellHeight, cfg.HeaderHeight,
		cfg.VisibleWidth, cfg.VisibleHeight,
	)
	eng, err := b.factory(ec, cfg.SegmentSize)
	if err != nil {
		log.ErrorErr(log.CatEngine, "engine construction failed", err)
		b.ready = false
		return
	}
	b.eng = eng
	b.totalWidth = eng.TotalWidth()
	b.ready = true
	b.headerPainted = false
	log.Info(log.CatEngine, "engine initialized", "totalWidth", b.totalWidth)
}

// Reconfigure tears down the current engine and constructs a new one
// for a changed config (host resize). Surfaces are resized to match.
func (b *Bridge) Reconfigure(cfg Config) {
	if b.eng != nil {
		b.eng.Dispose()
		b.eng = nil
		b.ready = false
	}
	if b.headerSurface != nil {
		b.headerSurface.Resize(cfg.VisibleWidth, cfg.HeaderHeight)
		b.headerCtx = nil
	}
	if b.contentSurface != nil {
		b.contentSurface.Resize(cfg.VisibleWidth, cfg.VisibleHeight)
		b.contentCtx = nil
	}
	b.Initialize(cfg)
}

// RenderHeader paints the header band at the given horizontal offset.
func (b *Bridge) RenderHeader(scrollLeft float64) {
	if !b.ready {
		return
	}
	if b.headerCtx == nil {
		ctx, err := b.headerSurface.Context()
		if err != nil {
			log.Debug(log.CatEngine, "header context unavailable", "error", err)
			return
		}
		b.headerCtx = ctx
	}
	if err := b.eng.RenderHeader(b.headerCtx, scrollLeft); err != nil {
		log.ErrorErr(log.CatEngine, "header paint failed", err, "scrollLeft", scrollLeft)
		return
	}
	b.headerPainted = true
	b.events.Publish(pubsub.RedrawEvent, Redraw{Header: true, Left: scrollLeft})
}

// RenderContent paints the visible cells. Guards: no-op when the engine
// is not ready or no surface is available; the header is painted first
// if it has never been, so header and content cannot diverge on first
// paint.
func (b *Bridge) RenderContent(scrollLeft, scrollTop float64) {
	if !b.ready {
		return
	}
	if b.contentCtx == nil {
		ctx, err := b.contentSurface.Context()
		if err != nil {
			log.Debug(log.CatEngine, "content context unavailable", "error", err)
			return
		}
		b.contentCtx = ctx
	}
	if !b.headerPainted {
		b.RenderHeader(scrollLeft)
	}
	if _, err := b.eng.ConfigureSurface(b.contentSurface, b.contentCtx); err != nil {
		log.ErrorErr(log.CatEngine, "surface configuration failed", err)
		return
	}
	if err := b.eng.RenderContent(b.contentCtx, scrollLeft, scrollTop); err != nil {
		log.ErrorErr(log.CatEngine, "content paint failed", err, "scrollLeft", scrollLeft, "scrollTop", scrollTop)
		return
	}
	b.events.Publish(pubsub.RedrawEvent, Redraw{Left: scrollLeft, Top: scrollTop})
}

// HeaderSurface returns the surface the header band is painted on.
func (b *Bridge) HeaderSurface() *engine.Surface { return b.headerSurface }

// ContentSurface returns the surface the cells are painted on.
func (b *Bridge) ContentSurface() *engine.Surface { return b.contentSurface }

// Dispose releases the engine exactly once. Tolerant of repeated calls.
func (b *Bridge) Dispose() {
	b.disposeOnce.Do(func() {
		if b.eng != nil {
			b.eng.Dispose()
			b.eng = nil
		}
		b.ready = false
		b.events.Close()
		log.Info(log.CatEngine, "bridge disposed")
	})
}

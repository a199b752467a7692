// Package extract turns noisy transcript text into validated booking
// fields. Each field has an ordered chain of strategies, cheapest first;
// a small runner walks the chain under per-strategy timeouts and stops at
// the first success.
package extract

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Result is the tagged outcome of one pipeline run. It is always returned
// by value to the state machine; no strategy error ever crosses the
// pipeline boundary.
type Result struct {
	OK     bool
	Value  string // normalized value: E.164 phone, "First Last", RFC3339 UTC time
	Layer  string // name of the strategy that produced the value
	Reason string // failure reason when !OK
}

// Success builds a successful Result.
func Success(value, layer string) Result {
	return Result{OK: true, Value: value, Layer: layer}
}

// Failed builds a failed Result.
func Failed(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// Strategy is one layer in an extractor's fallback chain. Extract returns
// the raw candidate and whether the layer produced one; it must respect
// ctx cancellation for any external call it makes.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, transcript string) (string, bool)
}

// Pipeline runs strategies in order until one yields a candidate that
// passes Normalize. Strategies that overrun LayerTimeout are abandoned
// and treated as failed.
type Pipeline struct {
	Field        string
	Layers       []Strategy
	Normalize    func(raw string) (string, bool)
	LayerTimeout time.Duration
	FailReason   string
	Logger       *zap.Logger
}

type layerOutcome struct {
	raw string
	ok  bool
}

// Run executes the chain against a transcript. First validated candidate
// wins; exhausting every layer yields Failed(FailReason).
func (p *Pipeline) Run(ctx context.Context, transcript string) Result {
	for _, layer := range p.Layers {
		raw, ok := p.runLayer(ctx, layer, transcript)
		if !ok {
			continue
		}
		value := raw
		if p.Normalize != nil {
			if value, ok = p.Normalize(raw); !ok {
				p.Logger.Debug("candidate rejected by validation",
					zap.String("field", p.Field),
					zap.String("layer", layer.Name()),
					zap.String("candidate", raw))
				continue
			}
		}
		p.Logger.Info("extraction succeeded",
			zap.String("field", p.Field),
			zap.String("layer", layer.Name()))
		return Success(value, layer.Name())
	}
	return Failed(p.FailReason)
}

// runLayer executes a single strategy under the pipeline's timeout. The
// goroutine is abandoned on timeout rather than joined, so a stuck layer
// can never block the turn.
func (p *Pipeline) runLayer(ctx context.Context, layer Strategy, transcript string) (string, bool) {
	layerCtx := ctx
	cancel := context.CancelFunc(func() {})
	if p.LayerTimeout > 0 {
		layerCtx, cancel = context.WithTimeout(ctx, p.LayerTimeout)
	}
	defer cancel()

	done := make(chan layerOutcome, 1)
	go func() {
		// A strategy that panics must read as a failed layer, never take
		// down the process; this goroutine is outside any HTTP recovery.
		defer func() {
			if r := recover(); r != nil {
				p.Logger.Error("extraction layer panicked",
					zap.String("field", p.Field),
					zap.String("layer", layer.Name()),
					zap.Any("panic", r))
				done <- layerOutcome{}
			}
		}()
		raw, ok := layer.Extract(layerCtx, transcript)
		done <- layerOutcome{raw: raw, ok: ok}
	}()

	select {
	case out := <-done:
		return out.raw, out.ok
	case <-layerCtx.Done():
		p.Logger.Warn("extraction layer timed out",
			zap.String("field", p.Field),
			zap.String("layer", layer.Name()))
		return "", false
	}
}

// strategyFunc adapts a plain function to the Strategy interface.
type strategyFunc struct {
	name string
	fn   func(ctx context.Context, transcript string) (string, bool)
}

func (s strategyFunc) Name() string { return s.name }

func (s strategyFunc) Extract(ctx context.Context, transcript string) (string, bool) {
	return s.fn(ctx, transcript)
}

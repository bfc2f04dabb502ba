package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// FuncProvider delegates Fetch to Fn and counts calls.
type FuncProvider struct {
	NameVal string
	Fn      func(ctx context.Context, q providers.Query) ([]providers.Payload, error)
	Calls   atomic.Int32
}

func (p *FuncProvider) Name() string {
	if p.NameVal == "" {
		return "stub"
	}
	return p.NameVal
}

func (p *FuncProvider) Fetch(ctx context.Context, q providers.Query) ([]providers.Payload, error) {
	p.Calls.Add(1)
	if p.Fn == nil {
		return nil, nil
	}
	return p.Fn(ctx, q)
}

// Returning answers every query with payloads.
func Returning(payloads ...providers.Payload) func(context.Context, providers.Query) ([]providers.Payload, error) {
	return func(context.Context, providers.Query) ([]providers.Payload, error) {
		return payloads, nil
	}
}

// Failing answers every query with err.
func Failing(err error) func(context.Context, providers.Query) ([]providers.Payload, error) {
	return func(context.Context, providers.Query) ([]providers.Payload, error) {
		return nil, err
	}
}

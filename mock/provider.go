// Package mock provides test doubles for datasage interfaces using function fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/datasage"
)

// Interface compliance checks.
var (
	_ datasage.Provider  = (*Provider)(nil)
	_ datasage.Completer = (*Completer)(nil)
	_ datasage.Renderer  = (*Renderer)(nil)
)

// Provider is a test double for datasage.Provider.
// Set CompleteFn before calling Complete. NameFn is optional.
type Provider struct {
	NameFn     func() string
	CompleteFn func(ctx context.Context, req datasage.Request) (datasage.Completion, error)
}

// Name delegates to NameFn, returning "mock" when unset.
func (p *Provider) Name() string {
	if p.NameFn == nil {
		return "mock"
	}
	return p.NameFn()
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req datasage.Request) (datasage.Completion, error) {
	return p.CompleteFn(ctx, req)
}

// Completer is a test double for datasage.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, p datasage.Prompt) (datasage.Completion, error)
}

// Complete delegates to CompleteFn.
func (c *Completer) Complete(ctx context.Context, p datasage.Prompt) (datasage.Completion, error) {
	return c.CompleteFn(ctx, p)
}

// Renderer is a test double for datasage.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, out datasage.Output, w io.Writer) error
}

// Render delegates to RenderFn.
func (r *Renderer) Render(ctx context.Context, out datasage.Output, w io.Writer) error {
	return r.RenderFn(ctx, out, w)
}

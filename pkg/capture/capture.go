// Package capture turns a live system's state into a blueprint
// document. Producers inspect one aspect of the system each and fill in
// the document; Run strings them together over a fresh document.
package capture

import (
	"context"

	"github.com/jodiecunningham/blueprint/pkg/blueprint"
)

// Producer populates part of a blueprint document by inspecting the
// system. Producers must tolerate partially filled documents; Run calls
// them in order over the same document.
type Producer func(ctx context.Context, b *blueprint.Blueprint) error

// Run constructs a named document and applies each producer to it. The
// first producer error aborts the capture.
func Run(ctx context.Context, name string, producers ...Producer) (*blueprint.Blueprint, error) {
	b := blueprint.New(name)
	for _, produce := range producers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := produce(ctx, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Package cmd is a transport-agnostic command core: a command has a name, a
// description and Run(ctx, invocation). Registration and dispatch for a given
// transport (Discord slash commands, reactions) live in adapters.
package cmd

import "context"

// Invocation carries what an adapter passes to a command. Data holds the
// adapter's own context, e.g. a Discord interaction context.
type Invocation struct {
	Args []string
	Data any
}

type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}

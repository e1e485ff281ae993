package cmd

// Middleware wraps a command (logging, permission checks, metrics).
type Middleware func(Command) Command

// Apply applies middlewares in order, so the last one ends up outermost and
// runs first.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Package responder turns the pipeline's structured decision into the
// user-facing reply. All prose lives here; the chat pipeline itself only
// emits decisions.
package responder

import (
	"context"

	"staybot/models"
)

// Generator produces the reply text for one decision.
type Generator interface {
	Generate(ctx context.Context, decision models.Decision) (string, error)
}

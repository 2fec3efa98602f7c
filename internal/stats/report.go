// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Reactions []model.ReactionRecord
	Typing    []model.TypingRecord
	Reaction  ReactionSummary
	Rounds    TypingSummary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	reactions, err := st.ListReactions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	typing, err := st.ListTyping(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Reactions: reactions,
		Typing:    typing,
		Reaction:  SummarizeReactions(reactions, cfg.Window),
		Rounds:    SummarizeTyping(typing),
	}, nil
}

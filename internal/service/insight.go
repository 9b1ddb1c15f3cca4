package service

import (
	"context"
	"fmt"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/storage"
)

func ListInsights(ctx context.Context, repo storage.InsightRepository, user *internal.User, unreadOnly bool) ([]internal.HealthInsight, error) {
	return repo.ListInsights(ctx, user.ID, unreadOnly)
}

// ownedInsight loads an insight and checks it belongs to userID.
func ownedInsight(ctx context.Context, repo storage.InsightRepository, insightID, userID string) error {
	in, err := repo.GetInsight(ctx, insightID)
	if err != nil {
		return err
	}
	if in.UserID != userID {
		return fmt.Errorf("insight %s: %w", insightID, internal.ErrUnauthorized)
	}
	return nil
}

// MarkRead sets IsRead on an insight owned by userID. Repeating it is harmless.
func MarkRead(ctx context.Context, repo storage.InsightRepository, insightID, userID string) (*internal.HealthInsight, error) {
	if err := ownedInsight(ctx, repo, insightID, userID); err != nil {
		return nil, err
	}
	return repo.SetInsightFlags(ctx, insightID, true, false)
}

// MarkActionTaken sets both ActionTaken and IsRead on an insight owned by userID.
func MarkActionTaken(ctx context.Context, repo storage.InsightRepository, insightID, userID string) (*internal.HealthInsight, error) {
	if err := ownedInsight(ctx, repo, insightID, userID); err != nil {
		return nil, err
	}
	return repo.SetInsightFlags(ctx, insightID, true, true)
}

package notifications

import (
	"context"

	"github.com/leapscholar/perception-monitor/internal/models"
)

// NotificationInterface defines the contract for digest delivery
type NotificationInterface interface {
	SendDigest(ctx context.Context, snapshot *models.Snapshot) error
}

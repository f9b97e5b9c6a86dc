package services

import (
	"context"

	"github.com/skald-ai/skald-engine/pkg/models"
)

// DatasourceDirectory lists the datasources attached to a conversation.
// External collaborator; consulted only to decide whether a sync is needed.
type DatasourceDirectory interface {
	ListAttachedDatasources(ctx context.Context, conversationID string) ([]models.DatasourceRef, error)
}

// DatasourceSynchronizer reconciles engine-attached datasources with the
// conversation's datasource list before the catalog is read. Best-effort:
// listing proceeds even when sync fails.
type DatasourceSynchronizer interface {
	SyncDatasources(ctx context.Context, conversationID, workspace string, refs []models.DatasourceRef) error
}

// NoopSynchronizer satisfies DatasourceSynchronizer when the deployment has
// no foreign datasources to reconcile.
type NoopSynchronizer struct{}

func (NoopSynchronizer) SyncDatasources(context.Context, string, string, []models.DatasourceRef) error {
	return nil
}

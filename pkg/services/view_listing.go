package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/skald-ai/skald-engine/pkg/engine"
	"github.com/skald-ai/skald-engine/pkg/models"
	"github.com/skald-ai/skald-engine/pkg/repositories"
)

// CatalogResolver resolves the live engine catalog for a conversation.
type CatalogResolver func(ctx context.Context, conversationID, workspace string) (engine.CatalogLister, error)

// ListViewsRequest identifies the conversation whose views to list.
type ListViewsRequest struct {
	ConversationID string
	Workspace      string
	// ForceRefresh bypasses the cache and always recomputes, overwriting
	// the cached entry.
	ForceRefresh bool
}

// ListViewsResult is the merged, deduplicated view listing.
type ListViewsResult struct {
	Views   []models.ViewInfo `json:"views"`
	Message string            `json:"message"`
}

// ListingService merges the durable view registry with the engine's live
// catalog into a unified, cached listing.
type ListingService interface {
	ListViews(ctx context.Context, req ListViewsRequest) (*ListViewsResult, error)
}

type listingService struct {
	registryRepo   repositories.ViewRegistryRepository
	directory      DatasourceDirectory
	synchronizer   DatasourceSynchronizer
	resolveCatalog CatalogResolver
	cache          *ListingCache
	logger         *zap.Logger
}

// NewListingService creates a ListingService. directory and synchronizer
// may be nil, in which case datasource sync is skipped.
func NewListingService(
	registryRepo repositories.ViewRegistryRepository,
	directory DatasourceDirectory,
	synchronizer DatasourceSynchronizer,
	resolveCatalog CatalogResolver,
	cache *ListingCache,
	logger *zap.Logger,
) ListingService {
	if cache == nil {
		cache = NewListingCache(DefaultListingTTL, nil)
	}
	return &listingService{
		registryRepo:   registryRepo,
		directory:      directory,
		synchronizer:   synchronizer,
		resolveCatalog: resolveCatalog,
		cache:          cache,
		logger:         logger,
	}
}

// ListViews answers "what views exist" for a conversation. Every source is
// best-effort: sync, catalog, and registry failures are logged and the
// listing degrades to whichever sources succeeded. An empty result with a
// zero-count message is still a success.
func (s *listingService) ListViews(ctx context.Context, req ListViewsRequest) (*ListViewsResult, error) {
	cacheKey := req.ConversationID + ":" + req.Workspace

	if !req.ForceRefresh {
		if cached, ok := s.cache.Get(cacheKey); ok {
			return cached, nil
		}
	}

	conversationDir := filepath.Join(req.Workspace, req.ConversationID)

	s.syncDatasources(ctx, req)

	var catalogNames []string
	if s.resolveCatalog != nil {
		lister, err := s.resolveCatalog(ctx, req.ConversationID, req.Workspace)
		if err != nil {
			s.logger.Warn("failed to resolve engine catalog",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
		} else if names, err := lister.ListObjects(ctx); err != nil {
			s.logger.Warn("failed to list catalog objects",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
		} else {
			catalogNames = names
		}
	}

	registry, err := s.registryRepo.Load(ctx, conversationDir)
	if err != nil {
		s.logger.Warn("failed to load view registry",
			zap.String("conversation_dir", conversationDir),
			zap.Error(err))
		registry = nil
	}

	registryByName := make(map[string]*models.ViewRegistryRecord, len(registry))
	for i := range registry {
		registryByName[registry[i].ViewName] = &registry[i]
	}

	viewsByName := make(map[string]models.ViewInfo)

	for _, name := range catalogNames {
		if record, ok := registryByName[name]; ok {
			viewsByName[name] = registeredViewInfo(record)
		} else if strings.Contains(name, ".") {
			// Qualified name with no registry match: a table from an
			// attached database.
			viewsByName[name] = models.ViewInfo{
				ViewName:    name,
				DisplayName: name,
				Type:        models.ViewTypeAttachedTable,
			}
		} else {
			viewsByName[name] = models.ViewInfo{
				ViewName:    name,
				DisplayName: name,
				Type:        models.ViewTypeTable,
			}
		}
	}

	// Registry records with no backing catalog object still surface: a
	// just-imported source's view may not have materialized yet.
	for i := range registry {
		record := &registry[i]
		if _, ok := viewsByName[record.ViewName]; !ok {
			viewsByName[record.ViewName] = registeredViewInfo(record)
		}
	}

	views := make([]models.ViewInfo, 0, len(viewsByName))
	for _, v := range viewsByName {
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ViewName < views[j].ViewName
	})

	noun := "view"
	if len(views) != 1 {
		noun = inflection.Plural(noun)
	}
	result := &ListViewsResult{
		Views:   views,
		Message: fmt.Sprintf("Found %d available %s", len(views), noun),
	}

	s.cache.Put(cacheKey, result)
	return result, nil
}

func (s *listingService) syncDatasources(ctx context.Context, req ListViewsRequest) {
	if s.directory == nil || s.synchronizer == nil {
		return
	}

	refs, err := s.directory.ListAttachedDatasources(ctx, req.ConversationID)
	if err != nil {
		s.logger.Warn("failed to list attached datasources",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return
	}
	if len(refs) == 0 {
		return
	}

	if err := s.synchronizer.SyncDatasources(ctx, req.ConversationID, req.Workspace, refs); err != nil {
		s.logger.Warn("failed to sync datasources",
			zap.String("conversation_id", req.ConversationID),
			zap.Int("datasource_count", len(refs)),
			zap.Error(err))
	}
}

func registeredViewInfo(record *models.ViewRegistryRecord) models.ViewInfo {
	createdAt := record.CreatedAt
	updatedAt := record.UpdatedAt
	lastUsedAt := record.LastUsedAt
	return models.ViewInfo{
		ViewName:    record.ViewName,
		DisplayName: record.DisplayName,
		SharedLink:  record.SharedLink,
		Type:        models.ViewTypeView,
		Metadata: &models.ViewMetadata{
			CreatedAt:          &createdAt,
			UpdatedAt:          &updatedAt,
			LastUsedAt:         &lastUsedAt,
			DatasourceProvider: record.DatasourceProvider,
			DatasourceType:     record.DatasourceType,
		},
	}
}

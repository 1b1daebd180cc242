// Package catalog serves the category hierarchy and the category field
// schemas used to label auction specifications.
package catalog

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"ironbid/internal/domain"
	"ironbid/internal/redis/cache"
)

type categorySource interface {
	ParentCategoriesWithImages(ctx context.Context) ([]domain.Category, error)
	ParentCategories(ctx context.Context) ([]domain.Category, error)
	ChildCategories(ctx context.Context, parentSlug string) ([]domain.Category, error)
	CategoryFields(ctx context.Context, slug string) ([]domain.FieldSchema, error)
}

type ICatalogService interface {
	ParentsWithImages(ctx context.Context) []domain.Category
	Parents(ctx context.Context) []domain.Category
	Children(ctx context.Context, parent string) []domain.Category
	ResolveSelection(ctx context.Context, parent, sub string) []string
	Fields(ctx context.Context, slug string) ([]domain.FieldSchema, error)
}

type catalogService struct {
	remote categorySource
	cache  *cache.Cache
}

func NewCatalogService(remote categorySource, c *cache.Cache) ICatalogService {
	return &catalogService{remote: remote, cache: c}
}

func (svc *catalogService) ParentsWithImages(ctx context.Context) []domain.Category {
	return svc.list(ctx, "categories:parents:images", svc.remote.ParentCategoriesWithImages)
}

func (svc *catalogService) Parents(ctx context.Context) []domain.Category {
	return svc.list(ctx, "categories:parents", svc.remote.ParentCategories)
}

func (svc *catalogService) Children(ctx context.Context, parent string) []domain.Category {
	if parent == "" {
		return []domain.Category{}
	}
	return svc.list(ctx, "categories:"+parent+":children", func(ctx context.Context) ([]domain.Category, error) {
		return svc.remote.ChildCategories(ctx, parent)
	})
}

// ResolveSelection returns the category path for a parent/sub pair. A sub
// that is not a child of parent is dropped.
func (svc *catalogService) ResolveSelection(ctx context.Context, parent, sub string) []string {
	if parent == "" {
		return []string{}
	}
	if sub == "" {
		return []string{parent}
	}
	known := slices.ContainsFunc(svc.Children(ctx, parent), func(c domain.Category) bool {
		return c.Slug == sub
	})
	if !known {
		zap.L().Debug("catalog.unknown_subcategory", zap.String("parent", parent), zap.String("sub", sub))
		return []string{parent}
	}
	return []string{parent, sub}
}

// Fields returns the field schema of a category. Unlike the category lists
// the error is returned so callers can fall back to humanized labels.
func (svc *catalogService) Fields(ctx context.Context, slug string) ([]domain.FieldSchema, error) {
	return cache.GetOrLoad(ctx, svc.cache, "categories:"+slug+":fields", func(ctx context.Context) ([]domain.FieldSchema, error) {
		return svc.remote.CategoryFields(ctx, slug)
	})
}

func (svc *catalogService) list(ctx context.Context, key string, load func(context.Context) ([]domain.Category, error)) []domain.Category {
	cats, err := cache.GetOrLoad(ctx, svc.cache, key, load)
	if err != nil {
		zap.L().Warn("catalog.load", zap.String("key", key), zap.Error(err))
		return []domain.Category{}
	}
	if cats == nil {
		return []domain.Category{}
	}
	return cats
}

package remoteapi

import (
	"context"
	"net/http"
	"net/url"

	"ironbid/internal/domain"
)

// Commission returns the current commission configuration. A nil result
// with a nil error means the remote has no commission record.
func (c *Client) Commission(ctx context.Context) (*domain.Commission, error) {
	var out *domain.Commission
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/commissions"}, &out)
	return out, err
}

func (c *Client) ParentCategoriesWithImages(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/categories/public/parents/with-images"}, &out)
	return out, err
}

func (c *Client) ParentCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/v1/categories/public/parents"}, &out)
	return out, err
}

func (c *Client) ChildCategories(ctx context.Context, parentSlug string) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/v1/categories/public/" + url.PathEscape(parentSlug) + "/children",
	}, &out)
	return out, err
}

func (c *Client) CategoryFields(ctx context.Context, slug string) ([]domain.FieldSchema, error) {
	var out []domain.FieldSchema
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/v1/categories/public/by-slug/" + url.PathEscape(slug) + "/fields",
	}, &out)
	return out, err
}

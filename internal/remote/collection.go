package remote

import (
	"context"
	"net/url"

	"github.com/manav03panchal/jobtrack/internal/backend"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// Collection is a backend.Backend over one API resource.
type Collection[T model.Entity[T]] struct {
	client *Client
	path   string
}

// NewCollection creates a collection for the resource at path.
func NewCollection[T model.Entity[T]](client *Client, path string) *Collection[T] {
	return &Collection[T]{client: client, path: path}
}

// Applications returns the remote application collection.
func Applications(c *Client) *Collection[*model.Application] {
	return NewCollection[*model.Application](c, model.PathApplications)
}

// Events returns the remote event collection.
func Events(c *Client) *Collection[*model.Event] {
	return NewCollection[*model.Event](c, model.PathEvents)
}

// Problems returns the remote problem collection.
func Problems(c *Client) *Collection[*model.Problem] {
	return NewCollection[*model.Problem](c, model.PathProblems)
}

// Name identifies the backend in logs.
func (c *Collection[T]) Name() string {
	return "remote:" + c.path
}

// Load fetches every record the user owns.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.client.do(ctx, "GET", c.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Apply sends one change and returns the record as the server stored it.
// Updates send only the patch.
func (c *Collection[T]) Apply(ctx context.Context, change backend.Change[T]) (T, error) {
	var stored T

	switch change.Op {
	case backend.OpAdd:
		err := c.client.do(ctx, "POST", c.path, change.Item, &stored)
		return stored, err

	case backend.OpUpdate:
		var body any = change.Patch
		if body == nil {
			body = change.Item
		}
		err := c.client.do(ctx, "PATCH", c.itemPath(change.ID), body, &stored)
		return stored, err

	case backend.OpRemove:
		var ok struct {
			Success bool `json:"success"`
		}
		err := c.client.do(ctx, "DELETE", c.itemPath(change.ID), nil, &ok)
		return stored, err
	}
	return stored, backend.ErrUnknownOp
}

func (c *Collection[T]) itemPath(id string) string {
	return c.path + "/" + url.PathEscape(id)
}

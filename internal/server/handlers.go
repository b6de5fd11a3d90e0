package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// resource serves the CRUD routes of one record kind. P is the partial
// update type accepted by PATCH.
type resource[T model.Entity[T], P model.Patch[T]] struct {
	kind    string
	repo    Repository[T]
	newItem func() T
}

func (r *resource[T, P]) register(g *gin.RouterGroup, path string) {
	g.GET(path, r.list)
	g.POST(path, r.create)
	g.PATCH(path+"/:id", r.update)
	g.DELETE(path+"/:id", r.remove)
}

func (r *resource[T, P]) list(c *gin.Context) {
	items, err := r.repo.List(c.Request.Context(), currentUser(c))
	if err != nil {
		r.fail(c, "fetch", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (r *resource[T, P]) create(c *gin.Context) {
	item := r.newItem()
	if err := c.ShouldBindJSON(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	item.SetID(model.NewID())
	if err := item.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := r.repo.Create(c.Request.Context(), currentUser(c), item)
	if err != nil {
		r.fail(c, "create", err)
		return
	}

	logging.FromContext(c.Request.Context()).Info("record created",
		logging.KeyKind, r.kind,
		logging.KeyEntityID, created.GetID(),
	)
	c.JSON(http.StatusCreated, created)
}

func (r *resource[T, P]) update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	existing, ok := r.owned(c, id)
	if !ok {
		return
	}

	var patch P
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	patch.Apply(existing)
	existing.SetID(id)
	if err := existing.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := r.repo.Save(ctx, currentUser(c), existing)
	if err != nil {
		r.fail(c, "update", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (r *resource[T, P]) remove(c *gin.Context) {
	id := c.Param("id")
	if _, ok := r.owned(c, id); !ok {
		return
	}

	if err := r.repo.Delete(c.Request.Context(), id); err != nil {
		r.fail(c, "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// owned loads a record that belongs to the requesting user. Missing records
// and records of other users get the same 404 response.
func (r *resource[T, P]) owned(c *gin.Context, id string) (T, bool) {
	item, owner, found, err := r.repo.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, "fetch", err)
		return item, false
	}
	if !found || owner != currentUser(c) {
		if found {
			logging.FromContext(c.Request.Context()).Warn("access to foreign record denied",
				logging.KeyKind, r.kind,
				logging.KeyEntityID, id,
			)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": r.title() + " not found or access denied"})
		var zero T
		return zero, false
	}
	return item, true
}

func (r *resource[T, P]) fail(c *gin.Context, op string, err error) {
	logging.FromContext(c.Request.Context()).Error("repository failure",
		logging.KeyKind, r.kind,
		logging.KeyOperation, op,
		logging.KeyError, err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " " + r.kind})
}

func (r *resource[T, P]) title() string {
	return strings.ToUpper(r.kind[:1]) + r.kind[1:]
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

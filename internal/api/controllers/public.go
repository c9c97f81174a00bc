package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"eduport/internal/backend"
	"eduport/internal/resource"
)

// PublicController serves the marketing site's read-only projection:
// active records only, in display order. Soft-hidden rows never leave the
// backend here.
type PublicController struct {
	client  backend.Client
	catalog map[string]resource.Schema
}

func NewPublicController(client backend.Client, catalog map[string]resource.Schema) *PublicController {
	return &PublicController{client: client, catalog: catalog}
}

func (pc *PublicController) schemaFor(ctx echo.Context) (resource.Schema, error) {
	name := ctx.Param("resource")
	schema, ok := pc.catalog[name]
	if !ok {
		return resource.Schema{}, echo.NewHTTPError(http.StatusNotFound, "unknown resource")
	}
	return schema, nil
}

// List returns the active records of one resource in display order.
// Featured-only subsets are served with ?featured=true. Posts are further
// restricted to those already published.
func (pc *PublicController) List(ctx echo.Context) error {
	schema, err := pc.schemaFor(ctx)
	if err != nil {
		return err
	}

	filters := []backend.Filter{
		{Field: "is_active", Op: "=", Value: true},
	}
	if ctx.QueryParam("featured") == "true" && schema.HasFlag("is_featured") {
		filters = append(filters, backend.Filter{Field: "is_featured", Op: "=", Value: true})
	}
	if _, ok := schema.FieldByName("published_at"); ok {
		filters = append(filters, backend.Filter{Field: "published_at", Op: "<=", Value: time.Now()})
	}

	records, err := pc.client.Query(ctx.Request().Context(), schema.Resource, filters, backend.OrderBy{Field: schema.OrderField})
	if err != nil {
		// An unconfigured backend leaves the site browsable, just empty.
		if errors.Is(err, backend.ErrUnconfigured) {
			records = []backend.Record{}
		} else {
			return httpError(&resource.QueryError{Resource: schema.Resource, Err: err})
		}
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  records,
		"total": len(records),
	})
}

// Get returns one active record by id.
func (pc *PublicController) Get(ctx echo.Context) error {
	schema, err := pc.schemaFor(ctx)
	if err != nil {
		return err
	}

	filters := []backend.Filter{
		{Field: "is_active", Op: "=", Value: true},
		{Field: "id", Op: "=", Value: ctx.Param("id")},
	}
	records, err := pc.client.Query(ctx.Request().Context(), schema.Resource, filters, backend.OrderBy{Field: schema.OrderField})
	if err != nil {
		if errors.Is(err, backend.ErrUnconfigured) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return httpError(&resource.QueryError{Resource: schema.Resource, Err: err})
	}
	if len(records) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}

	return ctx.JSON(http.StatusOK, records[0])
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"eduport/internal/api/validator"
	"eduport/internal/backend"
	"eduport/internal/resource"
	console "eduport/internal/utils/logger"
)

var log = console.New("RESOURCES")

// ResourceController serves the uniform admin CRUD surface for every
// resource in the catalog. One controller, many stores; nothing here is
// specific to a single resource type.
type ResourceController struct {
	stores map[string]*resource.Store
}

// NewResourceController builds one store per catalog schema, all sharing
// the backend client and the notification sink.
func NewResourceController(client backend.Client, catalog map[string]resource.Schema, notify resource.Notifier) *ResourceController {
	stores := make(map[string]*resource.Store, len(catalog))
	for name, schema := range catalog {
		stores[name] = resource.NewStore(schema, client, notify)
	}
	return &ResourceController{stores: stores}
}

// Stores exposes the store map for reuse outside HTTP (export worker).
func (rc *ResourceController) Stores() map[string]*resource.Store {
	return rc.stores
}

func (rc *ResourceController) storeFor(ctx echo.Context) (*resource.Store, error) {
	name := ctx.Param("resource")
	store, ok := rc.stores[name]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown resource %q", name))
	}
	return store, nil
}

// List returns the full ordered collection, inactive records included.
func (rc *ResourceController) List(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}
	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}

	items := store.Items()
	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  items,
		"total": len(items),
	})
}

// Get returns one record by id.
func (rc *ResourceController) Get(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}
	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}

	rec, ok := store.Get(ctx.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return ctx.JSON(http.StatusOK, rec)
}

// Create opens a blank form session, merges the request body into it and
// commits.
func (rc *ResourceController) Create(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}

	var body map[string]interface{}
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	session := store.NewSession(nil)
	if err := session.Merge(body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := session.Commit(ctx.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusCreated, saved)
}

// Update opens a form session over the existing record, merges the body and
// commits. Nested JSON-text fields are parsed at session start and written
// back on commit.
func (rc *ResourceController) Update(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}
	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}

	existing, ok := store.Get(ctx.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}

	var body map[string]interface{}
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	session := store.NewSession(existing)
	if err := session.Merge(body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := session.Commit(ctx.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(http.StatusOK, saved)
}

// Delete removes one record. Deleting an absent id succeeds.
func (rc *ResourceController) Delete(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}
	if err := store.Remove(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Move shifts one record up or down by swapping order values with its
// neighbour. Boundary moves are a quiet no-op.
func (rc *ResourceController) Move(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}

	var req validator.MoveRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}
	if err := store.Move(ctx.Request().Context(), ctx.Param("id"), resource.Direction(req.Direction)); err != nil {
		return httpError(err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data": store.Items(),
	})
}

// Flag toggles is_active / is_featured on one record.
func (rc *ResourceController) Flag(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}

	var req validator.FlagRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	if err := store.SetFlag(ctx.Request().Context(), ctx.Param("id"), req.Flag, req.Value); err != nil {
		return httpError(err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Bulk applies one action across the selected ids and reports the aggregate
// outcome. One failing item does not abort the rest. Delete requires
// confirm=true in the body.
func (rc *ResourceController) Bulk(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}

	var req validator.BulkRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	kind, err := resource.ParseAction(req.Action)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}

	executor := resource.NewExecutor(store)
	for _, id := range req.IDs {
		executor.Select(id)
	}
	if req.Confirm {
		executor.Confirm()
	}

	result, err := executor.Apply(ctx.Request().Context(), kind)
	if err != nil {
		if errors.Is(err, resource.ErrConfirmationRequired) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return httpError(err)
	}

	if kind == resource.ActionExport {
		return rc.sendCSV(ctx, store.Schema().Resource, result.CSV)
	}

	status := http.StatusOK
	if len(result.Failed) > 0 {
		log.Warn("bulk %s on %s: %d succeeded, %d failed",
			result.Action, store.Schema().Resource, len(result.Succeeded), len(result.Failed))
		status = http.StatusMultiStatus
	}
	return ctx.JSON(status, result)
}

// Export streams a CSV snapshot of the whole collection, or of the ids
// given in the `ids` query parameter.
func (rc *ResourceController) Export(ctx echo.Context) error {
	store, err := rc.storeFor(ctx)
	if err != nil {
		return err
	}
	if err := store.Load(ctx.Request().Context()); err != nil {
		return httpError(err)
	}

	executor := resource.NewExecutor(store)
	if raw := ctx.QueryParam("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			executor.Select(strings.TrimSpace(id))
		}
	} else {
		executor.SelectAll()
	}

	result, err := executor.Apply(ctx.Request().Context(), resource.ActionExport)
	if err != nil {
		return httpError(err)
	}
	return rc.sendCSV(ctx, store.Schema().Resource, result.CSV)
}

func (rc *ResourceController) sendCSV(ctx echo.Context, resourceName string, data []byte) error {
	filename := fmt.Sprintf("%s-%s.csv", resourceName, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, "text/csv", data)
}

// httpError maps the domain error taxonomy onto HTTP statuses.
func httpError(err error) error {
	var validationErr *resource.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, resource.ErrConfiguration):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, resource.ErrSessionBusy):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

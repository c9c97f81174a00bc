package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"eduport/internal/backend"
	"eduport/internal/config"
	"eduport/internal/models"
	"eduport/internal/resource"
	console "eduport/internal/utils/logger"
)

// TaskHandler renders CSV snapshots of catalog resources into the storage
// base path. It owns its own stores so worker loads never contend with the
// API's.
type TaskHandler struct {
	stores   map[string]*resource.Store
	basePath string
	logger   *console.Logger
}

func NewTaskHandler(client backend.Client, cfg *config.Config) *TaskHandler {
	catalog := models.Catalog()
	stores := make(map[string]*resource.Store, len(catalog))
	for name, schema := range catalog {
		stores[name] = resource.NewStore(schema, client, nil)
	}
	return &TaskHandler{
		stores:   stores,
		basePath: cfg.Storage.BasePath,
		logger:   console.New("TASKS"),
	}
}

// HandleResourceExport loads the named resource and writes the full
// collection as CSV to <base>/exports/<resource>-<date>.csv.
func (h *TaskHandler) HandleResourceExport(ctx context.Context, t *asynq.Task) error {
	var payload ResourceExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode export payload: %w", err)
	}

	store, ok := h.stores[payload.Resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", payload.Resource)
	}

	if err := store.Load(ctx); err != nil {
		return h.logger.Error("failed to load %s for export", err, payload.Resource)
	}

	data, err := resource.ExportCSV(store.Schema(), store.Items())
	if err != nil {
		return h.logger.Error("failed to render %s export", err, payload.Resource)
	}

	dir := filepath.Join(h.basePath, "exports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.csv", payload.Resource, time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return h.logger.Error("failed to write %s export", err, payload.Resource)
	}

	h.logger.Success("exported %s to %s", payload.Resource, path)
	return nil
}

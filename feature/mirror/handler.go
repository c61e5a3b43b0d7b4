package mirror

import (
	"errors"

	"scene-mirror/core/logger"
	"scene-mirror/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the mirror session.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the mirror routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/mirror")
	group.Get("/status", h.HandleStatus)
	group.Get("/collections", h.HandleCollections)
	group.Get("/query", h.HandleQuery)
	group.Get("/diagnostics", h.HandleDiagnostics)
	group.Get("/snapshots", h.HandleHistory)
	group.Post("/reload", h.HandleReload)
	group.Post("/sync", h.HandleSync)
	group.Post("/snapshot", h.HandleSnapshot)
	group.Post("/export", h.HandleExport)
	group.Post("/restore", h.HandleRestore)
	group.Get("/:collection/:name", h.HandleEntity)
}

// fail maps service errors to HTTP statuses and logs server-side failures.
func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, snapshot.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidQuery):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrSnapshotsDisabled), errors.Is(err, ErrExportDisabled):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleStatus returns the state of the mirror.
// @Summary Mirror Status
// @Description Returns entity counts per collection, the fingerprint of the mirror and the time of the last sync.
// @Tags mirror
// @Produce json
// @Success 200 {object} mirror.Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	st, err := h.service.Status(c.Context())
	if err != nil {
		return h.fail(c, "Status failed", err)
	}
	return c.JSON(st)
}

// HandleCollections lists the mirrored entities.
// @Summary List Collections
// @Description Lists the entity names of every mirrored top-level collection.
// @Tags mirror
// @Produce json
// @Success 200 {object} map[string][]string "Entity names by collection"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/collections [get]
func (h *Handler) HandleCollections(c *fiber.Ctx) error {
	colls, err := h.service.Collections(c.Context())
	if err != nil {
		return h.fail(c, "Listing collections failed", err)
	}
	return c.JSON(colls)
}

// HandleEntity returns one mirrored entity.
// @Summary Get Entity
// @Description Returns the mirrored attributes of one entity. References are rendered as "collection/name".
// @Tags mirror
// @Produce json
// @Param collection path string true "Collection (e.g. 'objects')"
// @Param name path string true "Entity name (e.g. 'Cube')"
// @Success 200 {object} map[string]interface{} "Entity"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /mirror/{collection}/{name} [get]
func (h *Handler) HandleEntity(c *fiber.Ctx) error {
	view, err := h.service.Entity(c.Context(), c.Params("collection"), c.Params("name"))
	if err != nil {
		return h.fail(c, "Entity lookup failed", err)
	}
	return c.JSON(view)
}

// HandleQuery evaluates a JSONPath expression against the mirror.
// @Summary Query Mirror
// @Description Evaluates a JSONPath expression, e.g. '$.materials.*.roughness'.
// @Tags mirror
// @Produce json
// @Param path query string true "JSONPath expression"
// @Success 200 {array} interface{} "Matches"
// @Failure 400 {object} map[string]string "Invalid Query"
// @Router /mirror/query [get]
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing path parameter",
		})
	}
	values, err := h.service.Query(c.Context(), path)
	if err != nil {
		return h.fail(c, "Query failed", err)
	}
	return c.JSON(values)
}

// HandleDiagnostics returns the anomalies of the last load or sync.
// @Summary Get Diagnostics
// @Description Lists attributes skipped during the last load, sync or restore.
// @Tags mirror
// @Produce json
// @Success 200 {array} proxy.Diagnostic "Diagnostics"
// @Router /mirror/diagnostics [get]
func (h *Handler) HandleDiagnostics(c *fiber.Ctx) error {
	return c.JSON(h.service.Diagnostics())
}

// HandleReload rebuilds the mirror from the document.
// @Summary Reload Mirror
// @Description Parses the scene document again and rebuilds the mirror from scratch.
// @Tags mirror
// @Produce json
// @Success 200 {object} mirror.Status "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/reload [post]
func (h *Handler) HandleReload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Reloading mirror")

	st, err := h.service.Reload(c.Context())
	if err != nil {
		return h.fail(c, "Reload failed", err)
	}
	return c.JSON(st)
}

// HandleSync brings the mirror up to date with the document.
// @Summary Sync Mirror
// @Description Reconciles the mirror with the scene document: additions, removals, renames and attribute updates.
// @Tags mirror
// @Produce json
// @Param dry_run query boolean false "Compute the plan without applying it"
// @Success 200 {object} mirror.SyncResult "Sync Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /mirror/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	dryRun := c.QueryBool("dry_run", false)
	logger.WithRayID(h.service.logger, c).Info("Syncing mirror", zap.Bool("dry_run", dryRun))

	res, err := h.service.Sync(c.Context(), dryRun)
	if err != nil {
		return h.fail(c, "Sync failed", err)
	}
	return c.JSON(res)
}

// HandleSnapshot persists the mirror.
// @Summary Snapshot Mirror
// @Description Stores the mirror in the database. Nothing is written when it matches the latest snapshot.
// @Tags snapshots
// @Produce json
// @Success 201 {object} snapshot.Snapshot "Stored"
// @Success 200 {object} snapshot.Snapshot "Unchanged"
// @Failure 503 {object} map[string]string "Snapshots Disabled"
// @Router /mirror/snapshot [post]
func (h *Handler) HandleSnapshot(c *fiber.Ctx) error {
	snap, created, err := h.service.Snapshot(c.Context())
	if err != nil {
		return h.fail(c, "Snapshot failed", err)
	}
	if created {
		c.Status(fiber.StatusCreated)
	}
	return c.JSON(snap)
}

// HandleHistory lists the stored snapshots.
// @Summary List Snapshots
// @Description Lists the snapshots of the session, newest first.
// @Tags snapshots
// @Produce json
// @Param limit query int false "Maximum number of snapshots" default(20)
// @Success 200 {array} snapshot.Snapshot "Snapshots"
// @Failure 503 {object} map[string]string "Snapshots Disabled"
// @Router /mirror/snapshots [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	snaps, err := h.service.History(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, "Listing snapshots failed", err)
	}
	return c.JSON(snaps)
}

// HandleExport uploads a snapshot to object storage.
// @Summary Export Snapshot
// @Description Snapshots the mirror and uploads it to the configured bucket.
// @Tags snapshots
// @Produce json
// @Success 200 {object} map[string]string "Object Key"
// @Failure 503 {object} map[string]string "Export Disabled"
// @Router /mirror/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	key, err := h.service.Export(c.Context())
	if err != nil {
		return h.fail(c, "Export failed", err)
	}
	return c.JSON(fiber.Map{"key": key})
}

// HandleRestore replaces the mirror with the latest snapshot.
// @Summary Restore Snapshot
// @Description Restores the latest snapshot and writes it back onto the in-memory document.
// @Tags snapshots
// @Produce json
// @Success 200 {array} proxy.Diagnostic "Write Diagnostics"
// @Failure 404 {object} map[string]string "No Snapshot"
// @Router /mirror/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	diags, err := h.service.Restore(c.Context())
	if err != nil {
		return h.fail(c, "Restore failed", err)
	}
	return c.JSON(diags)
}

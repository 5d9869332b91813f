package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/templui/gymapp/internal/ctxkeys"
	"github.com/templui/gymapp/internal/snapshot"
)

type SnapshotHandler struct {
	syncer *snapshot.Syncer
}

func NewSnapshotHandler(syncer *snapshot.Syncer) *SnapshotHandler {
	return &SnapshotHandler{syncer: syncer}
}

type snapshotResponse struct {
	Results []snapshot.Result `json:"results"`
	Total   int               `json:"total"`
	Errors  []string          `json:"errors,omitempty"`
}

// Import loads the snapshot files into the database. ?collection=name
// limits the run to one collection.
func (h *SnapshotHandler) Import(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "import", func(ctx context.Context, name string) snapshot.Report {
		if name == "" {
			return h.syncer.ImportAll(ctx)
		}
		n, err := h.syncer.Import(ctx, name, h.syncer.Path(name))
		return snapshot.Report{Results: []snapshot.Result{{Collection: name, Path: h.syncer.Path(name), Count: n, Err: err}}}
	})
}

// Export writes the database to the snapshot files.
func (h *SnapshotHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, "export", func(ctx context.Context, name string) snapshot.Report {
		if name == "" {
			return h.syncer.ExportAll(ctx)
		}
		n, err := h.syncer.Export(ctx, name, h.syncer.Path(name))
		return snapshot.Report{Results: []snapshot.Result{{Collection: name, Path: h.syncer.Path(name), Count: n, Err: err}}}
	})
}

func (h *SnapshotHandler) run(w http.ResponseWriter, r *http.Request, direction string, fn func(context.Context, string) snapshot.Report) {
	name := r.URL.Query().Get("collection")
	if name != "" && !slices.Contains(snapshot.Collections, name) {
		writeError(w, http.StatusBadRequest, "unknown collection: "+name)
		return
	}

	report := fn(r.Context(), name)

	resp := snapshotResponse{Results: report.Results, Total: report.Total()}
	status := http.StatusOK
	for _, res := range report.Results {
		if res.Err != nil {
			resp.Errors = append(resp.Errors, res.Collection+": "+res.Err.Error())
			status = http.StatusInternalServerError
		}
	}

	slog.Info("snapshot "+direction+" requested",
		"request_id", ctxkeys.RequestID(r.Context()),
		"collection", name,
		"records", resp.Total,
	)
	writeJSON(w, status, resp)
}

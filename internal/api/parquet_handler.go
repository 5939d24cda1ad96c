package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/middleware"
)

// bridgeRow is the parquet record shape of the catalog asset files. Every
// column is optional so older file revisions without the full attribute
// set still decode.
type bridgeRow struct {
	ID          int64   `parquet:"id,optional" json:"id"`
	Name        string  `parquet:"name,optional" json:"name"`
	Price       float64 `parquet:"price,optional" json:"price"`
	Image       string  `parquet:"image,optional" json:"image,omitempty"`
	Description string  `parquet:"description,optional" json:"description,omitempty"`
	Category    string  `parquet:"category,optional" json:"category,omitempty"`
	Brand       string  `parquet:"brand,optional" json:"brand,omitempty"`
	Stock       int64   `parquet:"stock,optional" json:"stock,omitempty"`
	Weight      float64 `parquet:"weight,optional" json:"weight,omitempty"`
	Dimensions  string  `parquet:"dimensions,optional" json:"dimensions,omitempty"`
}

// ParquetHandler is the parquet bridge: it decodes columnar asset files on
// behalf of the browser-side catalog loader.
type ParquetHandler struct {
	root   string
	logger *zap.Logger
}

// NewParquetHandler creates a bridge serving files under root.
func NewParquetHandler(root string, logger *zap.Logger) *ParquetHandler {
	return &ParquetHandler{root: root, logger: logger}
}

// Load handles GET /api/loadParquet?file=<relative-path>. The resolved
// path must stay a descendant of the asset root; anything escaping it is a
// 400, a missing file a 404, a decode failure a 500.
func (h *ParquetHandler) Load(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}

	path, err := h.resolve(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	rows, err := parquet.ReadFile[bridgeRow](path)
	if err != nil {
		h.logger.Error("parquet decode failed",
			zap.String("request_id", reqID),
			zap.String("file", file),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to read parquet")
		return
	}

	if rows == nil {
		rows = []bridgeRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// resolve joins file onto the asset root and rejects any path that does
// not remain strictly inside it.
func (h *ParquetHandler) resolve(file string) (string, error) {
	base, err := filepath.Abs(h.root)
	if err != nil {
		return "", err
	}
	joined, err := filepath.Abs(filepath.Join(base, file))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(joined, base+string(filepath.Separator)) {
		return "", errors.New("path escapes asset root")
	}
	return joined, nil
}

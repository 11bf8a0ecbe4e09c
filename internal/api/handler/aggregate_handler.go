package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"excel-aggregator/internal/model"
	"excel-aggregator/internal/pipeline"
	"excel-aggregator/pkg/utils"
)

// PastedTableName is the stored name of tables submitted through /process-table
const PastedTableName = "pasted_table.xlsx"

// UploadStore is the storage the handlers read and write
type UploadStore interface {
	SaveUpload(ctx context.Context, originalName string, data []byte, columns []string) (model.Upload, error)
	GetUpload(ctx context.Context, id string) (model.Upload, error)
	DeleteUpload(ctx context.Context, id string) error
	SaveResult(ctx context.Context, uploadID, name string, rows int, write func(io.Writer) error) (model.OutputFile, error)
	GetResult(ctx context.Context, uploadID, name string) (model.OutputFile, error)
	DownloadURL(out model.OutputFile) string
}

// Observer receives run and upload events, typically the metrics registry
type Observer interface {
	ObserveRun(report *pipeline.RunReport, err error)
	ObserveUpload(source string)
}

type noopObserver struct{}

func (noopObserver) ObserveRun(*pipeline.RunReport, error) {}
func (noopObserver) ObserveUpload(string)                   {}

// AggregateHandler serves the upload and aggregation endpoints
type AggregateHandler struct {
	store          UploadStore
	observer       Observer
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAggregateHandler wires the handlers to a store. observer may be nil.
func NewAggregateHandler(store UploadStore, observer Observer, logger *slog.Logger, maxUploadBytes int64) *AggregateHandler {
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AggregateHandler{
		store:          store,
		observer:       observer,
		logger:         logger.With(slog.String("component", "aggregate_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *AggregateHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := ErrorFromErr(err)
	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	} else {
		h.logger.DebugContext(r.Context(), "request rejected",
			slog.String("error_code", apiErr.ErrorCode),
			slog.String("error", err.Error()),
		)
	}
	render.Render(w, r, apiErr)
}

// Upload stores a spreadsheet and returns its columns
// @Summary Upload a spreadsheet
// @Description Store an .xlsx, .xlsm or .csv file and return its column names
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet"
// @Success 200 {object} model.UploadResponse
// @Failure 400 {object} handler.APIError "Unsupported or unreadable file"
// @Failure 413 {object} handler.APIError "File too large"
// @Router /upload [post]
func (h *AggregateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if apiErr := ErrorFromErr(err); apiErr.HTTPStatus == http.StatusRequestEntityTooLarge {
			h.fail(w, r, err)
			return
		}
		h.fail(w, r, newAPIError(http.StatusBadRequest, CodeMissingFile, "multipart field 'file' is required", nil))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !pipeline.SupportedExtension(name) {
		h.fail(w, r, fmt.Errorf("%w: %s", pipeline.ErrUnsupportedFormat, filepath.Ext(name)))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	table, err := pipeline.ReadBytes(name, data)
	if err != nil {
		h.fail(w, r, unreadable(err))
		return
	}

	h.respondUpload(w, r, name, data, table, "file")
}

// ProcessTable stores a table pasted into the front end
// @Summary Submit a pasted table
// @Description Store a table given as headers plus row objects and return its column names
// @Tags uploads
// @Accept json
// @Produce json
// @Param table body model.PastedTable true "Pasted table"
// @Success 200 {object} model.UploadResponse
// @Failure 400 {object} handler.APIError "Invalid table"
// @Router /process-table [post]
func (h *AggregateHandler) ProcessTable(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	var pasted model.PastedTable
	if err := render.DecodeJSON(r.Body, &pasted); err != nil {
		h.fail(w, r, decodeError(err))
		return
	}
	if err := h.validate.Struct(pasted); err != nil {
		h.fail(w, r, err)
		return
	}

	table, err := pipeline.TableFromPasted(pasted)
	if err != nil {
		h.fail(w, r, unreadable(err))
		return
	}

	// stored as a workbook so later requests read it like any upload
	var buf bytes.Buffer
	if err := pipeline.WriteWorkbook(&buf, tableAsResult(table)); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondUpload(w, r, PastedTableName, buf.Bytes(), table, "paste")
}

func (h *AggregateHandler) respondUpload(w http.ResponseWriter, r *http.Request, name string, data []byte, table *model.Table, source string) {
	upload, err := h.store.SaveUpload(r.Context(), name, data, table.Names())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.observer.ObserveUpload(source)
	h.logger.InfoContext(r.Context(), "upload stored",
		slog.String("upload_id", upload.ID),
		slog.String("filename", upload.OriginalName),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", len(upload.Columns)),
	)

	render.JSON(w, r, model.UploadResponse{
		Columns:  upload.Columns,
		Filename: upload.OriginalName,
		UploadID: upload.ID,
	})
}

// Columns lists the columns of an upload
// @Summary List upload columns
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} model.ColumnsResponse
// @Failure 404 {object} handler.APIError "Unknown upload"
// @Router /uploads/{id}/columns [get]
func (h *AggregateHandler) Columns(w http.ResponseWriter, r *http.Request) {
	upload, err := h.store.GetUpload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, model.ColumnsResponse{UploadID: upload.ID, Columns: upload.Columns})
}

// DeleteUpload removes an upload and its results
// @Summary Delete an upload
// @Tags uploads
// @Param id path string true "Upload ID"
// @Success 204
// @Failure 404 {object} handler.APIError "Unknown upload"
// @Router /uploads/{id} [delete]
func (h *AggregateHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUpload(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Aggregate groups an upload and returns the result
// @Summary Aggregate an upload
// @Description Group the upload by group_columns and reduce each of agg_columns with its operation. Returns the workbook as an attachment, or JSON with format=json.
// @Tags aggregation
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce json
// @Param id path string true "Upload ID"
// @Param format query string false "xlsx (default), csv or json"
// @Param request body model.AggregationRequest true "Aggregation plan"
// @Success 200 {file} file "Aggregated workbook"
// @Failure 400 {object} handler.APIError "Invalid plan"
// @Failure 404 {object} handler.APIError "Unknown upload"
// @Router /aggregate/{id} [post]
func (h *AggregateHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req model.AggregationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, decodeError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}

	upload, err := h.store.GetUpload(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	table, err := pipeline.ReadFile(upload.Path)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	plan, err := pipeline.RequestPlanBuilder{Request: req}.BuildPlan(ctx, table.Names())
	if err != nil {
		h.observer.ObserveRun(nil, err)
		h.fail(w, r, err)
		return
	}

	result, report, err := pipeline.Run(ctx, table, plan, pipeline.Options{Logger: h.logger})
	h.observer.ObserveRun(report, err)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "json":
		rows := make([][]model.Value, len(result.Rows))
		for i := range result.Rows {
			rows[i] = result.Row(i)
		}
		ops := make([]string, len(result.Operations))
		for i, op := range result.Operations {
			ops[i] = string(op)
		}
		render.JSON(w, r, model.AggregateResponse{
			UploadID:   upload.ID,
			Headers:    result.Headers(),
			Rows:       rows,
			Operations: ops,
		})
	case "csv":
		h.sendResult(w, r, upload, pipeline.OutputName(upload.OriginalName, ".csv"), len(result.Rows), func(w io.Writer) error {
			return pipeline.WriteCSV(w, result)
		})
	default:
		h.sendResult(w, r, upload, pipeline.OutputName(upload.OriginalName, ".xlsx"), len(result.Rows), func(w io.Writer) error {
			return pipeline.WriteWorkbook(w, result)
		})
	}
}

func (h *AggregateHandler) sendResult(w http.ResponseWriter, r *http.Request, upload model.Upload, name string, rows int, write func(io.Writer) error) {
	out, err := h.store.SaveResult(r.Context(), upload.ID, name, rows, write)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("X-Download-URL", h.store.DownloadURL(out))
	serveAttachment(w, r, out)
}

// Download serves a previously written result
// @Summary Download a result
// @Tags aggregation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Upload ID"
// @Param name path string true "Result file name"
// @Success 200 {file} file "Result file"
// @Failure 404 {object} handler.APIError "Unknown upload or result"
// @Router /downloads/{id}/{name} [get]
func (h *AggregateHandler) Download(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.GetResult(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	serveAttachment(w, r, out)
}

func serveAttachment(w http.ResponseWriter, r *http.Request, out model.OutputFile) {
	w.Header().Set("Content-Type", utils.ContentType(out.Name))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Name}))
	http.ServeFile(w, r, out.Path)
}

// Health reports liveness
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *AggregateHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func decodeError(err error) error {
	if apiErr := ErrorFromErr(err); apiErr.HTTPStatus == http.StatusRequestEntityTooLarge {
		return err
	}
	return newAPIError(http.StatusBadRequest, CodeInvalidRequest, "Invalid JSON payload", err.Error())
}

func unreadable(err error) error {
	if apiErr := ErrorFromErr(err); apiErr.HTTPStatus != http.StatusInternalServerError {
		return err
	}
	return newAPIError(http.StatusBadRequest, CodeUnreadableFile, "could not read the uploaded table", err.Error())
}

// tableAsResult lays a plain table out as a result without group columns so
// that it can be written with the result writer
func tableAsResult(table *model.Table) *model.ResultTable {
	result := &model.ResultTable{AggColumns: table.Names()}
	for r := 0; r < table.RowCount(); r++ {
		row := model.ResultRow{Values: make([]model.Value, len(table.Columns))}
		for c, col := range table.Columns {
			row.Values[c] = col.Values[r]
		}
		result.Rows = append(result.Rows, row)
	}
	return result
}

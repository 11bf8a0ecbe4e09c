package api

import (
	"io/fs"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "excel-aggregator/docs"
	"excel-aggregator/internal/api/handler"
	"excel-aggregator/pkg/router"
)

// RegisterRoutes mounts the API, the front end, metrics and the swagger UI.
// static is the front end root holding index.html; metrics may be nil.
func RegisterRoutes(r *router.Router, h *handler.AggregateHandler, static fs.FS, metrics http.Handler) {
	r.GET("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, "index.html")
	})
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.POST("/upload", h.Upload)
	r.POST("/process-table", h.ProcessTable)
	r.GET("/uploads/{id}/columns", h.Columns)
	r.DELETE("/uploads/{id}", h.DeleteUpload)
	r.POST("/aggregate/{id}", h.Aggregate)
	r.GET("/downloads/{id}/{name}", h.Download)

	r.GET("/healthz", h.Health)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	r.GET("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mangata-app/mangata/internal/platform/apperr"
	requestutil "github.com/mangata-app/mangata/internal/platform/request"
	"github.com/mangata-app/mangata/internal/platform/respond"
)

// Handler implements the library's HTTP endpoints. It is a thin mediation
// layer: parameter extraction, status codes, and envelopes only — all
// behavior lives in [Service].
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the library routes.
//
// # Endpoints
//   - POST   /import                       : Register a folder as a book.
//   - POST   /overwrite                    : Explicit confirmed re-import.
//   - GET    /                             : List all books, newest first.
//   - GET    /lookup?folder_path=          : Find a book by folder path.
//   - GET    /{bookID}                     : Single book.
//   - GET    /{bookID}/pages/{pageOrder}   : Raw page image bytes.
//   - GET    /{bookID}/thumbnail           : Raw cover bytes (204 if absent).
//   - GET    /{bookID}/cover               : Cover as base64 data URL.
//   - PATCH  /{bookID}                     : Rename.
//   - PATCH  /{bookID}/progress            : Persist last read page.
//   - DELETE /{bookID}                     : Remove from the catalog.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/import", handler.importFolder)
	router.Post("/overwrite", handler.overwriteBook)
	router.Get("/", handler.listBooks)
	router.Get("/lookup", handler.findByFolderPath)

	router.Route("/{bookID}", func(r chi.Router) {
		r.Get("/", handler.getBook)
		r.Get("/pages/{pageOrder}", handler.getPage)
		r.Get("/thumbnail", handler.getThumbnail)
		r.Get("/cover", handler.getCover)
		r.Patch("/", handler.renameBook)
		r.Patch("/progress", handler.updateProgress)
		r.Delete("/", handler.removeBook)
	})

	return router
}

// # Request Payloads

type importRequest struct {
	FolderPath string `json:"folder_path"`
	Title      string `json:"title"`
}

type renameRequest struct {
	Title string `json:"title"`
}

type progressRequest struct {
	LastPageIndex int `json:"last_page_index"`
}

// # Handlers

func (handler *Handler) importFolder(writer http.ResponseWriter, request *http.Request) {
	var payload importRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.ImportFolder(request.Context(), payload.FolderPath, payload.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, result)
}

func (handler *Handler) overwriteBook(writer http.ResponseWriter, request *http.Request) {
	var payload importRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.OverwriteBook(request.Context(), payload.FolderPath, payload.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !result.OK {
		respond.JSON(writer, http.StatusNotFound, respond.SuccessEnvelope{Data: result})
		return
	}

	respond.OK(writer, result)
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	books, err := handler.service.ListBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, books)
}

func (handler *Handler) findByFolderPath(writer http.ResponseWriter, request *http.Request) {
	folderPath := request.URL.Query().Get("folder_path")

	book, err := handler.service.FindByFolderPath(request.Context(), folderPath)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// book is nil when the folder has never been imported; the UI uses
	// that to decide between "first import" and "ask before overwriting".
	respond.OK(writer, book)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.GetBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	pageOrder, err := requestutil.IntParam(request, "pageOrder")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.GetPagePayload(request.Context(), bookID, int(pageOrder))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Bytes(writer, payload.Info.MimeType, payload.Bytes)
}

func (handler *Handler) getThumbnail(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	bytes, contentType, err := handler.service.GetThumbnail(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Absence is benign: the UI shows a placeholder on 204.
	if bytes == nil {
		respond.NoContent(writer)
		return
	}

	respond.Bytes(writer, contentType, bytes)
}

func (handler *Handler) getCover(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dataURL, err := handler.service.CoverDataURL(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if dataURL == "" {
		respond.NoContent(writer)
		return
	}

	respond.OK(writer, map[string]string{"data_url": dataURL})
}

func (handler *Handler) renameBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload renameRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	changed, err := handler.service.RenameBook(request.Context(), bookID, payload.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !changed {
		respond.Error(writer, request, apperr.NotFound("Book"))
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) updateProgress(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload progressRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateLastPageIndex(request.Context(), bookID, payload.LastPageIndex); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) removeBook(writer http.ResponseWriter, request *http.Request) {
	bookID, err := requestutil.IntParam(request, "bookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	changed, err := handler.service.RemoveBook(request.Context(), bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if !changed {
		respond.Error(writer, request, apperr.NotFound("Book"))
		return
	}

	respond.NoContent(writer)
}

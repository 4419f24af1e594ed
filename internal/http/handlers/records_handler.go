package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"roadwatch/internal/models"
	"roadwatch/internal/repository"
	"roadwatch/internal/service"
)

// RecordsPath is the collection root, also matching item paths beneath it.
const RecordsPath = "/processed_agent_data/"

// RecordsHandler serves CRUD requests for processed agent data records.
type RecordsHandler struct {
	service *service.RecordsService
	logger  *zap.Logger
}

// NewRecordsHandler returns handler.
func NewRecordsHandler(svc *service.RecordsService, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{
		service: svc,
		logger:  logger,
	}
}

// ServeHTTP dispatches collection and item requests under RecordsPath.
func (h *RecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, RecordsPath)
	if rest == "" {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r)
		case http.MethodGet:
			h.list(w, r)
		default:
			methodNotAllowed(w, "GET, POST")
		}
		return
	}

	id, err := strconv.ParseInt(strings.TrimSuffix(rest, "/"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func (h *RecordsHandler) create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Create(r.Context(), input); err != nil {
		h.writeServiceError(w, err, "create record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

func (h *RecordsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "read record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RecordsHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err, "list records")
		return
	}
	if records == nil {
		records = []models.ProcessedRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *RecordsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	record, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.writeServiceError(w, err, "update record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *RecordsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	record, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err, "delete record")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (service.RecordInput, bool) {
	var input service.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			writeError(w, http.StatusBadRequest, validationErr.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid json")
		}
		return service.RecordInput{}, false
	}
	return input, true
}

func (h *RecordsHandler) writeServiceError(w http.ResponseWriter, err error, action string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, repository.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	default:
		h.logger.Error("failed to "+action, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

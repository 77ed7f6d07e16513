package handler

import (
	"net/http"

	"github.com/templui/datanexus/internal/ctxkeys"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/service"
)

type tableHandler struct {
	tableService *service.TableService
}

func NewTableHandler(tableService *service.TableService) *tableHandler {
	return &tableHandler{
		tableService: tableService,
	}
}

type rowResponse struct {
	Message string    `json:"message"`
	Row     model.Row `json:"row"`
}

// readRecord decodes the {"record": {...}} mutation body. Bad JSON or a
// missing or non-object record is answered with 400 and reported as
// ok=false.
func readRecord(w http.ResponseWriter, r *http.Request) (service.Record, bool) {
	var payload map[string]any
	err := decodeJSON(r, &payload)
	if err != nil {
		handleError(w, r, err, "Record payload is required.")
		return nil, false
	}

	record, ok := payload["record"].(map[string]any)
	if !ok {
		writeError(w, http.StatusBadRequest, "Record payload is required.")
		return nil, false
	}
	return service.Record(record), true
}

func (h *tableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tableService.ListTables()
	if err != nil {
		handleError(w, r, err, "Failed to load tables.")
		return
	}

	writeJSON(w, http.StatusOK, tables)
}

func (h *tableHandler) Get(w http.ResponseWriter, r *http.Request) {
	table, err := h.tableService.GetTable(r.PathValue("tableID"))
	if err != nil {
		handleError(w, r, err, "Failed to load table.")
		return
	}

	writeJSON(w, http.StatusOK, table)
}

func (h *tableHandler) Create(w http.ResponseWriter, r *http.Request) {
	record, ok := readRecord(w, r)
	if !ok {
		return
	}

	row, err := h.tableService.Insert(ctxkeys.Actor(r.Context()), r.PathValue("tableID"), record)
	if err != nil {
		handleError(w, r, err, "Failed to add record.")
		return
	}

	writeJSON(w, http.StatusCreated, rowResponse{Message: "Record added successfully.", Row: row})
}

func (h *tableHandler) Update(w http.ResponseWriter, r *http.Request) {
	record, ok := readRecord(w, r)
	if !ok {
		return
	}

	row, err := h.tableService.Update(ctxkeys.Actor(r.Context()), r.PathValue("tableID"), r.PathValue("recordID"), record)
	if err != nil {
		handleError(w, r, err, "Failed to update record.")
		return
	}

	writeJSON(w, http.StatusOK, rowResponse{Message: "Record updated successfully.", Row: row})
}

func (h *tableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.tableService.Delete(ctxkeys.Actor(r.Context()), r.PathValue("tableID"), r.PathValue("recordID"))
	if err != nil {
		handleError(w, r, err, "Failed to delete record.")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Record deleted successfully."})
}

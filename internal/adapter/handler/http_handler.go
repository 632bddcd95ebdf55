package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"stockroom/internal/core/service"
)

type HTTPHandler struct {
	inventory *service.InventoryService
	log       *zap.Logger
	tracer    trace.Tracer
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewHTTPHandler(inventory *service.InventoryService, log *zap.Logger, tracer trace.Tracer) *HTTPHandler {
	return &HTTPHandler{inventory: inventory, log: log, tracer: tracer}
}

// Register mounts all inventory routes on the router. The quantity
// pattern admits a sign so non-positive values reach the handler and
// produce a 400 instead of a router 404.
func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/items/{item_id:[0-9]+}", h.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/items/{item_id:[0-9]+}", h.DeleteItem).Methods(http.MethodDelete)
	r.HandleFunc("/items/{item_id:[0-9]+}/{quantity:-?[0-9]+}", h.RemoveQuantity).Methods(http.MethodDelete)
	r.HandleFunc("/items/{item_name}/{quantity:-?[0-9]+}", h.AddItem).Methods(http.MethodPost)
}

// Root reports liveness.
// @Summary Liveness
// @Produce json
// @Success 200
// @Router / [get]
func (h *HTTPHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

// AddItem creates an item or increments an existing item's quantity.
// @Summary Add item
// @Produce json
// @Param item_name path string true "Item name"
// @Param quantity path int true "Quantity to add"
// @Success 200 {object} domain.Item
// @Failure 400 {object} errorResponse
// @Router /items/{item_name}/{quantity} [post]
func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddItem")
	defer span.End()

	vars := mux.Vars(r)
	quantity, err := strconv.ParseInt(vars["quantity"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid quantity."})
		return
	}

	item, err := h.inventory.AddItem(ctx, vars["item_name"], quantity)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Quantity must be greater than 0."})
			return
		}
		h.serverError(w, r, "add item", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

// GetItem returns the raw stored record for an id.
// @Summary Get item
// @Produce json
// @Param item_id path int true "Item ID"
// @Success 200
// @Failure 404 {object} errorResponse
// @Router /items/{item_id} [get]
func (h *HTTPHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetItem")
	defer span.End()

	id, _ := strconv.ParseInt(mux.Vars(r)["item_id"], 10, 64)
	fields, err := h.inventory.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Item not found."})
			return
		}
		h.serverError(w, r, "get item", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item": fields})
}

// ListItems returns every item in the directory.
// @Summary List items
// @Produce json
// @Success 200 {array} domain.Item
// @Router /items [get]
func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListItems")
	defer span.End()

	items, err := h.inventory.ListItems(ctx)
	if err != nil {
		h.serverError(w, r, "list items", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// DeleteItem removes an item entirely.
// @Summary Delete item
// @Produce json
// @Param item_id path int true "Item ID"
// @Success 200
// @Failure 404 {object} errorResponse
// @Router /items/{item_id} [delete]
func (h *HTTPHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "DeleteItem")
	defer span.End()

	id, _ := strconv.ParseInt(mux.Vars(r)["item_id"], 10, 64)
	name, err := h.inventory.DeleteItem(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Item not found."})
			return
		}
		h.serverError(w, r, "delete item", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"result": fmt.Sprintf("Item (%d, %s) deleted.", id, name),
	})
}

// RemoveQuantity decrements an item's quantity, deleting the item when
// the removal covers the remaining quantity.
// @Summary Remove quantity
// @Produce json
// @Param item_id path int true "Item ID"
// @Param quantity path int true "Quantity to remove"
// @Success 200
// @Failure 404 {object} errorResponse
// @Router /items/{item_id}/{quantity} [delete]
func (h *HTTPHandler) RemoveQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveQuantity")
	defer span.End()

	vars := mux.Vars(r)
	id, _ := strconv.ParseInt(vars["item_id"], 10, 64)
	quantity, err := strconv.ParseInt(vars["quantity"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "Invalid quantity."})
		return
	}

	removal, err := h.inventory.RemoveQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Detail: "Item not found."})
			return
		}
		h.serverError(w, r, "remove quantity", err)
		return
	}

	var result string
	if removal.Deleted {
		result = fmt.Sprintf("Item (%d, %s) deleted.", id, removal.Name)
	} else {
		result = fmt.Sprintf("%d of %d items from (%d, %s) removed.",
			removal.Removed, removal.Prior, id, removal.Name)
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (h *HTTPHandler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error(op, zap.String("path", r.URL.Path), zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

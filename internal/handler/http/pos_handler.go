package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/receipt"
	"restaurant-pos/internal/table"
	"restaurant-pos/internal/waiter"
)

// PosHandler serves the waiter-facing floor: the table grid, the open
// order on a table and the item/close/cancel actions on it.
type PosHandler struct {
	tables   table.Service
	orders   order.Service
	catalog  catalog.Service
	waiters  waiter.Service
	validate *validator.Validate
}

func NewPosHandler(tables table.Service, orders order.Service, catalogSvc catalog.Service, waiters waiter.Service) *PosHandler {
	return &PosHandler{
		tables:   tables,
		orders:   orders,
		catalog:  catalogSvc,
		waiters:  waiters,
		validate: validator.New(),
	}
}

func (h *PosHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.handleListTables)
	r.Get("/tables/{tableID}", h.handleTableDetails)
	r.Post("/tables/{tableID}/orders", h.handleOpenOrder)
	r.Post("/orders/{orderID}/items", h.handleAddItem)
	r.Delete("/items/{itemID}", h.handleRemoveItem)
	r.Post("/orders/{orderID}/cancel", h.handleCancelOrder)
	r.Post("/orders/{orderID}/close", h.handleCloseOrder)
	r.Get("/orders/{orderID}/receipt", h.handleReceipt)
}

// TableCardView is one cell of the floor grid: the table plus a
// summary of its open order, if any.
type TableCardView struct {
	ID           uuid.UUID    `json:"id"`
	TableNumber  int          `json:"table_number"`
	Status       table.Status `json:"status"`
	StatusLabel  string       `json:"status_label"`
	OpenOrderID  *uuid.UUID   `json:"open_order_id,omitempty"`
	ItemsCount   int          `json:"items_count"`
	RunningTotal int          `json:"running_total"`
}

func (h *PosHandler) handleListTables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tables, err := h.tables.ListTables(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list tables")
		return
	}

	cards := make([]TableCardView, 0, len(tables))
	for i := range tables {
		t := &tables[i]
		card := TableCardView{
			ID:          t.ID,
			TableNumber: t.TableNumber,
			Status:      t.Status,
			StatusLabel: t.Status.Display(),
		}

		if t.Status == table.StatusOccupied {
			open, err := h.orders.GetOpenOrderForTable(ctx, t.ID)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, "Failed to list tables")
				return
			}
			if open != nil {
				items, err := h.orders.GetItemsForOrder(ctx, open.ID)
				if err != nil {
					respondWithError(w, http.StatusInternalServerError, "Failed to list tables")
					return
				}
				id := open.ID
				card.OpenOrderID = &id
				for _, it := range items {
					card.ItemsCount += it.Quantity
				}
				card.RunningTotal = order.SumLineTotals(items)
			}
		}

		cards = append(cards, card)
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"tables": cards})
}

// OrderItemView joins a line with the product name the waiter sees.
type OrderItemView struct {
	order.OrderItem
	ProductName string `json:"product_name"`
}

type TableDetailsView struct {
	Table        table.Table       `json:"table"`
	Order        *order.Order      `json:"order,omitempty"`
	Items        []OrderItemView   `json:"items"`
	Total        int               `json:"total"`
	Menu         []catalog.Product `json:"menu"`
	MenuSections []MenuSection     `json:"menu_sections"`
}

type MenuSection struct {
	Category catalog.Category  `json:"category"`
	Products []catalog.Product `json:"products"`
}

// handleTableDetails returns everything the order screen for one table
// needs: the table, its open order with priced lines, and the
// available menu grouped by category.
func (h *PosHandler) handleTableDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tableID, err := uuid.FromString(chi.URLParam(r, "tableID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	t, err := h.tables.GetTable(ctx, tableID)
	if err != nil {
		respondWithMappedError(w, err, "Failed to fetch table")
		return
	}

	view := TableDetailsView{Table: *t, Items: []OrderItemView{}}

	open, err := h.orders.GetOpenOrderForTable(ctx, tableID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch table")
		return
	}
	if open != nil {
		items, err := h.orders.GetItemsForOrder(ctx, open.ID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch table")
			return
		}

		names, err := h.productNames(ctx)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch table")
			return
		}

		view.Order = open
		for _, item := range items {
			view.Items = append(view.Items, OrderItemView{
				OrderItem:   item,
				ProductName: names(item.ProductID),
			})
		}
		view.Total = order.SumLineTotals(items)
	}

	menu, err := h.catalog.ListAvailableProducts(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch table")
		return
	}
	view.Menu = menu

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch table")
		return
	}
	view.MenuSections = groupMenu(categories, menu)

	respondWithJSON(w, http.StatusOK, view)
}

// groupMenu buckets available products under their category, keeping
// the category display order. Products with a category that no longer
// exists are left out of the sections but stay in the flat menu list.
func groupMenu(categories []catalog.Category, products []catalog.Product) []MenuSection {
	sections := make([]MenuSection, 0, len(categories))
	for _, c := range categories {
		section := MenuSection{Category: c, Products: []catalog.Product{}}
		for _, p := range products {
			if p.CategoryID == c.ID {
				section.Products = append(section.Products, p)
			}
		}
		sections = append(sections, section)
	}
	return sections
}

// handleOpenOrder opens an order on the table for the logged-in
// waiter. Hitting an already-occupied table returns the existing open
// order instead of failing.
func (h *PosHandler) handleOpenOrder(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.FromString(chi.URLParam(r, "tableID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid table ID")
		return
	}

	sess := SessionFromContext(r.Context())
	if sess == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	o, err := h.orders.OpenOrderForTable(r.Context(), tableID, sess.WaiterID)
	if err != nil {
		respondWithMappedError(w, err, "Failed to open order")
		return
	}

	respondWithJSON(w, http.StatusCreated, o)
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

func (h *PosHandler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithValidationErrors(w, verrs)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	productID, err := uuid.FromString(req.ProductID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	item, err := h.orders.AddItem(r.Context(), orderID, productID, req.Quantity)
	if err != nil {
		respondWithMappedError(w, err, "Failed to add item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// handleRemoveItem takes one unit off the line; the line disappears
// when its quantity reaches zero.
func (h *PosHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.FromString(chi.URLParam(r, "itemID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.orders.RemoveItem(r.Context(), itemID); err != nil {
		respondWithMappedError(w, err, "Failed to remove item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PosHandler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	if err := h.orders.CancelOrder(r.Context(), orderID); err != nil {
		respondWithMappedError(w, err, "Failed to cancel order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CloseOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// handleCloseOrder finalizes the order and streams back the printable
// receipt as a text attachment.
func (h *PosHandler) handleCloseOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req CloseOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithValidationErrors(w, verrs)
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	payment, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	closed, err := h.orders.CloseOrder(r.Context(), orderID, payment)
	if err != nil {
		respondWithMappedError(w, err, "Failed to close order")
		return
	}

	h.writeReceipt(w, r, closed)
}

// handleReceipt re-renders the slip for an already finished order.
func (h *PosHandler) handleReceipt(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.FromString(chi.URLParam(r, "orderID"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	o, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		respondWithMappedError(w, err, "Failed to fetch order")
		return
	}
	// Only closed orders have a billable total; cancelled orders keep
	// no lines and must never produce a slip.
	if o.Status != order.StatusClosed {
		respondWithError(w, http.StatusConflict, "order is not closed")
		return
	}

	h.writeReceipt(w, r, o)
}

func (h *PosHandler) writeReceipt(w http.ResponseWriter, r *http.Request, o *order.Order) {
	ctx := r.Context()

	t, err := h.tables.GetTable(ctx, o.TableID)
	if err != nil {
		respondWithMappedError(w, err, "Failed to render receipt")
		return
	}

	items, err := h.orders.GetItemsForOrder(ctx, o.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	// A deleted waiter account must not block printing.
	waiterName := ""
	if staff, err := h.waiters.GetWaiter(ctx, o.WaiterID); err == nil {
		waiterName = staff.FullName
	} else {
		log.Warn().Err(err).Stringer("waiter_id", o.WaiterID).Msg("handler: waiter lookup failed for receipt")
	}

	names, err := h.productNames(ctx)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	body := receipt.Render(o, t, waiterName, items, names)
	filename := receipt.Filename(t.TableNumber, time.Now())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Stringer("order_id", o.ID).Msg("handler: failed to write receipt")
	}
}

// productNames builds a lookup over the whole catalog, unavailable
// products included, so old receipts still show real names.
func (h *PosHandler) productNames(ctx context.Context) (receipt.ProductNameFunc, error) {
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]string, len(products))
	for _, p := range products {
		byID[p.ID] = p.Name
	}

	return func(productID uuid.UUID) string {
		if name, ok := byID[productID]; ok {
			return name
		}
		return ""
	}, nil
}

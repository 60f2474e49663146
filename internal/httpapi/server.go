// Package httpapi is a thin JSON adapter over the cart session core, for
// whatever UI consumes it. It owns no business rules: guarded no-ops in the
// core stay no-ops here and simply echo the current state back.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/nikolayk812/cartflow/internal/cart"
	"github.com/nikolayk812/cartflow/internal/catalog"
	"github.com/nikolayk812/cartflow/internal/domain"
	"github.com/nikolayk812/cartflow/internal/submit"
)

type Server struct {
	Router    *mux.Router
	loader    *catalog.Loader
	store     *cart.Store
	submitter *submit.Submitter
}

func NewServer(loader *catalog.Loader, store *cart.Store, submitter *submit.Submitter) *Server {
	s := &Server{
		Router:    mux.NewRouter(),
		loader:    loader,
		store:     store,
		submitter: submitter,
	}

	s.Router.HandleFunc("/api/catalog", s.handleCatalog).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/cart", s.handleCart).Methods(http.MethodGet)
	s.Router.HandleFunc("/api/cart/items", s.handleAdd).Methods(http.MethodPost)
	s.Router.HandleFunc("/api/cart/items/{id}", s.handleUpdate).Methods(http.MethodPut)
	s.Router.HandleFunc("/api/cart/items/{id}", s.handleRemove).Methods(http.MethodDelete)
	s.Router.HandleFunc("/api/checkout", s.handleCheckout).Methods(http.MethodPost)

	return s
}

type moneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type itemDTO struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Price moneyDTO `json:"price"`
}

type lineDTO struct {
	ItemID   int64    `json:"item_id"`
	Name     string   `json:"name"`
	Price    moneyDTO `json:"price"`
	Quantity int64    `json:"quantity"`
}

type catalogDTO struct {
	Status  string    `json:"status"`
	Items   []itemDTO `json:"items,omitempty"`
	Message string    `json:"message,omitempty"`
}

type cartDTO struct {
	Lines []lineDTO `json:"lines"`
	Total moneyDTO  `json:"total"`
}

type checkoutDTO struct {
	State  string  `json:"state"`
	Error  string  `json:"error,omitempty"`
	Notice string  `json:"notice,omitempty"`
	Cart   cartDTO `json:"cart"`
}

func toMoneyDTO(m domain.Money) moneyDTO {
	return moneyDTO{Amount: m.Amount.String(), Currency: m.Currency.String()}
}

func toLineDTOs(lines []domain.CartLine) []lineDTO {
	dtos := make([]lineDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, lineDTO{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Price:    toMoneyDTO(l.Price),
			Quantity: l.Quantity,
		})
	}
	return dtos
}

func (s *Server) cartDTO() cartDTO {
	return cartDTO{
		Lines: toLineDTOs(s.store.Lines()),
		Total: toMoneyDTO(s.store.Total()),
	}
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	snap := s.loader.Snapshot()

	dto := catalogDTO{Message: snap.Message}
	switch snap.Status {
	case catalog.StatusReady:
		dto.Status = "ready"
	case catalog.StatusError:
		dto.Status = "error"
	default:
		dto.Status = "loading"
	}
	for _, item := range snap.Items {
		dto.Items = append(dto.Items, itemDTO{
			ID:    item.ID,
			Name:  item.Name,
			Price: toMoneyDTO(item.Price),
		})
	}

	writeJSON(w, http.StatusOK, dto)
}

func (s *Server) handleCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cartDTO())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	item, ok := s.loader.Item(req.ID)
	if !ok {
		http.Error(w, "unknown menu item", http.StatusNotFound)
		return
	}

	s.store.Add(item)
	writeJSON(w, http.StatusOK, s.cartDTO())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	s.store.UpdateQuantity(id, req.Quantity)
	writeJSON(w, http.StatusOK, s.cartDTO())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	s.store.Remove(id)
	writeJSON(w, http.StatusOK, s.cartDTO())
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	s.submitter.Submit(r.Context())

	snap := s.submitter.Snapshot()
	writeJSON(w, http.StatusOK, checkoutDTO{
		State:  snap.State.String(),
		Error:  snap.Err,
		Notice: snap.Notice,
		Cart:   s.cartDTO(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

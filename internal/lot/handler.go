package lot

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"aurum/internal/transport/http/shared"
	id "aurum/pkg/domain"
)

// Handler exposes the lot engine's command surface.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/transactions", h.handleSubmit)
	r.Route("/workflow", func(r chi.Router) {
		r.Post("/approve", h.handleApprove)
		r.Post("/invoice", h.handleInvoice)
		r.Post("/verify", h.handleVerify)
		r.Post("/disburse", h.handleDisburse)
		r.Post("/transfer", h.handleTransfer)
		r.Post("/receive", h.handleReceive)
		r.Post("/melt", h.handleMelt)
	})
}

type materialRowRequest struct {
	Product      string          `json:"product"`
	Piece        int             `json:"piece"`
	Weight       decimal.Decimal `json:"weight"`
	Purity       string          `json:"purity"`
	WastePercent decimal.Decimal `json:"wastePercent"`
	Rate         decimal.Decimal `json:"rate"`
}

type submitRequest struct {
	LotNo        string               `json:"lotNo"`
	Branch       string               `json:"branch"`
	RefNo        string               `json:"refNo"`
	Date         string               `json:"date"`
	CustomerID   string               `json:"customerId"`
	CustomerName string               `json:"customerName"`
	Remarks      string               `json:"remarks"`
	Items        []materialRowRequest `json:"items"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	items := make([]MaterialRow, len(req.Items))
	for i, item := range req.Items {
		items[i] = MaterialRow{
			Product:      item.Product,
			Piece:        item.Piece,
			Weight:       item.Weight,
			Purity:       item.Purity,
			WastePercent: item.WastePercent,
			Rate:         item.Rate,
		}
	}

	lot, err := h.service.Submit(r.Context(), SubmitInput{
		LotNo:        id.LotNo(req.LotNo),
		Branch:       req.Branch,
		RefNo:        req.RefNo,
		LotDate:      req.Date,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Remarks:      req.Remarks,
		Items:        items,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

type approveRequest struct {
	LotNo    string `json:"lotNo"`
	Decision string `json:"decision"`
	Remarks  string `json:"remarks"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.Decide(r.Context(), id.LotNo(req.LotNo), req.Decision, req.Remarks)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

type remarksRequest struct {
	LotNo   string `json:"lotNo"`
	Remarks string `json:"remarks"`
}

func (h *Handler) handleInvoice(w http.ResponseWriter, r *http.Request) {
	var req remarksRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.Invoice(r.Context(), id.LotNo(req.LotNo), req.Remarks)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req remarksRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.AccountsVerify(r.Context(), id.LotNo(req.LotNo))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

type disburseRequest struct {
	LotNo       string          `json:"lotNo"`
	PaymentMode string          `json:"paymentMode"`
	ReferenceNo string          `json:"referenceNo"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *Handler) handleDisburse(w http.ResponseWriter, r *http.Request) {
	var req disburseRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.Disburse(r.Context(), DisburseInput{
		LotNo:       id.LotNo(req.LotNo),
		PaymentMode: req.PaymentMode,
		ReferenceNo: req.ReferenceNo,
		Amount:      req.Amount,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

type transferRequest struct {
	LotNo      string `json:"lotNo"`
	VehicleNo  string `json:"vehicleNo"`
	DriverName string `json:"driverName"`
	SealNumber string `json:"sealNumber"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.InitiateTransfer(r.Context(), TransferInput{
		LotNo:      id.LotNo(req.LotNo),
		VehicleNo:  req.VehicleNo,
		DriverName: req.DriverName,
		SealNumber: req.SealNumber,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	var req remarksRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.ConfirmReceipt(r.Context(), id.LotNo(req.LotNo), req.Remarks)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

type meltRequest struct {
	LotNo        string          `json:"lotNo"`
	InputWeight  decimal.Decimal `json:"inputWeight"`
	OutputWeight decimal.Decimal `json:"outputWeight"`
	Operator     string          `json:"operator"`
	Temperature  int             `json:"temperature"`
}

func (h *Handler) handleMelt(w http.ResponseWriter, r *http.Request) {
	var req meltRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	lot, err := h.service.Melt(r.Context(), MeltInput{
		LotNo:        id.LotNo(req.LotNo),
		InputWeight:  req.InputWeight,
		OutputWeight: req.OutputWeight,
		Operator:     req.Operator,
		Temperature:  req.Temperature,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, lot)
}

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Spok95/smartspend/internal/domain/purchases"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type itemRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	// Price is the name the web form sends.
	Price *decimal.Decimal `json:"price"`
}

type purchaseRequest struct {
	UserID int64         `json:"user_id"`
	ShopID int64         `json:"shop_id"`
	Date   *string       `json:"date"`
	Items  []itemRequest `json:"items"`
}

// Decimal fields render as strings: quantity as stored, money with at least two decimals.
type itemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type purchaseResponse struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	ShopID      int64          `json:"shop_id"`
	Date        string         `json:"date"`
	TotalAmount string         `json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Items       []itemResponse `json:"items"`
}

func toResponse(p purchases.Purchase) purchaseResponse {
	out := purchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ShopID:      p.ShopID,
		Date:        p.Date.Format(dateLayout),
		TotalAmount: purchases.FormatMoney(p.TotalAmount),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Items:       make([]itemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, itemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity.String(),
			UnitPrice: purchases.FormatMoney(it.UnitPrice),
			Subtotal:  purchases.FormatMoney(it.Subtotal),
		})
	}
	return out
}

// parse converts the body into core inputs. Only malformed values fail here;
// range checks belong to the service.
func (r purchaseRequest) parse() (*time.Time, []purchases.ItemInput, error) {
	var date *time.Time
	if r.Date != nil && *r.Date != "" {
		d, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("date must be YYYY-MM-DD")
		}
		date = &d
	}

	items := make([]purchases.ItemInput, 0, len(r.Items))
	for i, it := range r.Items {
		price := it.UnitPrice
		if price == nil {
			price = it.Price
		}
		if price == nil {
			return nil, nil, fmt.Errorf("item %d: unit_price is required", i+1)
		}
		items = append(items, purchases.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: *price,
		})
	}
	return date, items, nil
}

func (h *Handler) createPurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid JSON body")
		return
	}
	date, items, err := req.parse()
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	p, err := h.purchases.Create(c.Request.Context(), purchases.CreateInput{
		UserID: req.UserID,
		ShopID: req.ShopID,
		Date:   date,
		Items:  items,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(*p))
}

func (h *Handler) updatePurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid purchase id")
		return
	}
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid JSON body")
		return
	}
	date, items, err := req.parse()
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	p, err := h.purchases.Update(c.Request.Context(), id, purchases.UpdateInput{
		UserID: req.UserID,
		ShopID: req.ShopID,
		Date:   date,
		Items:  items,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*p))
}

func (h *Handler) deletePurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid purchase id")
		return
	}
	if err := h.purchases.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getPurchase(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid purchase id")
		return
	}
	p, err := h.purchases.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(*p))
}

func (h *Handler) listPurchases(c *gin.Context) {
	list, err := h.purchases.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]purchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) exportPurchases(c *gin.Context) {
	list, err := h.purchases.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	buf := &bytes.Buffer{}
	if err := purchases.WriteXLSX(buf, list); err != nil {
		h.fail(c, err)
		return
	}
	fileName := fmt.Sprintf("purchases_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

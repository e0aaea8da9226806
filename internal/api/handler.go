package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/Spok95/smartspend/internal/domain/brands"
	"github.com/Spok95/smartspend/internal/domain/catalog"
	"github.com/Spok95/smartspend/internal/domain/products"
	"github.com/Spok95/smartspend/internal/domain/purchases"
	"github.com/Spok95/smartspend/internal/domain/users"
	"github.com/gin-gonic/gin"
)

type PurchaseService interface {
	Create(ctx context.Context, in purchases.CreateInput) (*purchases.Purchase, error)
	Update(ctx context.Context, id int64, in purchases.UpdateInput) (*purchases.Purchase, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*purchases.Purchase, error)
	List(ctx context.Context) ([]purchases.Purchase, error)
}

type UserStore interface {
	Create(ctx context.Context, name, email string) (*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	Update(ctx context.Context, id int64, p users.Patch) (*users.User, error)
	Delete(ctx context.Context, id int64) error
}

type CatalogStore interface {
	CreateShop(ctx context.Context, name string) (*catalog.Shop, error)
	GetShopByID(ctx context.Context, id int64) (*catalog.Shop, error)
	ListShops(ctx context.Context) ([]catalog.Shop, error)
	RenameShop(ctx context.Context, id int64, name string) (*catalog.Shop, error)
	DeleteShop(ctx context.Context, id int64) error

	CreateCategory(ctx context.Context, name string) (*catalog.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
}

type BrandStore interface {
	GetOrCreate(ctx context.Context, name string) (*brands.Brand, error)
	GetByID(ctx context.Context, id int64) (*brands.Brand, error)
	List(ctx context.Context) ([]brands.Brand, error)
}

type ProductStore interface {
	Create(ctx context.Context, in products.NewProduct) (*products.Product, error)
	GetByID(ctx context.Context, id int64) (*products.Product, error)
	List(ctx context.Context) ([]products.Product, error)
	SearchByName(ctx context.Context, q string) ([]products.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes the JSON API. Nil stores leave their routes unregistered.
type Handler struct {
	log       *slog.Logger
	purchases PurchaseService
	users     UserStore
	catalog   CatalogStore
	brands    BrandStore
	products  ProductStore
}

func NewHandler(log *slog.Logger, ps PurchaseService, us UserStore, cs CatalogStore, bs BrandStore, prs ProductStore) *Handler {
	return &Handler{log: log, purchases: ps, users: us, catalog: cs, brands: bs, products: prs}
}

func (h *Handler) Register(r gin.IRouter) {
	if h.purchases != nil {
		p := r.Group("/purchases")
		p.POST("", h.createPurchase)
		p.GET("", h.listPurchases)
		p.GET("/:id", h.getPurchase)
		p.PUT("/:id", h.updatePurchase)
		p.DELETE("/:id", h.deletePurchase)
		r.GET("/exports/purchases.xlsx", h.exportPurchases)
	}
	if h.users != nil {
		u := r.Group("/users")
		u.POST("", h.createUser)
		u.GET("", h.listUsers)
		u.GET("/:id", h.getUser)
		u.PUT("/:id", h.updateUser)
		u.DELETE("/:id", h.deleteUser)
	}
	if h.catalog != nil {
		s := r.Group("/shops")
		s.POST("", h.createShop)
		s.GET("", h.listShops)
		s.GET("/:id", h.getShop)
		s.PUT("/:id", h.renameShop)
		s.DELETE("/:id", h.deleteShop)

		r.POST("/categories", h.createCategory)
		r.GET("/categories", h.listCategories)
		r.GET("/categories/:id", h.getCategory)
	}
	if h.brands != nil {
		r.POST("/brands", h.createBrand)
		r.GET("/brands", h.listBrands)
		r.GET("/brands/:id", h.getBrand)
	}
	if h.products != nil {
		pr := r.Group("/products")
		pr.POST("", h.createProduct)
		pr.GET("", h.listProducts)
		pr.GET("/:id", h.getProduct)
		pr.DELETE("/:id", h.deleteProduct)
	}
}

func statusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes {"error": msg}; low-level details go only to the log.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
			"err", err,
		)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

func (h *Handler) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

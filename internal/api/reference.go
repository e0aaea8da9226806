package api

import (
	"net/http"

	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/Spok95/smartspend/internal/domain/products"
	"github.com/Spok95/smartspend/internal/domain/users"
	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

type productRequest struct {
	Reference  *string `json:"reference"`
	Name       string  `json:"name" binding:"required"`
	CategoryID *int64  `json:"category_id"`
	BrandID    *int64  `json:"brand_id"`
	Unit       string  `json:"unit"`
}

/* Users */

func (h *Handler) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil || req.Email == nil {
		h.badRequest(c, "name and email are required")
		return
	}
	u, err := h.users.Create(c.Request.Context(), *req.Name, *req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid user id")
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		h.fail(c, apperr.NotFound("user %d not found", id))
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid user id")
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid JSON body")
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, users.Patch{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid user id")
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

/* Shops & categories */

func (h *Handler) createShop(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "name is required")
		return
	}
	s, err := h.catalog.CreateShop(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) listShops(c *gin.Context) {
	list, err := h.catalog.ListShops(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getShop(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid shop id")
		return
	}
	s, err := h.catalog.GetShopByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if s == nil {
		h.fail(c, apperr.NotFound("shop %d not found", id))
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) renameShop(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid shop id")
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "name is required")
		return
	}
	s, err := h.catalog.RenameShop(c.Request.Context(), id, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) deleteShop(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid shop id")
		return
	}
	if err := h.catalog.DeleteShop(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "name is required")
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) listCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid category id")
		return
	}
	cat, err := h.catalog.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if cat == nil {
		h.fail(c, apperr.NotFound("category %d not found", id))
		return
	}
	c.JSON(http.StatusOK, cat)
}

/* Brands */

func (h *Handler) createBrand(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "name is required")
		return
	}
	b, err := h.brands.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) listBrands(c *gin.Context) {
	list, err := h.brands.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getBrand(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid brand id")
		return
	}
	b, err := h.brands.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if b == nil {
		h.fail(c, apperr.NotFound("brand %d not found", id))
		return
	}
	c.JSON(http.StatusOK, b)
}

/* Products */

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "name is required")
		return
	}
	p, err := h.products.Create(c.Request.Context(), products.NewProduct{
		Reference:  req.Reference,
		Name:       req.Name,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		Unit:       req.Unit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) listProducts(c *gin.Context) {
	var (
		list []products.Product
		err  error
	)
	if q := c.Query("q"); q != "" {
		list, err = h.products.SearchByName(c.Request.Context(), q)
	} else {
		list, err = h.products.List(c.Request.Context())
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid product id")
		return
	}
	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if p == nil {
		h.fail(c, apperr.NotFound("product %d not found", id))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.badRequest(c, "invalid product id")
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

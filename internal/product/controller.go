package product

import (
	"errors"
	"net/http"

	"catalog_api/internal/httpx"
	"catalog_api/internal/validation"

	"github.com/gin-gonic/gin"
)

const notFoundMessage = "Product not found"

type ProductController struct {
	productService ProductServiceInterface
}

func NewProductController(productService ProductServiceInterface) *ProductController {
	return &ProductController{productService: productService}
}

// bind decodes and validates the body, writing the failure response itself.
func (p *ProductController) bind(c *gin.Context) (*Product, bool) {
	in, err := httpx.BindInput(c)
	if err != nil {
		httpx.MalformedBody(c)
		return nil, false
	}

	res, err := validation.Validate(c.Request.Context(), in, productRules())
	if err != nil {
		httpx.InternalError(c, err, "Failed to validate request")
		return nil, false
	}
	if !res.Valid() {
		httpx.ValidationFailed(c, res.Errors)
		return nil, false
	}

	product, err := fromInput(in)
	if err != nil {
		httpx.InternalError(c, err, "Failed to convert validated product")
		return nil, false
	}
	return product, true
}

// Index lists every product
func (p *ProductController) Index(c *gin.Context) {
	products, err := p.productService.ListProducts(c.Request.Context())
	if err != nil {
		httpx.InternalError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
	})
}

// Store creates a product
func (p *ProductController) Store(c *gin.Context) {
	product, ok := p.bind(c)
	if !ok {
		return
	}

	created, err := p.productService.CreateProduct(c.Request.Context(), product)
	if err != nil {
		httpx.InternalError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// Show returns one product
func (p *ProductController) Show(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.NotFound(c, notFoundMessage)
		return
	}

	product, err := p.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.NotFound(c, notFoundMessage)
			return
		}
		httpx.InternalError(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// Update replaces every client field of a product. The body is validated
// before the id is looked up.
func (p *ProductController) Update(c *gin.Context) {
	product, ok := p.bind(c)
	if !ok {
		return
	}

	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.NotFound(c, notFoundMessage)
		return
	}
	product.ID = id

	updated, err := p.productService.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.NotFound(c, notFoundMessage)
			return
		}
		httpx.InternalError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
		"message": "Product updated successfully",
	})
}

// Destroy deletes a product
func (p *ProductController) Destroy(c *gin.Context) {
	id, ok := httpx.ParamID(c, "id")
	if !ok {
		httpx.NotFound(c, notFoundMessage)
		return
	}

	if err := p.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			httpx.NotFound(c, notFoundMessage)
			return
		}
		httpx.InternalError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

package httpserver

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/phenrril/tiendaropa/internal/domain"
	"github.com/phenrril/tiendaropa/internal/usecase"
)

const maxUpload = 10 << 20

type productRequest struct {
	Name     *string          `json:"name"`
	Category *domain.Category `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Small    *int             `json:"small"`
	Medium   *int             `json:"medium"`
	Large    *int             `json:"large"`
}

func (req productRequest) patch() usecase.ProductPatch {
	return usecase.ProductPatch{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Small:    req.Small,
		Medium:   req.Medium,
		Large:    req.Large,
	}
}

func (req productRequest) input() usecase.ProductInput {
	in := usecase.ProductInput{}
	if req.Name != nil {
		in.Name = *req.Name
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	if req.Small != nil {
		in.Stock.Small = *req.Small
	}
	if req.Medium != nil {
		in.Stock.Medium = *req.Medium
	}
	if req.Large != nil {
		in.Stock.Large = *req.Large
	}
	return in
}

func isMultipart(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "multipart/form-data"
}

// readProductRequest acepta multipart/form-data (con imagen opcional en "image") o JSON.
func readProductRequest(w http.ResponseWriter, r *http.Request) (productRequest, *domain.ImageUpload, error) {
	var req productRequest
	if !isMultipart(r) {
		return req, nil, decodeJSON(w, r, &req)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+1<<20)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return req, nil, domain.NewValidationError("body", "Invalid multipart form: %v", err)
	}
	form := r.MultipartForm.Value
	if v, ok := formValue(form, "name"); ok {
		req.Name = &v
	}
	if v, ok := formValue(form, "category"); ok {
		c, err := domain.ParseCategory(v)
		if err != nil {
			return req, nil, err
		}
		req.Category = &c
	}
	if v, ok := formValue(form, "price"); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return req, nil, domain.NewValidationError("price", "Invalid price %q", v)
		}
		req.Price = &d
	}
	for _, f := range []struct {
		key string
		dst **int
	}{{"small", &req.Small}, {"medium", &req.Medium}, {"large", &req.Large}} {
		v, ok := formValue(form, f.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return req, nil, domain.NewValidationError(f.key, "Invalid %s stock %q", f.key, v)
		}
		*f.dst = &n
	}

	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, nil
	}
	if err != nil {
		return req, nil, domain.NewValidationError("image", "Invalid image: %v", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return req, nil, err
	}
	if len(data) == 0 {
		return req, nil, nil
	}
	return req, &domain.ImageUpload{Filename: hdr.Filename, Data: data}, nil
}

func formValue(form map[string][]string, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (s *Server) apiCreateProduct(w http.ResponseWriter, r *http.Request) {
	req, img, err := readProductRequest(w, r)
	if err != nil {
		writeError(w, r, err, "Product", "creating product")
		return
	}
	p, err := s.products.Create(r.Context(), req.input(), img)
	if err != nil {
		writeError(w, r, err, "Product", "creating product")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Product added successfully", "product": p})
}

func (s *Server) apiListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.List(r.Context())
	if err != nil {
		writeError(w, r, err, "Product", "fetching products")
		return
	}
	writeJSON(w, 200, list)
}

func (s *Server) apiGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Product", "fetching product")
		return
	}
	p, err := s.products.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Product", "fetching product")
		return
	}
	writeJSON(w, 200, p)
}

func (s *Server) apiUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Product", "updating product")
		return
	}
	req, img, err := readProductRequest(w, r)
	if err != nil {
		writeError(w, r, err, "Product", "updating product")
		return
	}
	p, err := s.products.Update(r.Context(), id, req.patch(), img)
	if err != nil {
		writeError(w, r, err, "Product", "updating product")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Product updated successfully", "product": p})
}

func (s *Server) apiDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, "Product", "deleting product")
		return
	}
	if err := s.products.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "Product", "deleting product")
		return
	}
	writeJSON(w, 200, map[string]any{"message": "Product deleted successfully"})
}

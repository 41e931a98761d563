package mockapi

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"ecomstore/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	maxImageBytes    = 5 << 20
	maxProductImages = 5
)

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.productForUpload(w, r)
	if !ok {
		return
	}
	primary, _ := strconv.ParseBool(r.URL.Query().Get("isPrimary"))

	_, header, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, "File is required", nil)
		return
	}
	img, status, msg := s.storeImage(productID, header, primary)
	if status != http.StatusOK {
		respond(w, status, msg, nil)
		return
	}
	respond(w, http.StatusOK, "Image uploaded", img)
}

func (s *Server) uploadImages(w http.ResponseWriter, r *http.Request) {
	productID, ok := s.productForUpload(w, r)
	if !ok {
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respond(w, http.StatusBadRequest, "Files are required", nil)
		return
	}
	p, _ := s.store.Product(productID)
	if len(p.Images)+len(headers) > maxProductImages {
		respond(w, http.StatusBadRequest, fmt.Sprintf("A product can have at most %d images", maxProductImages), nil)
		return
	}

	uploaded := make([]models.ProductImage, 0, len(headers))
	for _, h := range headers {
		img, status, msg := s.storeImage(productID, h, false)
		if status != http.StatusOK {
			respond(w, status, msg, nil)
			return
		}
		uploaded = append(uploaded, img)
	}
	respond(w, http.StatusOK, "Images uploaded", uploaded)
}

func (s *Server) productForUpload(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, ok := pathID(r, "productId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return 0, false
	}
	if _, ok := s.store.Product(productID); !ok {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return 0, false
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respond(w, http.StatusBadRequest, "Invalid multipart body", nil)
		return 0, false
	}
	return productID, true
}

func (s *Server) storeImage(productID int64, h *multipart.FileHeader, primary bool) (models.ProductImage, int, string) {
	contentType := h.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return models.ProductImage{}, http.StatusBadRequest, "Only image files are allowed"
	}
	if h.Size > maxImageBytes {
		return models.ProductImage{}, http.StatusBadRequest, "Image exceeds 5MB"
	}
	f, err := h.Open()
	if err != nil {
		return models.ProductImage{}, http.StatusBadRequest, "Unreadable file"
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return models.ProductImage{}, http.StatusBadRequest, "Unreadable file"
	}

	fileName := uuid.NewString() + strings.ToLower(filepath.Ext(h.Filename))
	img, err := s.store.AddImage(productID, models.ProductImage{
		FileName:         fileName,
		OriginalFileName: h.Filename,
		ContentType:      contentType,
		FileSize:         int64(len(data)),
		ImageURL:         fmt.Sprintf("/api/images/products/%d/%s", productID, fileName),
	}, data, primary)
	if err != nil {
		return models.ProductImage{}, http.StatusNotFound, "Product not found"
	}
	return img, http.StatusOK, ""
}

func (s *Server) productImages(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	p, ok := s.store.Product(productID)
	if !ok {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	respond(w, http.StatusOK, "Images fetched", p.Images)
}

func (s *Server) primaryImage(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	p, ok := s.store.Product(productID)
	if !ok {
		respond(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	img, ok := p.PrimaryImage()
	if !ok {
		respond(w, http.StatusNotFound, "No primary image", nil)
		return
	}
	respond(w, http.StatusOK, "Primary image fetched", img)
}

func (s *Server) setPrimaryImage(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid product id", nil)
		return
	}
	imageID, ok := pathID(r, "imageId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid image id", nil)
		return
	}
	img, err := s.store.SetPrimaryImage(productID, imageID)
	if err != nil {
		respond(w, http.StatusNotFound, "Image not found", nil)
		return
	}
	respond(w, http.StatusOK, "Primary image updated", img)
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	imageID, ok := pathID(r, "imageId")
	if !ok {
		respond(w, http.StatusBadRequest, "Invalid image id", nil)
		return
	}
	if err := s.store.DeleteImage(imageID); err != nil {
		respond(w, http.StatusNotFound, "Image not found", nil)
		return
	}
	respond(w, http.StatusOK, "Image deleted", nil)
}

func (s *Server) imageFile(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productId")
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, ok := s.store.ImageData(productID, mux.Vars(r)["fileName"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Write(data)
}

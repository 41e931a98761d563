package services

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	MaxImageBytes    = 5 << 20
	MaxProductImages = 5
)

type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// RejectedImage names a file that failed validation and why.
type RejectedImage struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ValidateImages splits files into uploadable and rejected ones. existing is
// the number of images already on the product; when the valid files would
// push it past MaxProductImages, ErrTooManyImages is returned.
func ValidateImages(files []ImageFile, existing int) ([]ImageFile, []RejectedImage, error) {
	var valid []ImageFile
	var rejected []RejectedImage
	for _, f := range files {
		if f.ContentType == "" || f.ContentType == "application/octet-stream" {
			f.ContentType = http.DetectContentType(f.Data)
		}
		switch {
		case !strings.HasPrefix(f.ContentType, "image/"):
			rejected = append(rejected, RejectedImage{Name: f.Name, Reason: "not an image file"})
		case len(f.Data) > MaxImageBytes:
			rejected = append(rejected, RejectedImage{Name: f.Name, Reason: "larger than 5MB"})
		default:
			valid = append(valid, f)
		}
	}
	if existing+len(valid) > MaxProductImages {
		return nil, rejected, fmt.Errorf("%w: %d existing + %d new exceeds %d",
			ErrTooManyImages, existing, len(valid), MaxProductImages)
	}
	return valid, rejected, nil
}

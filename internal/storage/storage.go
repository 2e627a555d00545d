// Package storage dépose les images produits dans un bucket MinIO / S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxImageSize = 5 << 20

var ErrDisabled = errors.New("storage: image storage disabled")

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AllowedType indique si le content-type est une image acceptée
func AllowedType(contentType string) bool {
	_, ok := allowedTypes[strings.ToLower(contentType)]
	return ok
}

type ImageStore interface {
	// Upload renvoie l'URL publique de l'objet créé
	Upload(ctx context.Context, productID primitive.ObjectID, filename, contentType string, r io.Reader, size int64) (string, error)
}

type Disabled struct{}

func (Disabled) Upload(context.Context, primitive.ObjectID, string, string, io.Reader, int64) (string, error) {
	return "", ErrDisabled
}

// ObjectName: products/<productId>/<uuid><ext>, l'extension suit le content-type si le nom n'en a pas
func ObjectName(productID primitive.ObjectID, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = allowedTypes[strings.ToLower(contentType)]
	}
	return fmt.Sprintf("products/%s/%s%s", productID.Hex(), uuid.NewString(), ext)
}

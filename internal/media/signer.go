// Package media transforme les clés d'objets MinIO des images produit en URLs
// signées. Les URLs absolues sont laissées telles quelles.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const DefaultExpiry = time.Hour

// Presigner est la partie du client MinIO utilisée ici.
type Presigner interface {
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

type Signer struct {
	client Presigner
	bucket string
	expiry time.Duration
}

func NewSigner(client Presigner, bucket string) *Signer {
	return &Signer{client: client, bucket: bucket, expiry: DefaultExpiry}
}

func NewMinio(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("client minio: %w", err)
	}
	return client, nil
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// SignProducts retourne une copie des produits dont les images sont signées.
// Une image qui ne peut pas être signée est gardée telle quelle.
func (s *Signer) SignProducts(ctx context.Context, products []models.Product) []models.Product {
	if s == nil {
		return products
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = s.SignProduct(ctx, p)
	}
	return out
}

func (s *Signer) SignProduct(ctx context.Context, p models.Product) models.Product {
	if s == nil || len(p.Images) == 0 {
		return p
	}
	images := make([]string, len(p.Images))
	for i, ref := range p.Images {
		images[i] = ref
		if ref == "" || isAbsolute(ref) {
			continue
		}
		signed, err := s.client.PresignedGetObject(ctx, s.bucket, strings.TrimPrefix(ref, "/"), s.expiry, url.Values{})
		if err != nil {
			zap.L().Warn("⚠️ Signature image impossible", zap.String("object", ref), zap.Error(err))
			continue
		}
		images[i] = signed.String()
	}
	p.Images = images
	return p
}

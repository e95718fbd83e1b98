package media

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/stretchr/testify/assert"
)

type fakePresigner struct {
	fail map[string]bool
}

func (f fakePresigner) PresignedGetObject(_ context.Context, bucket, object string, expiry time.Duration, _ url.Values) (*url.URL, error) {
	if f.fail[object] {
		return nil, errors.New("denied")
	}
	return url.Parse("https://cdn.example.com/" + bucket + "/" + object + "?X-Amz-Expires=" + expiry.String())
}

func TestSignProduct(t *testing.T) {
	s := NewSigner(fakePresigner{fail: map[string]bool{"broken.jpg": true}}, "products")

	p := models.Product{ID: "p1", Images: []string{
		"abayas/royal-front.jpg",
		"https://images.example.com/ready.jpg",
		"/broken.jpg",
	}}
	got := s.SignProduct(context.Background(), p)

	assert.Equal(t, "https://cdn.example.com/products/abayas/royal-front.jpg?X-Amz-Expires=1h0m0s", got.Images[0])
	assert.Equal(t, "https://images.example.com/ready.jpg", got.Images[1])
	assert.Equal(t, "/broken.jpg", got.Images[2])
	assert.Equal(t, "abayas/royal-front.jpg", p.Images[0], "input must not be mutated")
}

func TestNilSignerIsIdentity(t *testing.T) {
	var s *Signer
	products := []models.Product{{ID: "p1", Images: []string{"a.jpg"}}}

	assert.Equal(t, products, s.SignProducts(context.Background(), products))
}

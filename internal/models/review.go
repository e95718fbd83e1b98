package models

import "time"

type Review struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Rating       int       `json:"rating"` // 1-5
	ReviewerName string    `json:"reviewer_name"`
	Comment      string    `json:"comment"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReview est ce que le client fournit : ni id, ni date, ni vérification.
type NewReview struct {
	ProductID    string `json:"product_id"`
	Rating       int    `json:"rating"`
	ReviewerName string `json:"reviewer_name"`
	Comment      string `json:"comment"`
}

type ReviewStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

package entity

import "time"

type Stadium struct {
	ID           string    `json:"id" firestore:"id"`
	Name         string    `json:"name" firestore:"name"`
	Address      string    `json:"address" firestore:"address"`
	City         string    `json:"city" firestore:"city"`
	PricePerHour int64     `json:"price_per_hour" firestore:"pricePerHour"`
	ImageURL     string    `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	CreatedBy    string    `json:"created_by" firestore:"createdBy"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartRecomputeTotal(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{CourseID: 101, Quantity: 2, Price: 10},
			{CourseID: 102, Quantity: 1, Price: 25.5},
		},
	}

	assert.Equal(t, 45.5, cart.RecomputeTotal())

	// Idempotent: deriving again changes nothing
	assert.Equal(t, cart.RecomputeTotal(), cart.RecomputeTotal())

	empty := Cart{}
	assert.Equal(t, 0.0, empty.RecomputeTotal())
}

func TestCartItemCount(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{CourseID: 101, Quantity: 3, Price: 10},
			{CourseID: 102, Quantity: 1, Price: 5},
		},
	}

	assert.Equal(t, 4, cart.ItemCount())
	assert.Equal(t, 0, (&Cart{}).ItemCount())
}

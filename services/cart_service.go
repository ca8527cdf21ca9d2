package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edumart/api/model"
	"github.com/edumart/api/utils/cache"
	"gorm.io/gorm"
)

const cartCountTTL = 60 * time.Second

// CartService maintains one cart per learner. The cart total is always
// derived from the line items; client-supplied totals are never trusted.
type CartService struct {
	db    *gorm.DB
	cache *cache.RedisCache // optional, used for the cart badge count
}

// NewCartService creates a new cart service
func NewCartService(db *gorm.DB, redisCache *cache.RedisCache) *CartService {
	return &CartService{db: db, cache: redisCache}
}

func cartCountKey(userID uint) string {
	return fmt.Sprintf("cart:count:%d", userID)
}

// GetOrCreate returns the learner's cart, creating an empty one if absent
func (s *CartService) GetOrCreate(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = model.Cart{UserID: userID, TotalPrice: 0}
	if err := s.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a course to the learner's cart. If the course is already in
// the cart its quantity is incremented; otherwise a new line is appended with
// the course price snapshotted at add time.
func (s *CartService) AddItem(ctx context.Context, userID uint, courseID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var course model.Course
	if err := s.db.WithContext(ctx).Where("course_id = ?", courseID).First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		findErr := tx.Where("cart_id = ? AND course_id = ?", cart.ID, courseID).First(&item).Error
		switch findErr {
		case nil:
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case gorm.ErrRecordNotFound:
			item = model.CartItem{
				CartID:   cart.ID,
				CourseID: courseID,
				Quantity: quantity,
				Price:    course.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return findErr
		}

		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, userID)
	return s.reload(ctx, cart.ID)
}

// RemoveItem removes a course line from the cart. A missing line is a no-op,
// not an error; a missing cart is.
func (s *CartService) RemoveItem(ctx context.Context, userID uint, courseID int64) (*model.Cart, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ? AND course_id = ?", cart.ID, courseID).
			Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, userID)
	return s.reload(ctx, cart.ID)
}

// SetItemQuantity sets the quantity of an existing cart line
func (s *CartService) SetItemQuantity(ctx context.Context, userID uint, courseID int64, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		if err := tx.Where("cart_id = ? AND course_id = ?", cart.ID, courseID).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrItemNotFound
			}
			return err
		}

		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, userID)
	return s.reload(ctx, cart.ID)
}

// RecomputeTotal re-derives the stored total from the current lines and
// returns the updated cart. Used by the updatetotalprice endpoint, which
// ignores the client-supplied total and logs any discrepancy.
func (s *CartService) RecomputeTotal(ctx context.Context, userID uint, claimedTotal float64) (*model.Cart, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeTotal(s.db.WithContext(ctx), cart.ID); err != nil {
		return nil, err
	}

	updated, err := s.reload(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	if claimedTotal != updated.TotalPrice {
		log.Printf("cart %d: client claimed total %.2f, derived total %.2f; keeping derived value",
			cart.ID, claimedTotal, updated.TotalPrice)
	}

	return updated, nil
}

// Clear deletes the learner's cart entirely
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		if err == ErrCartNotFound {
			return nil
		}
		return err
	}

	err = s.db.WithContext(ctx).Select("Items").Delete(cart).Error
	if err != nil {
		return err
	}

	s.invalidateCount(ctx, userID)
	return nil
}

// Count returns the summed quantity across all lines, or 0 without a cart
func (s *CartService) Count(ctx context.Context, userID uint) (int, error) {
	if s.cache != nil {
		var cached int
		if err := s.cache.GetJSON(ctx, cartCountKey(userID), &cached); err == nil {
			return cached, nil
		}
	}

	cart, err := s.findCart(ctx, userID)
	if err != nil {
		if err == ErrCartNotFound {
			return 0, nil
		}
		return 0, err
	}

	count := cart.ItemCount()
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cartCountKey(userID), count, cartCountTTL); err != nil {
			log.Printf("failed to cache cart count for user %d: %v", userID, err)
		}
	}
	return count, nil
}

func (s *CartService) findCart(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) reload(ctx context.Context, cartID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := s.db.WithContext(ctx).Preload("Items").First(&cart, cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal derives the total from the stored lines inside tx. The
// derivation is idempotent: running it twice in a row yields the same total.
func (s *CartService) recomputeTotal(tx *gorm.DB, cartID uint) error {
	var items []model.CartItem
	if err := tx.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}

	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.Price
	}

	return tx.Model(&model.Cart{}).Where("id = ?", cartID).
		UpdateColumn("total_price", total).Error
}

func (s *CartService) invalidateCount(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cartCountKey(userID)); err != nil {
		log.Printf("failed to invalidate cart count for user %d: %v", userID, err)
	}
}

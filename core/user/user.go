package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CartItems    Cart      `json:"cartItems" db:"cart_items"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Cart is the ordered list of item ids a user put in the cart. It is stored
// as a JSON array in the user row and holds no reference to the items table.
type Cart []int64

func (c Cart) Contains(id int64) bool {
	for _, v := range c {
		if v == id {
			return true
		}
	}
	return false
}

func (c Cart) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]int64(c))
	if err != nil {
		return nil, fmt.Errorf("encoding cart: %w", err)
	}
	return string(b), nil
}

func (c *Cart) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*c = Cart{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into cart", src)
	}

	ids := []int64{}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &ids); err != nil {
			return fmt.Errorf("decoding cart: %w", err)
		}
	}
	*c = ids
	return nil
}

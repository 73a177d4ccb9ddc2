package item

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Item struct {
	ID          int64     `json:"id" db:"item_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       Price     `json:"price" db:"price_cents"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type ItemNew struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=200"`
	Price       Price  `json:"price" validate:"gte=0"`
}

type ItemUp struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,min=1,max=200"`
	Price       *Price  `json:"price" validate:"omitempty,gte=0"`
}

// Price is an amount in minor currency units (cents). It reads and writes as
// a decimal with two fractional digits; extra digits are truncated.
type Price int64

// maxUnits keeps units*100 + 99 within int64.
const maxUnits = (math.MaxInt64 - 99) / 100

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty price")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative price %q", s)
	}
	s = strings.TrimPrefix(s, "+")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	if whole == "" {
		whole = "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > maxUnits {
		return 0, fmt.Errorf("price %q out of range", s)
	}

	frac += "00"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)

	return Price(units*100 + cents), nil
}

// MinorUnits is the amount in cents, as payment providers expect it.
func (p Price) MinorUnits() int64 {
	return int64(p)
}

func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	v, err := ParsePrice(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

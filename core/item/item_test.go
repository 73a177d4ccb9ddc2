package item_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/e-commerce-books/apperr"
	"github.com/irsalhamdi/e-commerce-books/core/item"
	"github.com/irsalhamdi/e-commerce-books/database/dbtest"
	"github.com/irsalhamdi/e-commerce-books/validate"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want item.Price
		bad  bool
	}{
		{in: "9.99", want: 999},
		{in: "10", want: 1000},
		{in: "0.5", want: 50},
		{in: ".75", want: 75},
		{in: "9.999", want: 999},
		{in: "12.345678", want: 1234},
		{in: " 3.10 ", want: 310},
		{in: "-1", bad: true},
		{in: "abc", bad: true},
		{in: "1.2x", bad: true},
		{in: "", bad: true},
		{in: ".", bad: true},
		{in: "+", bad: true},
		{in: "+-5", bad: true},
		{in: "1.2.3", bad: true},
		{in: "92233720368547757.99", want: 9223372036854775799},
		{in: "92233720368547758", bad: true},
		{in: "184467440737095517", bad: true},
	}

	for _, tt := range tests {
		got, err := item.ParsePrice(tt.in)
		if tt.bad {
			if err == nil {
				t.Errorf("ParsePrice(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePrice(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestPriceJSON(t *testing.T) {
	var in item.ItemNew
	if err := json.Unmarshal([]byte(`{"title":"Book","description":"D","price":9.99}`), &in); err != nil {
		t.Fatalf("decoding number price: %v", err)
	}
	if in.Price != 999 || in.Price.MinorUnits() != 999 {
		t.Fatalf("expected 999 cents, got %d", in.Price)
	}

	if err := json.Unmarshal([]byte(`{"title":"Book","description":"D","price":"4.5"}`), &in); err != nil {
		t.Fatalf("decoding string price: %v", err)
	}
	if in.Price != 450 {
		t.Fatalf("expected 450 cents, got %d", in.Price)
	}

	if err := json.Unmarshal([]byte(`{"title":"Book","description":"D","price":184467440737095517}`), &in); err == nil {
		t.Fatal("expected an out of range price to fail decoding")
	}

	b, err := json.Marshal(item.Item{Price: 905})
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatal(err)
	}
	if out["price"] != 9.05 {
		t.Fatalf("expected 9.05, got %v", out["price"])
	}
}

func TestItemNewValidation(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	bad := []item.ItemNew{
		{Description: "D", Price: 1},
		{Title: "Book", Price: 1},
		{Title: string(long), Description: "D", Price: 1},
	}
	for _, in := range bad {
		if err := validate.Check(in); err == nil {
			t.Errorf("expected %+v to fail validation", in)
		}
	}

	if err := validate.Check(item.ItemNew{Title: "Book", Description: "D", Price: 0}); err != nil {
		t.Fatalf("free items are valid: %v", err)
	}
}

func TestStore(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	now := time.Now().UTC()
	first, err := item.Create(ctx, db, item.Item{Title: "First", Description: "D", Price: 100, CreatedAt: now})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}
	second, err := item.Create(ctx, db, item.Item{Title: "Second", Description: "D", Price: 200, CreatedAt: now.Add(time.Second)})
	if err != nil {
		t.Fatalf("creating item: %v", err)
	}

	list, err := item.List(ctx, db)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	var ids []int64
	for _, it := range list {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]int64{first.ID, second.ID}, ids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	title := "Renamed"
	price := item.Price(250)
	up := item.Apply(first, item.ItemUp{Title: &title, Price: &price})
	if err := item.Update(ctx, db, up); err != nil {
		t.Fatalf("updating: %v", err)
	}

	got, err := item.Fetch(ctx, db, first.ID)
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if got.Title != "Renamed" || got.Description != "D" || got.Price != 250 {
		t.Fatalf("unexpected item after update %+v", got)
	}

	if err := item.Delete(ctx, db, first.ID); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	if _, err := item.Fetch(ctx, db, first.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
	if err := item.Delete(ctx, db, first.ID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound deleting twice, got %v", err)
	}
	if err := item.Update(ctx, db, first); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound updating a deleted item, got %v", err)
	}
}

func TestFetchByIDsKeepsOrder(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"A", "B", "C"} {
		it, err := item.Create(ctx, db, item.Item{Title: title, Description: "D", CreatedAt: time.Now().UTC()})
		if err != nil {
			t.Fatalf("creating item: %v", err)
		}
		ids = append(ids, it.ID)
	}

	got, err := item.FetchByIDs(ctx, db, []int64{ids[2], 9999, ids[0]})
	if err != nil {
		t.Fatalf("fetching: %v", err)
	}
	if len(got) != 2 || got[0].Title != "C" || got[1].Title != "A" {
		t.Fatalf("unexpected items %+v", got)
	}
}

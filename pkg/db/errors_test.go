package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not be a violation")
	}
	if !IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_products_name"`), "") {
		t.Fatal("expected generic duplicate key match")
	}
	if !IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_products_name"`), "idx_products_name") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "idx_products_name") {
		t.Fatal("unrelated errors must not match")
	}
}

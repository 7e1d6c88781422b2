package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/farmermarket/backend/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"notblank"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role"     validate:"required,oneof=farmer buyer"`
}

type lineInput struct {
	ProductID uint            `json:"productId" validate:"required"`
	Quantity  int             `json:"quantity"  validate:"gte=1"`
	Price     decimal.Decimal `json:"price"     validate:"gte=0"`
}

type orderInput struct {
	BuyerEmail string      `json:"buyerEmail" validate:"required,email"`
	Items      []lineInput `json:"items"      validate:"required,min=1,dive"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret",
		Role:     "farmer",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be reported, got %v", field, errs)
		}
	}
}

func TestBlankStringIsRequired(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "   ", Email: "a@b.io", Password: "1234", Role: "buyer"})
	if errs["name"] != "The name field is required." {
		t.Errorf("unexpected message: %v", errs)
	}
}

func TestOneOfRule(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "x", Email: "a@b.io", Password: "1234", Role: "admin"})
	if errs["role"] != "The selected role is invalid." {
		t.Errorf("expected role error, got %v", errs)
	}
}

func TestNestedItemsUseJSONPath(t *testing.T) {
	errs := validate.Struct(orderInput{
		BuyerEmail: "b@example.com",
		Items: []lineInput{
			{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("2.50")},
			{ProductID: 2, Quantity: 0, Price: decimal.RequireFromString("-1")},
		},
	})
	if _, ok := errs["items[1].quantity"]; !ok {
		t.Errorf("expected items[1].quantity error, got %v", errs)
	}
	if _, ok := errs["items[1].price"]; !ok {
		t.Errorf("expected items[1].price error, got %v", errs)
	}
	if _, ok := errs["items[0].quantity"]; ok {
		t.Errorf("did not expect items[0] errors, got %v", errs)
	}
}

func TestEmptyItemsRejected(t *testing.T) {
	errs := validate.Struct(orderInput{BuyerEmail: "b@example.com"})
	if _, ok := errs["items"]; !ok {
		t.Errorf("expected items error, got %v", errs)
	}
}

func TestNonStructIsIgnored(t *testing.T) {
	if errs := validate.Struct(42); validate.HasErrors(errs) {
		t.Errorf("expected no errors for non-struct, got %v", errs)
	}
}

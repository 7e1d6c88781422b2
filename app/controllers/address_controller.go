package controllers

import (
	"net/http"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/response"
)

const addressNotFound = "No address found for this buyer"

type AddressController struct {
	addresses *services.AddressService
}

func NewAddressController(addresses *services.AddressService) *AddressController {
	return &AddressController{addresses: addresses}
}

// Show handles GET /api/address/{buyerEmail}.
func (c *AddressController) Show(w http.ResponseWriter, r *http.Request) {
	a, err := c.addresses.ByEmail(r.Context(), param(r, "buyerEmail"))
	if err != nil {
		fail(w, r, err, addressNotFound)
		return
	}
	response.Success(w, a)
}

// Save handles POST /api/address/save.
func (c *AddressController) Save(w http.ResponseWriter, r *http.Request) {
	var a models.Address
	errs, err := bind.JSON(r, &a)
	if err != nil {
		response.BadRequest(w, "Invalid address: "+err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	saved, err := c.addresses.Save(r.Context(), a)
	if err != nil {
		fail(w, r, err, addressNotFound)
		return
	}
	response.Success(w, saved)
}

// Delete handles DELETE /api/address/{buyerEmail}. A missing address is not
// an error.
func (c *AddressController) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := c.addresses.Delete(r.Context(), param(r, "buyerEmail"))
	if err != nil {
		fail(w, r, err, addressNotFound)
		return
	}
	if !removed {
		response.Message(w, addressNotFound)
		return
	}
	response.Message(w, "Address deleted successfully")
}

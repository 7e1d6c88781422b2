package controllers

import (
	"net/http"

	"github.com/farmermarket/backend/app/services"
	"github.com/farmermarket/backend/pkg/bind"
	"github.com/farmermarket/backend/pkg/response"
)

type NameController struct {
	names *services.NameService
}

func NewNameController(names *services.NameService) *NameController {
	return &NameController{names: names}
}

// Add handles POST /api/add-name and always answers 200.
func (c *NameController) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if _, err := bind.JSON(r, &body); err != nil || !c.names.Save(r.Context(), body.Name) {
		response.Message(w, "Failed")
		return
	}
	response.Message(w, "Success")
}

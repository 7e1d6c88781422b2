// Package routes registers the REST API on the router.
package routes

import (
	"github.com/farmermarket/backend/app/controllers"
	"github.com/farmermarket/backend/pkg/router"
)

// Controllers holds every API handler set.
type Controllers struct {
	Orders    *controllers.OrderController
	Products  *controllers.ProductController
	Messages  *controllers.MessageController
	Addresses *controllers.AddressController
	Users     *controllers.UserController
	Names     *controllers.NameController
}

func RegisterAPI(r *router.Router, c Controllers) {
	api := r.Group("/api")

	orders := api.Group("/orders")
	orders.Post("", "orders.place", c.Orders.Place)
	orders.Get("", "orders.index", c.Orders.All)
	orders.Get("/debug/all", "orders.debug", c.Orders.All)
	orders.Get("/pending", "orders.pending", c.Orders.Pending)
	orders.Get("/buyer/{email}", "orders.buyer", c.Orders.Buyer)
	orders.Put("/status/{orderId}", "orders.status", c.Orders.UpdateStatus)
	orders.Delete("/cancel/{orderId}", "orders.cancel", c.Orders.Cancel)
	orders.Put("/{orderId}/items", "orders.items", c.Orders.ReplaceItems)
	orders.Get("/{orderId}", "orders.show", c.Orders.Show)

	products := api.Group("/products")
	products.Post("", "products.store", c.Products.Create)
	products.Get("", "products.index", c.Products.List)
	products.Get("/{id}", "products.show", c.Products.Show)
	products.Get("/{id}/image", "products.image", c.Products.Image)
	products.Put("/{id}", "products.update", c.Products.Update)
	products.Delete("/{id}", "products.destroy", c.Products.Delete)

	messages := api.Group("/messages")
	messages.Post("/send", "messages.send", c.Messages.Send)
	messages.Get("/buyer/{email}", "messages.buyer", c.Messages.Buyer)
	messages.Get("/admin", "messages.admin", c.Messages.Admin)

	address := api.Group("/address")
	address.Post("/save", "address.save", c.Addresses.Save)
	address.Get("/{buyerEmail}", "address.show", c.Addresses.Show)
	address.Delete("/{buyerEmail}", "address.destroy", c.Addresses.Delete)

	users := api.Group("/users")
	users.Post("/register", "users.register", c.Users.Register)
	users.Post("/login", "users.login", c.Users.Login)
	users.Put("/update/{email}", "users.update", c.Users.Update)
	users.Get("/{email}", "users.show", c.Users.Show)

	api.Post("/add-name", "names.store", c.Names.Add)
}

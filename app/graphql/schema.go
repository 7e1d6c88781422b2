// Package graphql exposes a read-only GraphQL view of products, orders and
// messages. Resolvers call the same services as the REST controllers.
package graphql

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/app/services"
	gql "github.com/farmermarket/backend/pkg/graphql"
)

// Services are the managers the resolvers read from.
type Services struct {
	Orders   *services.OrderService
	Products *services.ProductService
	Messages *services.MessageService
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var orderItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OrderItem",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"productId":   &graphql.Field{Type: graphql.Int},
		"productName": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"quantity":    &graphql.Field{Type: graphql.Int},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"price": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return money(p.Source.(models.OrderItem).Price), nil
			},
		},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"orderId":    &graphql.Field{Type: graphql.String},
		"buyerEmail": &graphql.Field{Type: graphql.String},
		"firstName":  &graphql.Field{Type: graphql.String},
		"lastName":   &graphql.Field{Type: graphql.String},
		"phone":      &graphql.Field{Type: graphql.String},
		"province":   &graphql.Field{Type: graphql.String},
		"district":   &graphql.Field{Type: graphql.String},
		"city":       &graphql.Field{Type: graphql.String},
		"address":    &graphql.Field{Type: graphql.String},
		"payment":    &graphql.Field{Type: graphql.String},
		"status":     &graphql.Field{Type: graphql.String},
		"items":      &graphql.Field{Type: graphql.NewList(orderItemType)},
		"deliveryFee": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return money(p.Source.(models.Order).DeliveryFee), nil
			},
		},
		"total": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return money(p.Source.(models.Order).Total), nil
			},
		},
		"orderDate": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return timestamp(p.Source.(models.Order).OrderDate), nil
			},
		},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.Int},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(services.ProductView).Category), nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.Float,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return money(p.Source.(services.ProductView).Price), nil
			},
		},
		"imageUrl": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if u := p.Source.(services.ProductView).ImageURL; u != nil {
					return *u, nil
				}
				return nil, nil
			},
		},
	},
})

var messageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Message",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"buyerName":  &graphql.Field{Type: graphql.String},
		"buyerEmail": &graphql.Field{Type: graphql.String},
		"senderRole": &graphql.Field{Type: graphql.String},
		"subject":    &graphql.Field{Type: graphql.String},
		"message":    &graphql.Field{Type: graphql.String},
		"imagePath":  &graphql.Field{Type: graphql.String},
		"status":     &graphql.Field{Type: graphql.String},
		"createdAt": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return timestamp(p.Source.(models.Message).CreatedAt), nil
			},
		},
	},
})

// NewSchema builds the root query over svc.
func NewSchema(svc Services) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := svc.Products.List(p.Context)
					if err != nil {
						return nil, err
					}
					views := make([]services.ProductView, 0, len(products))
					for _, pr := range products {
						views = append(views, services.NewProductView(pr))
					}
					return views, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pr, err := svc.Products.Find(p.Context, uint(p.Args["id"].(int)))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return services.NewProductView(pr), nil
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Orders.AllOrders(p.Context)
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: graphql.FieldConfigArgument{
					"orderId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					o, err := svc.Orders.OrderByID(p.Context, p.Args["orderId"].(string))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return o, nil
				},
			},
			"buyerOrders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Orders.BuyerOrders(p.Context, p.Args["email"].(string))
				},
			},
			"pendingOrders": &graphql.Field{
				Type: graphql.NewList(orderType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Orders.PendingOrders(p.Context)
				},
			},
			"buyerMessages": &graphql.Field{
				Type: graphql.NewList(messageType),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return svc.Messages.BuyerMessages(p.Context, p.Args["email"].(string))
				},
			},
		},
	})
	return gql.NewSchema(query)
}

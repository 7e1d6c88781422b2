package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
)

func init() {
	Register("products", SeedProducts)
	Register("users", SeedUsers)
}

var demoProducts = []models.Product{
	{Name: "Red Apples", Category: models.CategoryFruit, Price: decimal.RequireFromString("450.00"), Description: "Crisp hill-country apples, per kg."},
	{Name: "Bananas", Category: models.CategoryFruit, Price: decimal.RequireFromString("180.00"), Description: "Ripe ambul bananas, per bunch."},
	{Name: "Carrots", Category: models.CategoryVegetable, Price: decimal.RequireFromString("220.00"), Description: "Fresh upcountry carrots, per kg."},
	{Name: "Leeks", Category: models.CategoryVegetable, Price: decimal.RequireFromString("260.00"), Description: "Nuwara Eliya leeks, per kg."},
}

var demoUsers = []models.User{
	{Name: "Demo Farmer", Email: "farmer@example.com", Password: "farmer123", Role: models.RoleFarmer},
	{Name: "Demo Buyer", Email: "buyer@example.com", Password: "buyer123", Role: models.RoleBuyer},
}

// SeedProducts inserts the demo catalogue, keyed by product name.
func SeedProducts(db *gorm.DB) error {
	for _, p := range demoProducts {
		p := p
		if err := db.Where(models.Product{Name: p.Name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers inserts one farmer and one buyer account, keyed by email.
func SeedUsers(db *gorm.DB) error {
	for _, u := range demoUsers {
		u := u
		if err := db.Where(models.User{Email: u.Email}).FirstOrCreate(&u).Error; err != nil {
			return err
		}
	}
	return nil
}

package testdata

import (
	"time"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// FixedTestUser returns the user for scenarios that need stable data.
func FixedTestUser() models.UserRecord {
	return models.UserRecord{
		DisplayName:  "Test User",
		Email:        "test.user@example.com",
		Password:     "password123",
		Title:        models.TitleMr,
		BirthDay:     1,
		BirthMonth:   time.January,
		BirthYear:    1990,
		FirstName:    "Test",
		LastName:     "User",
		Company:      "Test Company",
		Address1:     "123 Test Street",
		Address2:     "Apt 456",
		Country:      models.DefaultCountry,
		State:        "California",
		City:         "Los Angeles",
		Zipcode:      "90001",
		MobileNumber: "1234567890",
	}
}

// InvalidCredentials never match an account on the site.
var InvalidCredentials = struct {
	Email    string
	Password string
}{
	Email:    "invalid@example.com",
	Password: "invalidpassword",
}

var productTerms = []string{"dress", "top", "tshirt", "jeans"}

// ProductSearch holds one term the catalogue matches and one it does not.
type ProductSearch struct {
	Valid   string
	Invalid string
}

// SearchProducts picks search terms from the shared generator.
func SearchProducts() ProductSearch {
	return defaultGenerator.SearchProducts()
}

// SearchProducts picks search terms.
func (g *Generator) SearchProducts() ProductSearch {
	return ProductSearch{
		Valid:   g.pick(productTerms),
		Invalid: "invalid" + g.String(10),
	}
}

package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/qaforge/exercise-e2e/internal/models"
)

// Response codes the API reports in the JSON body
const (
	CodeOK               = 200
	CodeCreated          = 201
	CodeBadRequest       = 400
	CodeNotFound         = 404
	CodeMethodNotAllowed = 405
)

// Product is one entry of productsList and searchProduct.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Brand    string `json:"brand"`
	Category struct {
		UserType struct {
			UserType string `json:"usertype"`
		} `json:"usertype"`
		Category string `json:"category"`
	} `json:"category"`
}

// Brand is one entry of brandsList.
type Brand struct {
	ID    int    `json:"id"`
	Brand string `json:"brand"`
}

// UserDetail is the user returned by getUserDetailByEmail.
type UserDetail struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Title      string `json:"title"`
	BirthDay   string `json:"birth_day"`
	BirthMonth string `json:"birth_month"`
	BirthYear  string `json:"birth_year"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Zipcode    string `json:"zipcode"`
}

// Methods wraps the API's operations.
type Methods struct {
	client Client
}

// NewMethods creates the operations on top of client.
func NewMethods(client Client) *Methods {
	return &Methods{client: client}
}

// Client returns the underlying client for raw requests.
func (m *Methods) Client() Client {
	return m.client
}

// GetAllProducts lists every product.
func (m *Methods) GetAllProducts(ctx context.Context) (*Response, error) {
	return m.client.Get(ctx, EndpointProductsList, nil)
}

// GetAllBrands lists every brand.
func (m *Methods) GetAllBrands(ctx context.Context) (*Response, error) {
	return m.client.Get(ctx, EndpointBrandsList, nil)
}

// SearchProduct searches the catalogue for term.
func (m *Methods) SearchProduct(ctx context.Context, term string) (*Response, error) {
	return m.client.Post(ctx, EndpointSearchProduct, url.Values{"search_product": {term}})
}

// VerifyLogin checks whether the credentials belong to an account.
func (m *Methods) VerifyLogin(ctx context.Context, email, password string) (*Response, error) {
	return m.client.Post(ctx, EndpointVerifyLogin, url.Values{"email": {email}, "password": {password}})
}

// CreateAccount registers user.
func (m *Methods) CreateAccount(ctx context.Context, user models.UserRecord) (*Response, error) {
	return m.client.Post(ctx, EndpointCreateAccount, UserForm(user))
}

// DeleteAccount removes the account with the given credentials.
func (m *Methods) DeleteAccount(ctx context.Context, email, password string) (*Response, error) {
	return m.client.Delete(ctx, EndpointDeleteAccount, url.Values{"email": {email}, "password": {password}})
}

// UpdateAccount replaces the details of the account identified by user's
// email and password.
func (m *Methods) UpdateAccount(ctx context.Context, user models.UserRecord) (*Response, error) {
	return m.client.Put(ctx, EndpointUpdateAccount, UserForm(user))
}

// GetUserDetail fetches the account registered under email.
func (m *Methods) GetUserDetail(ctx context.Context, email string) (*Response, error) {
	return m.client.Get(ctx, EndpointGetUserDetail, url.Values{"email": {email}})
}

// UserForm encodes user the way createAccount and updateAccount expect.
func UserForm(user models.UserRecord) url.Values {
	return url.Values{
		"name":          {user.DisplayName},
		"email":         {user.Email},
		"password":      {user.Password},
		"title":         {string(user.Title)},
		"birth_date":    {strconv.Itoa(user.BirthDay)},
		"birth_month":   {strconv.Itoa(int(user.BirthMonth))},
		"birth_year":    {strconv.Itoa(user.BirthYear)},
		"firstname":     {user.FirstName},
		"lastname":      {user.LastName},
		"company":       {user.Company},
		"address1":      {user.Address1},
		"address2":      {user.Address2},
		"country":       {user.Country},
		"zipcode":       {user.Zipcode},
		"state":         {user.State},
		"city":          {user.City},
		"mobile_number": {user.MobileNumber},
	}
}

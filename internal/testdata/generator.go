// Package testdata produces the user and payment records scenarios submit to
// the site.
package testdata

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/qaforge/exercise-e2e/internal/models"
)

const (
	emailDomain    = "example.com"
	passwordLength = 12

	minBirthYear = 1970
	maxBirthYear = 2000
	// every month has a 28th
	maxBirthDay = 28

	expiryWindowYears = 10
)

var alphanumeric = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// Generator produces random records. It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// New creates a randomly seeded generator.
func New() *Generator {
	return NewWithSeed(0)
}

// NewWithSeed creates a generator whose output is reproducible for a non-zero seed.
func NewWithSeed(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// User generates a fully populated user. The display name and email are
// derived from the same first and last name.
func (g *Generator) User() models.UserRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	f := g.faker
	first, last := f.FirstName(), f.LastName()

	return models.UserRecord{
		DisplayName:  first + " " + last,
		Email:        g.email(first, last),
		Password:     f.Password(true, true, true, false, false, passwordLength),
		Title:        models.Titles[f.Number(0, len(models.Titles)-1)],
		BirthDay:     f.Number(1, maxBirthDay),
		BirthMonth:   time.Month(f.Number(1, 12)),
		BirthYear:    f.Number(minBirthYear, maxBirthYear),
		FirstName:    first,
		LastName:     last,
		Company:      f.Company(),
		Address1:     f.Street(),
		Address2:     fmt.Sprintf("Apt. %d", f.Number(100, 999)),
		Country:      models.DefaultCountry,
		State:        f.State(),
		City:         f.City(),
		Zipcode:      f.Numerify("#####"),
		MobileNumber: f.Numerify("##########"),
	}
}

// Payment generates a card that expires within the next ten years.
func (g *Generator) Payment() models.PaymentRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	f := g.faker
	year := g.now().Year()

	return models.PaymentRecord{
		NameOnCard:  f.Name(),
		CardNumber:  f.CreditCardNumber(&gofakeit.CreditCardOptions{Types: []string{"visa", "mastercard"}}),
		CVC:         f.Numerify("###"),
		ExpiryMonth: f.Number(1, 12),
		ExpiryYear:  f.Number(year, year+expiryWindowYears),
	}
}

// String returns n random alphanumeric characters, or "" when n is not positive.
func (g *Generator) String(n int) string {
	if n <= 0 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]rune, n)
	for i := range out {
		out[i] = alphanumeric[g.faker.Number(0, len(alphanumeric)-1)]
	}
	return string(out)
}

// Number returns a random int in [min, max].
func (g *Generator) Number(min, max int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.faker.Number(min, max)
}

// pick returns one element of items.
func (g *Generator) pick(items []string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return items[g.faker.Number(0, len(items)-1)]
}

// email builds first.last<digits>@example.com. Caller holds g.mu.
func (g *Generator) email(first, last string) string {
	local := emailPart(first) + "." + emailPart(last)
	return fmt.Sprintf("%s%d@%s", local, g.faker.Number(100, 9999), emailDomain)
}

// emailPart keeps the ASCII letters of a name, lowercased.
func emailPart(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r <= unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

var defaultGenerator = New()

// GenerateRandomUser returns a fresh user from the shared generator.
func GenerateRandomUser() models.UserRecord {
	return defaultGenerator.User()
}

// GenerateRandomPaymentDetails returns a fresh card from the shared generator.
func GenerateRandomPaymentDetails() models.PaymentRecord {
	return defaultGenerator.Payment()
}

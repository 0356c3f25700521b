package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultCountry is applied to addresses registered without a country.
const DefaultCountry = "Israel"

// Address is a postal address attached to a client.
type Address struct {
	ID        uuid.UUID `json:"id"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	ZipCode   string    `json:"zipCode"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"isDefault"`
}

// Validate checks that the required address fields are present.
func (a *Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" {
		return NewValidationError("street", "is required", nil)
	}
	if strings.TrimSpace(a.City) == "" {
		return NewValidationError("city", "is required", nil)
	}
	if strings.TrimSpace(a.ZipCode) == "" {
		return NewValidationError("zipCode", "is required", nil)
	}
	return nil
}

// Client is the identity of someone who requests services.
type Client struct {
	Account
	Addresses    []Address `json:"addresses"`
	ProfileImage string    `json:"profileImage"`
}

var _ Identity = (*Client)(nil)

// NewClient creates a Client with a fresh ID. Addresses without an ID or
// country get one. Returns a validation error if any field is invalid.
func NewClient(firstName, lastName, email, phone, passwordHash string, lang Language, addresses []Address) (*Client, error) {
	c := &Client{
		Account: newAccount(firstName, lastName, email, phone, passwordHash, lang),
	}
	for _, addr := range addresses {
		c.AddAddress(addr)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Base implements Identity.
func (c *Client) Base() *Account { return &c.Account }

// Role implements Identity.
func (c *Client) Role() Role { return RoleClient }

// Validate checks the account and every address.
func (c *Client) Validate() error {
	if err := c.Account.Validate(); err != nil {
		return err
	}
	for i := range c.Addresses {
		if err := c.Addresses[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddAddress appends addr, assigning an ID and default country when
// missing. A default address clears the flag on every other address.
func (c *Client) AddAddress(addr Address) Address {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	if strings.TrimSpace(addr.Country) == "" {
		addr.Country = DefaultCountry
	}
	if addr.IsDefault {
		c.clearDefault()
	}
	c.Addresses = append(c.Addresses, addr)
	return addr
}

// ReplaceAddress overwrites the address with the given ID. It reports false
// when no such address exists.
func (c *Client) ReplaceAddress(id uuid.UUID, addr Address) (Address, bool) {
	for i := range c.Addresses {
		if c.Addresses[i].ID != id {
			continue
		}
		addr.ID = id
		if strings.TrimSpace(addr.Country) == "" {
			addr.Country = DefaultCountry
		}
		if addr.IsDefault {
			c.clearDefault()
		}
		c.Addresses[i] = addr
		return addr, true
	}
	return Address{}, false
}

// RemoveAddress deletes the address with the given ID, reporting whether it
// existed.
func (c *Client) RemoveAddress(id uuid.UUID) bool {
	for i := range c.Addresses {
		if c.Addresses[i].ID == id {
			c.Addresses = append(c.Addresses[:i], c.Addresses[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Client) clearDefault() {
	for i := range c.Addresses {
		c.Addresses[i].IsDefault = false
	}
}

package models

import "time"

// Customer is one cleaned customer record. Snapshots are immutable: a later
// pipeline run supersedes the whole object, it never mutates rows in place.
type Customer struct {
	ID         int64     `json:"customer_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	SignupDate time.Time `json:"signup_date"`
	Country    string    `json:"country"`
}

// Purchase is one cleaned purchase record. After cleaning, CustomerID always
// references a row in the cleaned customer snapshot.
type Purchase struct {
	ID         int64     `json:"purchase_id"`
	CustomerID int64     `json:"customer_id"`
	Date       time.Time `json:"purchase_date"`
	Amount     float64   `json:"amount"`
	Product    string    `json:"product"`
}

const customerSchema = `{
  "type": "record",
  "name": "Customer",
  "fields": [
    {"name": "customer_id", "type": "long"},
    {"name": "name", "type": "string"},
    {"name": "email", "type": "string"},
    {"name": "signup_date", "type": {"type": "long", "logicalType": "timestamp-millis"}},
    {"name": "country", "type": "string"}
  ]
}`

const purchaseSchema = `{
  "type": "record",
  "name": "Purchase",
  "fields": [
    {"name": "purchase_id", "type": "long"},
    {"name": "customer_id", "type": "long"},
    {"name": "purchase_date", "type": {"type": "long", "logicalType": "timestamp-millis"}},
    {"name": "amount", "type": "double"},
    {"name": "product", "type": "string"}
  ]
}`

// CustomerCodec round-trips cleaned customer snapshots.
var CustomerCodec = Codec[Customer]{
	Name:   "customers",
	Schema: customerSchema,
	ToRecord: func(c Customer) map[string]any {
		return map[string]any{
			"customer_id": c.ID,
			"name":        c.Name,
			"email":       c.Email,
			"signup_date": c.SignupDate.UTC(),
			"country":     c.Country,
		}
	},
	FromRecord: func(record map[string]any) (Customer, error) {
		var c Customer
		var err error
		if c.ID, err = recLong(record, "customer_id"); err != nil {
			return c, err
		}
		if c.Name, err = recString(record, "name"); err != nil {
			return c, err
		}
		if c.Email, err = recString(record, "email"); err != nil {
			return c, err
		}
		if c.SignupDate, err = recTime(record, "signup_date"); err != nil {
			return c, err
		}
		if c.Country, err = recString(record, "country"); err != nil {
			return c, err
		}
		return c, nil
	},
}

// PurchaseCodec round-trips cleaned purchase snapshots.
var PurchaseCodec = Codec[Purchase]{
	Name:   "purchases",
	Schema: purchaseSchema,
	ToRecord: func(p Purchase) map[string]any {
		return map[string]any{
			"purchase_id":   p.ID,
			"customer_id":   p.CustomerID,
			"purchase_date": p.Date.UTC(),
			"amount":        p.Amount,
			"product":       p.Product,
		}
	},
	FromRecord: func(record map[string]any) (Purchase, error) {
		var p Purchase
		var err error
		if p.ID, err = recLong(record, "purchase_id"); err != nil {
			return p, err
		}
		if p.CustomerID, err = recLong(record, "customer_id"); err != nil {
			return p, err
		}
		if p.Date, err = recTime(record, "purchase_date"); err != nil {
			return p, err
		}
		if p.Amount, err = recDouble(record, "amount"); err != nil {
			return p, err
		}
		if p.Product, err = recString(record, "product"); err != nil {
			return p, err
		}
		return p, nil
	},
}

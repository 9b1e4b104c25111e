package models

// User is the customer profile, refreshed on every confirmed order.
type User struct {
	ChatID       int64  `db:"user_id"`
	Name         string `db:"name"`
	Phone        string `db:"phone"`
	RegisteredAt int64  `db:"registered_at"`
}

// Order is one confirmed delivery request. Locations are nil for courier
// tasks, where ItemDescription holds the task for the courier instead.
type Order struct {
	ID              int64   `db:"order_id"`
	ChatID          int64   `db:"user_id"`
	ServiceType     string  `db:"service_type"`
	FromLocation    *string `db:"from_location"`
	ToLocation      *string `db:"to_location"`
	ItemDescription string  `db:"item_description"`
	ContactPhone    string  `db:"contact_phone"`
	CreatedAt       int64   `db:"created_at"`
	Status          string  `db:"status"`
}

const StatusNew = "new"

// Service type values double as the button labels shown to the user.
const (
	ServiceFood    = "🍔 Доставка еды"
	ServiceParcel  = "📦 Доставка вещей"
	ServiceCourier = "🚗 Курьерская служба"
)

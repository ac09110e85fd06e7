package store

import (
	"time"

	"github.com/google/uuid"
)

// Category is a menu section.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SortOrder   int32     `json:"sortOrder"`
	IsActive    bool      `json:"isActive"`
}

// Product is a menu item. BasePrice is stored in minor units.
type Product struct {
	ID             uuid.UUID `json:"id"`
	CategoryID     uuid.UUID `json:"categoryId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	BasePrice      int64     `json:"basePrice"`
	IsAvailable    bool      `json:"isAvailable"`
	PreparationMin int32     `json:"preparationMin"`
	SortOrder      int32     `json:"sortOrder"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AddonGroup is a named set of optional modifiers attached to a product.
type AddonGroup struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"productId"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"` // radio | checkbox
	IsRequired    bool      `json:"isRequired"`
	MinSelections int32     `json:"minSelections"`
	MaxSelections int32     `json:"maxSelections"`
	SortOrder     int32     `json:"sortOrder"`
	IsActive      bool      `json:"isActive"`
}

// Addon is a priced modifier within a group. Price is in minor units and may
// be negative (e.g. "no cheese" rebates are business data, not an error).
type Addon struct {
	ID          uuid.UUID `json:"id"`
	GroupID     uuid.UUID `json:"groupId"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	IsDefault   bool      `json:"isDefault"`
	IsAvailable bool      `json:"isAvailable"`
	SortOrder   int32     `json:"sortOrder"`
}

// CartItem is one customer cart line joined with its product. ItemTotal is
// the cached line total and must equal the recomputed value.
type CartItem struct {
	ID                  uuid.UUID
	CustomerID          uuid.UUID
	ProductID           uuid.UUID
	ProductName         string
	BasePrice           int64
	ProductAvailable    bool
	Qty                 int32
	SelectedAddons      []byte
	SpecialInstructions *string
	ItemTotal           int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Order is a placed order header.
type Order struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customerId"`
	CustomerName  string     `json:"customerName"`
	CustomerFloor *string    `json:"customerFloor"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentMethod string     `json:"paymentMethod"`
	OrderType     string     `json:"orderType"` // now | scheduled
	DeliveryTime  *time.Time `json:"deliveryTime"`
	Subtotal      int64      `json:"subtotal"`
	TotalAmount   int64      `json:"totalAmount"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// OrderItem is a priced order line frozen at checkout time.
type OrderItem struct {
	ID                  uuid.UUID `json:"id"`
	OrderID             uuid.UUID `json:"orderId"`
	ProductID           uuid.UUID `json:"productId"`
	ProductName         string    `json:"productName"`
	Qty                 int32     `json:"qty"`
	SelectedAddons      []byte    `json:"selectedAddons"`
	SpecialInstructions *string   `json:"specialInstructions"`
	UnitPrice           int64     `json:"unitPrice"`
	TotalPrice          int64     `json:"totalPrice"`
}

// Announcement is a banner shown while its window is active.
type Announcement struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	IsActive bool      `json:"isActive"`
	StartAt  time.Time `json:"startAt"`
	EndAt    time.Time `json:"endAt"`
}

// DomainEvent is a persisted event emitted by the bus.
type DomainEvent struct {
	ID          uuid.UUID
	Topic       string
	AggregateID uuid.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// AuditLog records one admin action against an order.
type AuditLog struct {
	ID           uuid.UUID  `json:"id"`
	ActorKind    string     `json:"actorKind"`
	ActorID      *uuid.UUID `json:"actorId"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resourceType"`
	ResourceID   *string    `json:"resourceId"`
	Method       string     `json:"method"`
	Path         string     `json:"path"`
	Route        *string    `json:"route"`
	Status       int32      `json:"status"`
	IP           *string    `json:"ip"`
	UserAgent    *string    `json:"userAgent"`
	RequestID    *string    `json:"requestId"`
	Metadata     []byte     `json:"metadata"`
	CreatedAt    time.Time  `json:"createdAt"`
}

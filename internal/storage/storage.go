package storage

import (
	"database/sql"
	"embed"
	"time"

	_ "modernc.org/sqlite"

	"telegram-delivery-bot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- users -----------------------------------------------------------

// UpsertUser refreshes the profile's identity fields, keeping the original
// registration time for returning customers.
func (d *DB) UpsertUser(chatID int64, name, phone string) error {
	_, err := d.Exec(`
        INSERT INTO users (user_id, name, phone, registered_at)
        VALUES (?,?,?,?)
        ON CONFLICT(user_id) DO UPDATE SET name=excluded.name,
            phone=excluded.phone
    `, chatID, name, phone, time.Now().Unix())
	return err
}

func (d *DB) GetUser(chatID int64) (*models.User, error) {
	var u models.User
	err := d.QueryRow(`
        SELECT user_id, name, phone, registered_at
        FROM users WHERE user_id=?`, chatID,
	).Scan(&u.ChatID, &u.Name, &u.Phone, &u.RegisteredAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------- orders ----------------------------------------------------------

func (d *DB) InsertOrder(o *models.Order) (int64, error) {
	if o.CreatedAt == 0 {
		o.CreatedAt = time.Now().Unix()
	}
	if o.Status == "" {
		o.Status = models.StatusNew
	}
	res, err := d.Exec(`
        INSERT INTO orders
          (user_id, service_type, from_location, to_location,
           item_description, contact_phone, created_at, status)
        VALUES (?,?,?,?,?,?,?,?)
    `, o.ChatID, o.ServiceType, o.FromLocation, o.ToLocation,
		o.ItemDescription, o.ContactPhone, o.CreatedAt, o.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// SaveOrder commits a confirmed conversation: the profile upsert and the
// order insert land in one transaction, so a failure leaves nothing behind.
func (d *DB) SaveOrder(u *models.User, o *models.Order) (int64, error) {
	tx, err := d.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
        INSERT INTO users (user_id, name, phone, registered_at)
        VALUES (?,?,?,?)
        ON CONFLICT(user_id) DO UPDATE SET name=excluded.name,
            phone=excluded.phone
    `, u.ChatID, u.Name, u.Phone, time.Now().Unix()); err != nil {
		return 0, err
	}

	if o.CreatedAt == 0 {
		o.CreatedAt = time.Now().Unix()
	}
	if o.Status == "" {
		o.Status = models.StatusNew
	}
	res, err := tx.Exec(`
        INSERT INTO orders
          (user_id, service_type, from_location, to_location,
           item_description, contact_phone, created_at, status)
        VALUES (?,?,?,?,?,?,?,?)
    `, o.ChatID, o.ServiceType, o.FromLocation, o.ToLocation,
		o.ItemDescription, o.ContactPhone, o.CreatedAt, o.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// ListRecentOrders returns the chat's orders newest first, at most limit.
func (d *DB) ListRecentOrders(chatID int64, limit int) ([]models.Order, error) {
	rows, err := d.Query(`
        SELECT order_id, user_id, service_type, from_location, to_location,
               item_description, contact_phone, created_at, status
        FROM orders WHERE user_id=?
        ORDER BY created_at DESC, order_id DESC
        LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []models.Order
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.ChatID, &o.ServiceType, &o.FromLocation, &o.ToLocation,
			&o.ItemDescription, &o.ContactPhone, &o.CreatedAt, &o.Status,
		); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// CountOrdersSince reports how many orders were created at or after t.
func (d *DB) CountOrdersSince(t time.Time) (int, error) {
	var n int
	err := d.QueryRow(`SELECT COUNT(*) FROM orders WHERE created_at >= ?`,
		t.Unix()).Scan(&n)
	return n, err
}

package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelagent/db"
	"travelagent/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db must be set")
	}

	return &PostgresRepository{db: db}
}

// Create inserts a customer. A second customer with the same email is
// rejected with entity.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, customer entity.Customer) (entity.Customer, error) {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO customers (customer_id, name, email, phone_number)
		VALUES (:customer_id, :name, :email, :phone_number)
	`, customer)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return entity.Customer{}, entity.ErrConflict
		}
		return entity.Customer{}, fmt.Errorf("could not insert customer: %w", err)
	}

	return customer, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (entity.Customer, error) {
	var customer entity.Customer
	err := r.db.GetContext(ctx, &customer, `
		SELECT customer_id, name, email, phone_number
		FROM customers
		WHERE email = $1
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Customer{}, entity.ErrNotFound
		}
		return entity.Customer{}, fmt.Errorf("could not get customer by email: %w", err)
	}

	return customer, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, customerID string) (entity.Customer, error) {
	var customer entity.Customer
	err := r.db.GetContext(ctx, &customer, `
		SELECT customer_id, name, email, phone_number
		FROM customers
		WHERE customer_id = $1
	`, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Customer{}, entity.ErrNotFound
		}
		return entity.Customer{}, fmt.Errorf("could not get customer: %w", err)
	}

	return customer, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := r.db.SelectContext(ctx, &customers, `
		SELECT customer_id, name, email, phone_number FROM customers
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list customers: %w", err)
	}

	return customers, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, customerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("could not delete customer: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}

	return nil
}

package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// PostgresStore persists sales orders with a wholesale item replace, inside
// one transaction so an order can never be read with a half-written list.
type PostgresStore struct {
	db     *sql.DB
	runner *postgres.TxRunner
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: postgres.NewTxRunner(db)}
}

func (s *PostgresStore) Upsert(ctx context.Context, order Order) error {
	return s.runner.RunInTx(ctx, func(ctx context.Context) error {
		exec := postgres.Execer(ctx, s.db)

		query := `
			INSERT INTO sales_orders (id, tenant_id, buyer_name, order_date, status, total_amount, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (tenant_id, id) DO UPDATE SET
				buyer_name = EXCLUDED.buyer_name,
				order_date = EXCLUDED.order_date,
				status = EXCLUDED.status,
				total_amount = EXCLUDED.total_amount,
				updated_at = EXCLUDED.updated_at
		`
		_, err := exec.ExecContext(ctx, query,
			order.ID, order.TenantID.String(), order.BuyerName, order.OrderDate,
			string(order.Status), order.TotalAmount, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert sales order: %w", err)
		}

		if _, err := exec.ExecContext(ctx,
			`DELETE FROM sales_order_items WHERE tenant_id = $1 AND sales_order_id = $2`,
			order.TenantID.String(), order.ID,
		); err != nil {
			return fmt.Errorf("clear sales order items: %w", err)
		}
		for _, item := range order.Items {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO sales_order_items (tenant_id, sales_order_id, position, product, quantity, price, total)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				order.TenantID.String(), order.ID,
				item.Position, item.Product, item.Quantity, item.Price, item.Total,
			)
			if err != nil {
				return fmt.Errorf("insert sales order item %d: %w", item.Position, err)
			}
		}
		return nil
	})
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, orderID string) (Order, error) {
	exec := postgres.Execer(ctx, s.db)

	var order Order
	var status string
	err := exec.QueryRowContext(ctx, `
		SELECT id, buyer_name, order_date, status, total_amount, created_at, updated_at
		FROM sales_orders WHERE tenant_id = $1 AND id = $2`,
		tenantID.String(), orderID,
	).Scan(&order.ID, &order.BuyerName, &order.OrderDate, &status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("get sales order: %w", err)
	}
	order.TenantID = tenantID
	order.Status = OrderStatus(status)

	items, err := s.loadItems(ctx, tenantID, orderID)
	if err != nil {
		return Order{}, err
	}
	order.Items = items
	return order, nil
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID) ([]Order, error) {
	exec := postgres.Execer(ctx, s.db)

	rows, err := exec.QueryContext(ctx, `
		SELECT id, buyer_name, order_date, status, total_amount, created_at, updated_at
		FROM sales_orders WHERE tenant_id = $1 ORDER BY id`,
		tenantID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*Order)
	var order []string
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.BuyerName, &o.OrderDate, &status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		o.TenantID = tenantID
		o.Status = OrderStatus(status)
		byID[o.ID] = &o
		order = append(order, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales orders: %w", err)
	}
	if len(byID) == 0 {
		return nil, nil
	}

	itemRows, err := exec.QueryContext(ctx, `
		SELECT sales_order_id, position, product, quantity, price, total
		FROM sales_order_items WHERE tenant_id = $1 ORDER BY sales_order_id, position`,
		tenantID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query sales order items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var (
			orderID string
			item    OrderItem
		)
		if err := itemRows.Scan(&orderID, &item.Position, &item.Product, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, fmt.Errorf("scan sales order item: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales order items: %w", err)
	}

	out := make([]Order, 0, len(order))
	for _, orderID := range order {
		out = append(out, *byID[orderID])
	}
	return out, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, tenantID id.TenantID, orderID string) ([]OrderItem, error) {
	rows, err := postgres.Execer(ctx, s.db).QueryContext(ctx, `
		SELECT position, product, quantity, price, total
		FROM sales_order_items WHERE tenant_id = $1 AND sales_order_id = $2
		ORDER BY position`,
		tenantID.String(), orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sales order items: %w", err)
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.Position, &item.Product, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, fmt.Errorf("scan sales order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

package lot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"aurum/internal/platform/postgres"
	id "aurum/pkg/domain"
	"aurum/pkg/platform/sentinel"
)

// PostgresStore persists lots and their phase detail records. The state
// machine's conditional check-and-update is a single UPDATE guarded on the
// current status column, so two racing transitions can never both win.
type PostgresStore struct {
	db     *sql.DB
	runner *postgres.TxRunner
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: postgres.NewTxRunner(db)}
}

func (s *PostgresStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.runner.RunInTx(ctx, fn)
}

func (s *PostgresStore) Upsert(ctx context.Context, lot Lot) error {
	exec := postgres.Execer(ctx, s.db)

	query := `
		INSERT INTO lots (lot_no, tenant_id, branch, ref_no, lot_date, customer_id, customer_name, status, remarks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, lot_no) DO UPDATE SET
			branch = EXCLUDED.branch,
			ref_no = EXCLUDED.ref_no,
			lot_date = EXCLUDED.lot_date,
			customer_id = EXCLUDED.customer_id,
			customer_name = EXCLUDED.customer_name,
			remarks = EXCLUDED.remarks,
			updated_at = EXCLUDED.updated_at
	`
	_, err := exec.ExecContext(ctx, query,
		lot.LotNo.String(),
		lot.TenantID.String(),
		lot.Branch,
		lot.RefNo,
		lot.LotDate,
		lot.CustomerID,
		lot.CustomerName,
		string(lot.Status),
		lot.Remarks,
		lot.CreatedAt,
		lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert lot: %w", err)
	}

	// Wholesale item replace, never an incremental diff.
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM material_rows WHERE tenant_id = $1 AND lot_no = $2`,
		lot.TenantID.String(), lot.LotNo.String(),
	); err != nil {
		return fmt.Errorf("clear material rows: %w", err)
	}
	for _, row := range lot.Items {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO material_rows (tenant_id, lot_no, s_no, product, piece, weight, purity, waste_percent, net_weight, rate, amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			lot.TenantID.String(), lot.LotNo.String(),
			row.SNo, row.Product, row.Piece, row.Weight, row.Purity,
			row.WastePercent, row.NetWeight, row.Rate, row.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert material row %d: %w", row.SNo, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo) (Lot, error) {
	lots, err := s.load(ctx, tenantID, `AND l.lot_no = $2`, lotNo.String())
	if err != nil {
		return Lot{}, err
	}
	if len(lots) == 0 {
		return Lot{}, sentinel.ErrNotFound
	}
	return lots[0], nil
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID) ([]Lot, error) {
	return s.load(ctx, tenantID, ``)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, tenantID id.TenantID, status Status) ([]Lot, error) {
	return s.load(ctx, tenantID, `AND l.status = $2`, string(status))
}

func (s *PostgresStore) ApplyStatus(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, change StatusChange) error {
	exec := postgres.Execer(ctx, s.db)

	query := `
		UPDATE lots
		SET status = $4,
		    remarks = CASE WHEN $5 THEN $6 ELSE remarks END,
		    decided_by = COALESCE(NULLIF($7, ''), decided_by),
		    decided_at = COALESCE($8, decided_at),
		    updated_at = $9
		WHERE tenant_id = $1 AND lot_no = $2 AND status = $3
	`
	res, err := exec.ExecContext(ctx, query,
		tenantID.String(), lotNo.String(), string(change.From),
		string(change.To),
		change.SetRemarks, change.Remarks,
		change.DecidedBy.String(), change.DecidedAt,
		change.At,
	)
	if err != nil {
		return fmt.Errorf("update lot status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lot status: %w", err)
	}
	if affected == 1 {
		return nil
	}

	// Distinguish a missing lot from a lost state race.
	var current string
	err = exec.QueryRowContext(ctx,
		`SELECT status FROM lots WHERE tenant_id = $1 AND lot_no = $2`,
		tenantID.String(), lotNo.String(),
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read lot status: %w", err)
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) UpsertLogistics(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail LogisticsDetail) error {
	query := `
		INSERT INTO logistics_details (tenant_id, lot_no, vehicle_no, driver_name, seal_number, dispatched_at, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, lot_no) DO UPDATE SET
			vehicle_no = EXCLUDED.vehicle_no,
			driver_name = EXCLUDED.driver_name,
			seal_number = EXCLUDED.seal_number,
			dispatched_at = EXCLUDED.dispatched_at,
			received_at = EXCLUDED.received_at
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		tenantID.String(), lotNo.String(),
		detail.VehicleNo, detail.DriverName, detail.SealNumber,
		detail.DispatchedAt, detail.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert logistics detail: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertMelting(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, detail MeltingDetail) error {
	query := `
		INSERT INTO melting_details (tenant_id, lot_no, input_weight, output_weight, loss_weight, operator, temperature, melted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (tenant_id, lot_no) DO UPDATE SET
			input_weight = EXCLUDED.input_weight,
			output_weight = EXCLUDED.output_weight,
			loss_weight = EXCLUDED.loss_weight,
			operator = EXCLUDED.operator,
			temperature = EXCLUDED.temperature,
			melted_at = EXCLUDED.melted_at
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		tenantID.String(), lotNo.String(),
		detail.InputWeight, detail.OutputWeight, detail.LossWeight,
		detail.Operator, detail.Temperature, detail.MeltedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert melting detail: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertDisbursement(ctx context.Context, tenantID id.TenantID, lotNo id.LotNo, record DisbursementRecord) error {
	query := `
		INSERT INTO disbursement_records (tenant_id, lot_no, payment_mode, reference_no, amount, paid_at, verified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tenant_id, lot_no) DO UPDATE SET
			payment_mode = EXCLUDED.payment_mode,
			reference_no = EXCLUDED.reference_no,
			amount = EXCLUDED.amount,
			paid_at = EXCLUDED.paid_at,
			verified_by = EXCLUDED.verified_by
	`
	_, err := postgres.Execer(ctx, s.db).ExecContext(ctx, query,
		tenantID.String(), lotNo.String(),
		record.PaymentMode, record.ReferenceNo, record.Amount,
		record.PaidAt, record.VerifiedBy.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert disbursement record: %w", err)
	}
	return nil
}

// load fetches lots plus their child records in one pass per table.
func (s *PostgresStore) load(ctx context.Context, tenantID id.TenantID, filter string, extraArgs ...any) ([]Lot, error) {
	exec := postgres.Execer(ctx, s.db)
	args := append([]any{tenantID.String()}, extraArgs...)

	query := `
		SELECT l.lot_no, l.branch, l.ref_no, l.lot_date, l.customer_id, l.customer_name,
		       l.status, l.remarks, l.decided_by, l.decided_at, l.created_at, l.updated_at
		FROM lots l
		WHERE l.tenant_id = $1 ` + filter + `
		ORDER BY l.lot_no
	`
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lots: %w", err)
	}
	defer rows.Close()

	byNo := make(map[id.LotNo]*Lot)
	var order []id.LotNo
	for rows.Next() {
		var (
			lot       Lot
			lotNo     string
			decidedBy sql.NullString
		)
		err := rows.Scan(&lotNo, &lot.Branch, &lot.RefNo, &lot.LotDate, &lot.CustomerID,
			&lot.CustomerName, (*string)(&lot.Status), &lot.Remarks, &decidedBy, &lot.DecidedAt,
			&lot.CreatedAt, &lot.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		lot.LotNo = id.LotNo(lotNo)
		lot.TenantID = tenantID
		if decidedBy.Valid {
			lot.DecidedBy = id.UserID(decidedBy.String)
		}
		byNo[lot.LotNo] = &lot
		order = append(order, lot.LotNo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lots: %w", err)
	}
	if len(byNo) == 0 {
		return nil, nil
	}

	if err := s.loadItems(ctx, exec, tenantID, byNo); err != nil {
		return nil, err
	}
	if err := s.loadDetails(ctx, exec, tenantID, byNo); err != nil {
		return nil, err
	}

	out := make([]Lot, 0, len(order))
	for _, lotNo := range order {
		out = append(out, *byNo[lotNo])
	}
	return out, nil
}

func (s *PostgresStore) loadItems(ctx context.Context, exec postgres.Executor, tenantID id.TenantID, byNo map[id.LotNo]*Lot) error {
	rows, err := exec.QueryContext(ctx, `
		SELECT lot_no, s_no, product, piece, weight, purity, waste_percent, net_weight, rate, amount
		FROM material_rows
		WHERE tenant_id = $1
		ORDER BY lot_no, s_no`,
		tenantID.String(),
	)
	if err != nil {
		return fmt.Errorf("query material rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			lotNo string
			row   MaterialRow
		)
		err := rows.Scan(&lotNo, &row.SNo, &row.Product, &row.Piece, &row.Weight,
			&row.Purity, &row.WastePercent, &row.NetWeight, &row.Rate, &row.Amount)
		if err != nil {
			return fmt.Errorf("scan material row: %w", err)
		}
		if lot, ok := byNo[id.LotNo(lotNo)]; ok {
			lot.Items = append(lot.Items, row)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) loadDetails(ctx context.Context, exec postgres.Executor, tenantID id.TenantID, byNo map[id.LotNo]*Lot) error {
	logistics, err := exec.QueryContext(ctx, `
		SELECT lot_no, vehicle_no, driver_name, seal_number, dispatched_at, received_at
		FROM logistics_details WHERE tenant_id = $1`,
		tenantID.String(),
	)
	if err != nil {
		return fmt.Errorf("query logistics details: %w", err)
	}
	defer logistics.Close()
	for logistics.Next() {
		var (
			lotNo  string
			detail LogisticsDetail
		)
		if err := logistics.Scan(&lotNo, &detail.VehicleNo, &detail.DriverName, &detail.SealNumber, &detail.DispatchedAt, &detail.ReceivedAt); err != nil {
			return fmt.Errorf("scan logistics detail: %w", err)
		}
		if lot, ok := byNo[id.LotNo(lotNo)]; ok {
			lot.Logistics = &detail
		}
	}
	if err := logistics.Err(); err != nil {
		return err
	}

	melting, err := exec.QueryContext(ctx, `
		SELECT lot_no, input_weight, output_weight, loss_weight, operator, temperature, melted_at
		FROM melting_details WHERE tenant_id = $1`,
		tenantID.String(),
	)
	if err != nil {
		return fmt.Errorf("query melting details: %w", err)
	}
	defer melting.Close()
	for melting.Next() {
		var (
			lotNo  string
			detail MeltingDetail
		)
		if err := melting.Scan(&lotNo, &detail.InputWeight, &detail.OutputWeight, &detail.LossWeight, &detail.Operator, &detail.Temperature, &detail.MeltedAt); err != nil {
			return fmt.Errorf("scan melting detail: %w", err)
		}
		if lot, ok := byNo[id.LotNo(lotNo)]; ok {
			lot.Melting = &detail
		}
	}
	if err := melting.Err(); err != nil {
		return err
	}

	disbursements, err := exec.QueryContext(ctx, `
		SELECT lot_no, payment_mode, reference_no, amount, paid_at, verified_by
		FROM disbursement_records WHERE tenant_id = $1`,
		tenantID.String(),
	)
	if err != nil {
		return fmt.Errorf("query disbursement records: %w", err)
	}
	defer disbursements.Close()
	for disbursements.Next() {
		var (
			lotNo      string
			record     DisbursementRecord
			verifiedBy string
		)
		if err := disbursements.Scan(&lotNo, &record.PaymentMode, &record.ReferenceNo, &record.Amount, &record.PaidAt, &verifiedBy); err != nil {
			return fmt.Errorf("scan disbursement record: %w", err)
		}
		record.VerifiedBy = id.UserID(verifiedBy)
		if lot, ok := byNo[id.LotNo(lotNo)]; ok {
			lot.Disbursement = &record
		}
	}
	return disbursements.Err()
}

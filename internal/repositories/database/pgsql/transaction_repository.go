package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Payment rows are shared by sales, purchases and returns and keyed by document.
const (
	docSale     = "SALE"
	docPurchase = "PURCHASE"
	docReturn   = "RETURN"
)

func queuePayments(batch *pgx.Batch, docType, docID string, payments []domain.Payment) {
	query := `
		INSERT INTO payments (payment_id, business_id, document_type, document_id, line_no, method, amount, reference_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, p := range payments {
		batch.Queue(query, p.PaymentID, p.BusinessID, docType, docID, i, p.Method, p.Amount, p.ReferenceNo)
	}
}

func (r *BaseRepository) findPayments(ctx context.Context, docType, docID string) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT payment_id, business_id, method, amount, reference_no
		FROM payments
		WHERE document_type = $1 AND document_id = $2
		ORDER BY line_no;`, docType, docID)
	if err != nil {
		return nil, mapPgError(err, "failed to query payments")
	}
	defer rows.Close()

	out := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaymentID, &p.BusinessID, &p.Method, &p.Amount, &p.ReferenceNo); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type PgxSaleRepository struct {
	BaseRepository
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

func (r *PgxSaleRepository) SaveSale(ctx context.Context, s domain.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (sale_id, business_id, warehouse_id, invoice_number, sale_date, subtotal, tax_total, discount_total, total,
		                   journal_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14);`,
		s.SaleID, s.BusinessID, s.WarehouseID, s.InvoiceNumber, s.SaleDate, s.Subtotal, s.TaxTotal, s.DiscountTotal, s.Total,
		s.JournalID, s.CreatedAt, s.CreatedBy, s.LastUpdatedAt, s.LastUpdatedBy,
	)
	itemQuery := `
		INSERT INTO sale_items (sale_item_id, sale_id, line_no, item_id, unit_id, quantity, unit_price, discount_amount,
		                        net_amount, tax_amount, line_discount, total, batch_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for i, it := range s.Items {
		batch.Queue(itemQuery, it.SaleItemID, s.SaleID, i, it.ItemID, it.UnitID, it.Quantity, it.UnitPrice, it.DiscountAmount,
			it.NetAmount, it.TaxAmount, it.LineDiscount, it.Total, it.BatchNo)
	}
	queuePayments(batch, docSale, s.SaleID, s.Payments)
	return sendBatch(ctx, r.db, batch, "failed to save sale "+s.InvoiceNumber)
}

func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, businessID, saleID string) (*domain.Sale, error) {
	var s domain.Sale
	err := r.db.QueryRow(ctx, `
		SELECT sale_id, business_id, warehouse_id, invoice_number, sale_date, subtotal, tax_total, discount_total, total,
		       COALESCE(journal_id, ''), created_at, created_by, last_updated_at, last_updated_by
		FROM sales
		WHERE business_id = $1 AND sale_id = $2;`, businessID, saleID).Scan(
		&s.SaleID, &s.BusinessID, &s.WarehouseID, &s.InvoiceNumber, &s.SaleDate, &s.Subtotal, &s.TaxTotal, &s.DiscountTotal, &s.Total,
		&s.JournalID, &s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "failed to find sale "+saleID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT sale_item_id, sale_id, item_id, unit_id, quantity, unit_price, discount_amount, net_amount, tax_amount,
		       line_discount, total, batch_no
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY line_no;`, saleID)
	if err != nil {
		return nil, mapPgError(err, "failed to query sale items")
	}
	for rows.Next() {
		var it domain.SaleItem
		if err := rows.Scan(&it.SaleItemID, &it.SaleID, &it.ItemID, &it.UnitID, &it.Quantity, &it.UnitPrice, &it.DiscountAmount,
			&it.NetAmount, &it.TaxAmount, &it.LineDiscount, &it.Total, &it.BatchNo); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale items: %w", err)
	}

	if s.Payments, err = r.findPayments(ctx, docSale, saleID); err != nil {
		return nil, err
	}
	return &s, nil
}

type PgxPurchaseRepository struct {
	BaseRepository
}

var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

func (r *PgxPurchaseRepository) SavePurchase(ctx context.Context, p domain.Purchase) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO purchases (purchase_id, business_id, warehouse_id, reference_number, supplier_invoice_no, purchase_date,
		                       subtotal, tax_total, discount_total, total, amount_paid, journal_id,
		                       created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16);`,
		p.PurchaseID, p.BusinessID, p.WarehouseID, p.ReferenceNumber, p.SupplierInvoiceNo, p.PurchaseDate,
		p.Subtotal, p.TaxTotal, p.DiscountTotal, p.Total, p.AmountPaid, p.JournalID,
		p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy,
	)
	itemQuery := `
		INSERT INTO purchase_items (purchase_item_id, purchase_id, line_no, item_id, unit_id, quantity, unit_cost, tax_amount,
		                            discount_amount, net_amount, total, track_stock, batch_no, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for i, it := range p.Items {
		batch.Queue(itemQuery, it.PurchaseItemID, p.PurchaseID, i, it.ItemID, it.UnitID, it.Quantity, it.UnitCost, it.TaxAmount,
			it.DiscountAmount, it.NetAmount, it.Total, it.TrackStock, it.BatchNo, it.ExpiryDate)
	}
	queuePayments(batch, docPurchase, p.PurchaseID, p.Payments)
	return sendBatch(ctx, r.db, batch, "failed to save purchase "+p.ReferenceNumber)
}

func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, businessID, purchaseID string) (*domain.Purchase, error) {
	var p domain.Purchase
	err := r.db.QueryRow(ctx, `
		SELECT purchase_id, business_id, warehouse_id, reference_number, supplier_invoice_no, purchase_date,
		       subtotal, tax_total, discount_total, total, amount_paid, COALESCE(journal_id, ''),
		       created_at, created_by, last_updated_at, last_updated_by
		FROM purchases
		WHERE business_id = $1 AND purchase_id = $2;`, businessID, purchaseID).Scan(
		&p.PurchaseID, &p.BusinessID, &p.WarehouseID, &p.ReferenceNumber, &p.SupplierInvoiceNo, &p.PurchaseDate,
		&p.Subtotal, &p.TaxTotal, &p.DiscountTotal, &p.Total, &p.AmountPaid, &p.JournalID,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "failed to find purchase "+purchaseID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT purchase_item_id, purchase_id, item_id, unit_id, quantity, unit_cost, tax_amount, discount_amount,
		       net_amount, total, track_stock, batch_no, expiry_date
		FROM purchase_items
		WHERE purchase_id = $1
		ORDER BY line_no;`, purchaseID)
	if err != nil {
		return nil, mapPgError(err, "failed to query purchase items")
	}
	for rows.Next() {
		var it domain.PurchaseItem
		if err := rows.Scan(&it.PurchaseItemID, &it.PurchaseID, &it.ItemID, &it.UnitID, &it.Quantity, &it.UnitCost, &it.TaxAmount,
			&it.DiscountAmount, &it.NetAmount, &it.Total, &it.TrackStock, &it.BatchNo, &it.ExpiryDate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan purchase item: %w", err)
		}
		p.Items = append(p.Items, it)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase items: %w", err)
	}

	if p.Payments, err = r.findPayments(ctx, docPurchase, purchaseID); err != nil {
		return nil, err
	}
	return &p, nil
}

type PgxReturnRepository struct {
	BaseRepository
}

var _ portsrepo.ReturnRepositoryFacade = (*PgxReturnRepository)(nil)

func (r *PgxReturnRepository) SaveReturn(ctx context.Context, ret domain.SaleReturn) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sale_returns (return_id, business_id, sale_id, warehouse_id, return_date, reason, net_total, tax_total, total,
		                          journal_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13, $14);`,
		ret.ReturnID, ret.BusinessID, ret.SaleID, ret.WarehouseID, ret.ReturnDate, ret.Reason, ret.NetTotal, ret.TaxTotal, ret.Total,
		ret.JournalID, ret.CreatedAt, ret.CreatedBy, ret.LastUpdatedAt, ret.LastUpdatedBy,
	)
	itemQuery := `
		INSERT INTO return_items (return_item_id, return_id, line_no, item_id, quantity, net_amount, tax_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, it := range ret.Items {
		batch.Queue(itemQuery, it.ReturnItemID, ret.ReturnID, i, it.ItemID, it.Quantity, it.NetAmount, it.TaxAmount, it.Total)
	}
	queuePayments(batch, docReturn, ret.ReturnID, ret.Refunds)
	return sendBatch(ctx, r.db, batch, "failed to save return "+ret.ReturnID)
}

// ReturnedQuantities locks the sale row first so concurrent returns against one sale serialize.
func (r *PgxReturnRepository) ReturnedQuantities(ctx context.Context, businessID, saleID string) (map[string]decimal.Decimal, error) {
	if _, err := r.db.Exec(ctx, `SELECT 1 FROM sales WHERE business_id = $1 AND sale_id = $2 FOR UPDATE;`, businessID, saleID); err != nil {
		return nil, mapPgError(err, "failed to lock sale "+saleID)
	}
	rows, err := r.db.Query(ctx, `
		SELECT ri.item_id, SUM(ri.quantity)
		FROM return_items ri
		JOIN sale_returns sr ON sr.return_id = ri.return_id
		WHERE sr.business_id = $1 AND sr.sale_id = $2
		GROUP BY ri.item_id;`, businessID, saleID)
	if err != nil {
		return nil, mapPgError(err, "failed to sum returned quantities")
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			itemID string
			qty    decimal.Decimal
		)
		if err := rows.Scan(&itemID, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan returned quantity: %w", err)
		}
		out[itemID] = qty
	}
	return out, rows.Err()
}

type PgxAdjustmentRepository struct {
	BaseRepository
}

var _ portsrepo.AdjustmentRepositoryFacade = (*PgxAdjustmentRepository)(nil)

func (r *PgxAdjustmentRepository) SaveAdjustment(ctx context.Context, a domain.StockAdjustment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_adjustments (adjustment_id, business_id, warehouse_id, item_id, adjustment_type, quantity, reason, value,
		                               journal_id, adjusted_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, $13, $14);`,
		a.AdjustmentID, a.BusinessID, a.WarehouseID, a.ItemID, a.Type, a.Quantity, a.Reason, a.Value,
		a.JournalID, a.AdjustedAt, a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save adjustment "+a.AdjustmentID)
	}
	return nil
}

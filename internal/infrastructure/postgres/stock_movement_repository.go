package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, account_id, product_id, movement_type, quantity, date_time, user_id, user_name, ip_address, reason, reference_document, previous_balance, current_balance, reversal_of_movement_id, transaction_id`

// StockMovementRepo implementação append-only sobre PostgreSQL (usável com
// pool ou tx). Propositalmente não existem métodos Update nem Delete; a
// tabela ainda tem um trigger que rejeita ambos (ver migrações).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append persiste a movimentação. ID (BIGSERIAL) e date_time são atribuídos
// pelo banco e preenchidos de volta no struct. date_time usa
// clock_timestamp(): now() congelaria no BEGIN, antes do FOR UPDATE, e uma
// transação que esperou o bloqueio gravaria data menor que a da vencedora,
// invertendo a ordem (date_time, id) do replay.
func (r *StockMovementRepo) Append(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (account_id, product_id, movement_type, quantity, user_id, user_name, ip_address, reason, reference_document, previous_balance, current_balance, reversal_of_movement_id, transaction_id, date_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, clock_timestamp())
		RETURNING id, date_time`
	reason := (*string)(nil)
	if m.Reason != "" {
		reason = &m.Reason
	}
	refDoc := (*string)(nil)
	if m.ReferenceDocument != "" {
		refDoc = &m.ReferenceDocument
	}
	err := r.q.QueryRow(context.Background(), query,
		m.AccountID, m.ProductID, m.Type, m.Quantity,
		m.UserID, m.UserName, m.IPAddress, reason, refDoc,
		m.PreviousBalance, m.CurrentBalance, m.ReversalOfMovementID, m.TransactionID,
	).Scan(&m.ID, &m.DateTime)
	if err != nil {
		// Índice único em reversal_of_movement_id: segunda tentativa de
		// estornar a mesma original morre aqui mesmo sem passar pelo caso de uso
		if isUniqueViolation(err) {
			return domain.ErrAlreadyReversed
		}
		return fmt.Errorf("append stock movement: %w", err)
	}
	return nil
}

// GetByID busca uma movimentação da conta. Nil quando não existe.
func (r *StockMovementRepo) GetByID(accountID, id int64) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE account_id = $1 AND id = $2`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByProduct devolve o histórico do produto na ordem do replay:
// (date_time, id) ascendente. asOf não nulo corta em date_time <= asOf.
func (r *StockMovementRepo) ListByProduct(accountID, productID int64, asOf *time.Time) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE account_id = $1 AND product_id = $2`
	args := []any{accountID, productID}
	if asOf != nil {
		query += ` AND date_time <= $3`
		args = append(args, *asOf)
	}
	query += ` ORDER BY date_time ASC, id ASC`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListRange lista com filtros e paginação 1-based, devolvendo o total de
// linhas que casam com o filtro.
func (r *StockMovementRepo) ListRange(accountID int64, f repository.MovementFilter) ([]*entity.StockMovement, int64, error) {
	where := ` FROM stock_movements WHERE account_id = $1`
	args := []any{accountID}
	pos := 2
	if f.StartDate != nil {
		where += fmt.Sprintf(" AND date_time >= $%d", pos)
		args = append(args, *f.StartDate)
		pos++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(" AND date_time <= $%d", pos)
		args = append(args, *f.EndDate)
		pos++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.ProductID != nil {
		where += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, *f.ProductID)
		pos++
	}
	if f.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", pos)
		args = append(args, *f.UserID)
		pos++
	}

	var total int64
	if err := r.q.QueryRow(context.Background(), `SELECT count(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	query := `SELECT ` + movementColumns + where +
		fmt.Sprintf(" ORDER BY date_time %s, id %s LIMIT $%d OFFSET $%d", dir, dir, pos, pos+1)
	args = append(args, f.PageSize, (f.PageNumber-1)*f.PageSize)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// FindReversal devolve o estorno que referencia a original, ou nil.
func (r *StockMovementRepo) FindReversal(accountID, originalMovementID int64) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE account_id = $1 AND reversal_of_movement_id = $2`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, accountID, originalMovementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find reversal: %w", err)
	}
	return m, nil
}

// scanMovement lê uma linha em entity.StockMovement (row ou rows).
func scanMovement(s interface{ Scan(dest ...any) error }) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var reason, refDoc *string
	err := s.Scan(
		&m.ID, &m.AccountID, &m.ProductID, &m.Type, &m.Quantity, &m.DateTime,
		&m.UserID, &m.UserName, &m.IPAddress, &reason, &refDoc,
		&m.PreviousBalance, &m.CurrentBalance, &m.ReversalOfMovementID, &m.TransactionID,
	)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		m.Reason = *reason
	}
	if refDoc != nil {
		m.ReferenceDocument = *refDoc
	}
	return &m, nil
}

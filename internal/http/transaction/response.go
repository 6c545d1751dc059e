package transaction

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

type transactionResponse struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Amount    json.Number      `json:"amount"`
	Type      transaction.Type `json:"type"`
	Category  string           `json:"category"`
	Date      string           `json:"date"`
	CreatedAt time.Time        `json:"created_at"`
}

// candidateResponse is an extracted record that has not been stored.
type candidateResponse struct {
	Title    string           `json:"title"`
	Amount   json.Number      `json:"amount"`
	Type     transaction.Type `json:"type"`
	Category string           `json:"category"`
	Date     string           `json:"date"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Title:     tx.Title,
		Amount:    json.Number(tx.Amount.StringFixed(2)),
		Type:      tx.Type,
		Category:  tx.Category,
		Date:      tx.DateKey(),
		CreatedAt: tx.CreatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toCandidate(p transaction.CreateParams) candidateResponse {
	return candidateResponse{
		Title:    p.Title,
		Amount:   json.Number(p.Amount.StringFixed(2)),
		Type:     p.Type,
		Category: p.Category,
		Date:     p.Date.Format(time.DateOnly),
	}
}

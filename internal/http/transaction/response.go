package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type Response struct {
	ID                    uuid.UUID            `json:"id"`
	UniqueHash            string               `json:"unique_hash"`
	RawText               string               `json:"raw_text"`
	Amount                decimal.Decimal      `json:"amount"`
	Currency              string               `json:"currency"`
	Merchant              string               `json:"merchant,omitempty"`
	Description           string               `json:"description,omitempty"`
	Channel               string               `json:"channel,omitempty"`
	BankName              string               `json:"bank_name,omitempty"`
	OccurredAt            time.Time            `json:"occurred_at"`
	AccountID             *uuid.UUID           `json:"account_id,omitempty"`
	Account               *accountResponse     `json:"account,omitempty"`
	SubcategoryID         uuid.UUID            `json:"subcategory_id"`
	Subcategory           *subcategoryResponse `json:"subcategory,omitempty"`
	Status                transaction.Status   `json:"status"`
	LinkedTransactionHash *string              `json:"linked_transaction_hash,omitempty"`
	OverrideReimbursable  *bool                `json:"override_reimbursable,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}

type accountResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type subcategoryResponse struct {
	Path         string `json:"path"`
	Reimbursable bool   `json:"reimbursable"`
}

func ToResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:                    tx.ID,
		UniqueHash:            tx.UniqueHash,
		RawText:               tx.RawText,
		Amount:                tx.Amount,
		Currency:              tx.Currency,
		Merchant:              tx.Merchant,
		Description:           tx.Description,
		Channel:               tx.Channel,
		BankName:              tx.BankName,
		OccurredAt:            tx.OccurredAt,
		AccountID:             tx.AccountID,
		SubcategoryID:         tx.SubcategoryID,
		Status:                tx.Status,
		LinkedTransactionHash: tx.LinkedTransactionHash,
		OverrideReimbursable:  tx.OverrideReimbursable,
		CreatedAt:             tx.CreatedAt,
		UpdatedAt:             tx.UpdatedAt,
	}
}

// ToDetailsResponse is ToResponse with the account and subcategory names filled in.
func ToDetailsResponse(d *transaction.Details) Response {
	resp := ToResponse(d.Transaction)

	if d.Account != nil {
		resp.Account = &accountResponse{
			Name: d.Account.Name,
			Type: string(d.Account.Type),
		}
	}

	if d.Subcategory != nil {
		resp.Subcategory = &subcategoryResponse{
			Path:         d.Subcategory.Path(),
			Reimbursable: d.Subcategory.IsReimbursable,
		}
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = ToResponse(tx)
	}

	return resp
}

// UpdateRequest is the enrichment body shared by the API and the mini-app.
type UpdateRequest struct {
	AccountID             *uuid.UUID `json:"account_id,omitempty"`
	SubcategoryID         *uuid.UUID `json:"subcategory_id,omitempty"`
	Description           *string    `json:"description,omitempty"`
	LinkedTransactionHash *string    `json:"linked_transaction_hash,omitempty"`
	OverrideReimbursable  *bool      `json:"override_reimbursable,omitempty"`
}

func (req UpdateRequest) Params() transaction.UpdateParams {
	return transaction.UpdateParams{
		AccountID:             req.AccountID,
		SubcategoryID:         req.SubcategoryID,
		Description:           req.Description,
		LinkedTransactionHash: req.LinkedTransactionHash,
		OverrideReimbursable:  req.OverrideReimbursable,
	}
}

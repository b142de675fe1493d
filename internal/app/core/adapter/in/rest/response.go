package rest

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cardbank/ledger/internal/app/core/domain"
	"github.com/cardbank/ledger/internal/app/core/usecase"
)

// errorResponse is the structured error body for every failure.
type errorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorResponse{
		Code:    code,
		Title:   strings.ReplaceAll(code, "_", " "),
		Message: message,
	})
}

type transactionResponse struct {
	ID             int64     `json:"id"`
	RefID          string    `json:"ref_id"`
	CardholderName string    `json:"cardholder_name"`
	FromCard       string    `json:"from_card,omitempty"`
	ToCard         string    `json:"to_card,omitempty"`
	Amount         string    `json:"amount"`
	OperationType  string    `json:"operation_type"`
	BalanceAfter   *string   `json:"balance_after"`
	Bank           string    `json:"bank,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	Image          string    `json:"image,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

func toTransactionResponse(tran *domain.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:             tran.ID,
		RefID:          tran.RefID.String(),
		CardholderName: tran.CardholderName,
		FromCard:       tran.FromCard,
		ToCard:         tran.ToCard,
		Amount:         tran.Amount.StringFixed(2),
		OperationType:  string(tran.OperationType),
		Bank:           tran.Bank,
		Comment:        tran.Comment,
		Image:          tran.Image,
		Timestamp:      tran.Timestamp,
	}
	if tran.BalanceAfter != nil {
		after := tran.BalanceAfter.StringFixed(2)
		resp.BalanceAfter = &after
	}
	return resp
}

type ownerResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// cardResponse is the account summary. The card number is masked to its
// last four digits; CVV and expiration never leave the server.
type cardResponse struct {
	CardNumber   string                `json:"card_number"`
	Balance      string                `json:"balance"`
	Owner        ownerResponse         `json:"owner"`
	Transactions []transactionResponse `json:"transactions"`
}

func toCardResponse(statement *usecase.CardStatement) cardResponse {
	transactions := make([]transactionResponse, 0, len(statement.Transactions))
	for _, tran := range statement.Transactions {
		transactions = append(transactions, toTransactionResponse(tran))
	}

	return cardResponse{
		CardNumber: maskCardNumber(statement.Account.CardNumber),
		Balance:    statement.Account.Balance.StringFixed(2),
		Owner: ownerResponse{
			ID:   statement.Account.OwnerID,
			Name: statement.Account.OwnerName,
		},
		Transactions: transactions,
	}
}

// maskCardNumber keeps the last four characters.
func maskCardNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

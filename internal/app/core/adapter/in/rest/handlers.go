package rest

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cardbank/ledger/internal/app/core/domain"
)

var validate = validator.New()

// createTransactionRequest is the inbound posting shape. Amount accepts a
// JSON number or a decimal string. from_card/to_card stay free text: an
// identifier that resolves to no account is a valid classification branch.
type createTransactionRequest struct {
	CardholderName string          `json:"cardholder_name" validate:"required,max=32"`
	FromCard       string          `json:"from_card" validate:"omitempty,max=16"`
	ToCard         string          `json:"to_card" validate:"omitempty,max=16"`
	Amount         decimal.Decimal `json:"amount"`
	Bank           string          `json:"bank" validate:"omitempty,max=64"`
	Comment        string          `json:"comment" validate:"omitempty,max=255"`
	Image          string          `json:"image"`
}

func (s *Server) createTransaction(c *fiber.Ctx) error {
	var req createTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "validation_error", "malformed request body")
	}
	if err := validate.Struct(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "validation_error", err.Error())
	}

	posting := &domain.Posting{
		CardholderName: req.CardholderName,
		FromCard:       req.FromCard,
		ToCard:         req.ToCard,
		Amount:         req.Amount,
		Bank:           req.Bank,
		Comment:        req.Comment,
		Image:          req.Image,
	}

	tran, err := s.core.PostTransaction(c.UserContext(), posting)
	if err != nil {
		return s.respondDomainError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tran))
}

func (s *Server) getTransaction(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "validation_error", "transaction id must be an integer")
	}

	tran, err := s.core.GetTransaction(c.UserContext(), id)
	if err != nil {
		return s.respondDomainError(c, err)
	}

	return c.JSON(toTransactionResponse(tran))
}

func (s *Server) listTransactions(c *fiber.Ctx) error {
	card := c.Query("card")
	if card == "" {
		return writeError(c, fiber.StatusBadRequest, "validation_error", "card query parameter is required")
	}

	transactions, err := s.core.ListTransactionsForCard(c.UserContext(), card)
	if err != nil {
		return s.respondDomainError(c, err)
	}

	resp := make([]transactionResponse, 0, len(transactions))
	for _, tran := range transactions {
		resp = append(resp, toTransactionResponse(tran))
	}
	return c.JSON(resp)
}

func (s *Server) getCard(c *fiber.Ctx) error {
	statement, err := s.core.GetCardStatement(c.UserContext(), c.Params("number"))
	if err != nil {
		return s.respondDomainError(c, err)
	}

	return c.JSON(toCardResponse(statement))
}

// respondDomainError maps the error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 with a generic body.
func (s *Server) respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return writeError(c, fiber.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return writeError(c, fiber.StatusBadRequest, "insufficient_funds", err.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return writeError(c, fiber.StatusNotFound, "account_not_found", err.Error())
	case errors.Is(err, domain.ErrTransactionNotFound):
		return writeError(c, fiber.StatusNotFound, "transaction_not_found", err.Error())
	default:
		s.log.Error("unhandled ledger error", zap.Error(err))
		return writeError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
	}
}

package controller

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"earn-dashboard/internal/client"
	"earn-dashboard/internal/models"
	"earn-dashboard/internal/state"
)

var mobilePattern = regexp.MustCompile(`^01[3-9][0-9]{8}$`)

// WithdrawalForm holds the raw withdraw form values.
type WithdrawalForm struct {
	Method string `json:"method" form:"method"`
	Mobile string `json:"mobile" form:"mobile"`
	Amount string `json:"amount" form:"amount"`
}

// ValidationError is a form problem reported to the user without contacting the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// ValidateWithdrawal checks the form in order: method, mobile number, amount. The first failure wins.
func ValidateWithdrawal(f WithdrawalForm, balance, minimum float64) (float64, error) {
	if !models.IsPaymentMethod(f.Method) {
		return 0, &ValidationError{Field: "method", Message: "Please select a payment method."}
	}
	if !mobilePattern.MatchString(strings.TrimSpace(f.Mobile)) {
		return 0, &ValidationError{Field: "mobile", Message: "Please enter a valid mobile number (01XXXXXXXXX)."}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, &ValidationError{Field: "amount", Message: "Please enter a valid amount."}
	}
	amount = models.Round2(amount)
	if amount < minimum {
		return 0, &ValidationError{Field: "amount", Message: fmt.Sprintf("Minimum withdrawal amount is %s.", models.FormatMoney(minimum))}
	}
	if amount > balance {
		return 0, &ValidationError{Field: "amount", Message: "Insufficient balance."}
	}
	return amount, nil
}

// SubmitWithdrawal validates the form against the cached balance, sends it to the backend and,
// once accepted, deducts the amount locally.
func (c *Controller) SubmitWithdrawal(ctx context.Context, sess *state.Session, f WithdrawalForm) (*models.UserSnapshot, error) {
	sid := sess.ID()
	snap := sess.Snapshot()
	if snap == nil {
		return nil, state.ErrNoSnapshot
	}

	amount, err := ValidateWithdrawal(f, snap.User.Balance, c.opts.MinWithdrawal)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			c.notifier.Emit(sid, ve.Message, models.KindError)
		}
		return nil, err
	}

	if err := sess.TryBeginWithdrawal(); err != nil {
		if errors.Is(err, state.ErrBusy) {
			c.notifier.Emit(sid, "A withdrawal request is already being processed.", models.KindWarning)
		}
		return nil, err
	}
	defer sess.EndWithdrawal()

	req := models.WithdrawalRequest{
		TelegramID: snap.User.TelegramID,
		Amount:     amount,
		Method:     f.Method,
		Mobile:     strings.TrimSpace(f.Mobile),
	}
	requestID := c.newRequestID()

	if err := c.backend.SubmitWithdrawal(ctx, req, requestID); err != nil {
		class := client.Classify(err)
		log.Error().Err(err).Int64("telegram_id", req.TelegramID).Str("request_id", requestID).
			Str("class", class.String()).Msg("withdrawal failed")
		c.notifier.Emit(sid, failureMessage(class), models.KindError)
		return nil, err
	}

	// The balance may have moved while the request was in flight; the debit clamps at zero.
	if current := sess.Snapshot(); current != nil && current.User.Balance < amount {
		log.Warn().Int64("telegram_id", req.TelegramID).Float64("balance", current.User.Balance).
			Float64("amount", amount).Msg("balance dropped below withdrawal amount")
	}
	updated, err := sess.DebitWithdrawal(amount)
	if err != nil {
		return nil, err
	}

	c.notifier.Emit(sid, fmt.Sprintf("✅ Withdrawal request of %s submitted!", models.FormatMoney(amount)), models.KindSuccess)
	log.Info().Int64("telegram_id", req.TelegramID).Str("request_id", requestID).Float64("amount", amount).
		Str("method", req.Method).Msg("withdrawal submitted")

	now := time.Now().UTC()
	c.record(ctx, models.Activity{
		TelegramID: req.TelegramID,
		Kind:       models.ActivityWithdrawal,
		Amount:     amount,
		Method:     req.Method,
		Mobile:     req.Mobile,
		RequestID:  requestID,
		CreatedAt:  now,
	})
	c.publish(ctx, models.Event{
		Type:       models.EventWithdrawalRequested,
		TelegramID: req.TelegramID,
		Amount:     amount,
		Method:     req.Method,
		RequestID:  requestID,
		At:         now,
	})
	return updated, nil
}

func failureMessage(class client.Class) string {
	switch class {
	case client.ClassTransport:
		return "Network error. Please check your connection and try again."
	case client.ClassUnauthenticated, client.ClassRejected:
		return "Withdrawal request was rejected. Please check your details."
	default:
		return "Server error. Please try again later."
	}
}

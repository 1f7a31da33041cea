package models

// PaymentMethod is a mobile wallet accepted for payouts.
type PaymentMethod struct {
	Code  string
	Label string
}

// PaymentMethods is the fixed list offered on the withdraw page.
var PaymentMethods = []PaymentMethod{
	{Code: "bkash", Label: "bKash"},
	{Code: "nagad", Label: "Nagad"},
	{Code: "rocket", Label: "Rocket"},
}

// IsPaymentMethod reports whether code is one of PaymentMethods.
func IsPaymentMethod(code string) bool {
	for _, m := range PaymentMethods {
		if m.Code == code {
			return true
		}
	}
	return false
}

// WithdrawalRequest is the body of POST /api/withdraw.
type WithdrawalRequest struct {
	TelegramID int64   `json:"telegram_id"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
	Mobile     string  `json:"mobile"`
}

package model

// TransactionStatus is the payment provider's own status vocabulary. It must
// not leak past MapTransactionStatus.
type TransactionStatus string

const (
	TransactionStatusSettlement TransactionStatus = "settlement"
	TransactionStatusCapture    TransactionStatus = "capture"
	TransactionStatusAccept     TransactionStatus = "accept"
	TransactionStatusDeny       TransactionStatus = "deny"
	TransactionStatusCancel     TransactionStatus = "cancel"
	TransactionStatusExpire     TransactionStatus = "expire"
	TransactionStatusFailure    TransactionStatus = "failure"
	TransactionStatusPending    TransactionStatus = "pending"
)

// ProviderTransaction is the provider-side view of an order's charge.
type ProviderTransaction struct {
	OrderID           string
	TransactionID     string
	TransactionStatus TransactionStatus
	PaymentType       string
	QRCodeURL         string
}

// ChargeResult is the outcome of a freshly created QR charge.
type ChargeResult struct {
	TransactionID string
	QRCodeURL     string
}

// Payer identifies the customer on a charge request.
type Payer struct {
	Name  string
	Email string
}

// MapTransactionStatus translates the provider vocabulary into the four-state
// order model. The second return value reports whether a transition applies;
// unrecognized provider states leave the order untouched.
func MapTransactionStatus(status TransactionStatus) (OrderStatus, bool) {
	switch status {
	case TransactionStatusSettlement, TransactionStatusCapture, TransactionStatusAccept:
		return OrderStatusSuccess, true
	case TransactionStatusDeny, TransactionStatusCancel, TransactionStatusExpire, TransactionStatusFailure:
		return OrderStatusFailed, true
	default:
		return "", false
	}
}

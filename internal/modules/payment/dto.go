package payment

type RecordPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

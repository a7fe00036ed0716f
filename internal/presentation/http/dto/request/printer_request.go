package request

// PrintReceiptRequest is the request body for printing a receipt.
type PrintReceiptRequest struct {
	Type string `json:"type" binding:"required,oneof=sale quotation"`
	ID   int64  `json:"id" binding:"required,min=1"`
}

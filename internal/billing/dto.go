package billing

// CreateBillRequest is the payload for creating a bill. Prices come from the
// client and are snapshotted as-is.
type CreateBillRequest struct {
	CustomerName  string              `json:"customerName"`
	CustomerPhone string              `json:"customerPhone"`
	Items         []CreateBillItemReq `json:"items"`
}

// CreateBillItemReq is one requested line.
type CreateBillItemReq struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
}

// ListFilter narrows the bill listing.
type ListFilter struct {
	Query  string
	Status string
}

// UpdateStatusRequest carries the new bill status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

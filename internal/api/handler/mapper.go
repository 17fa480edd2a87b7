package handler

import (
	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

func toItemInput(req itemRequest) ports.ItemInput {
	return ports.ItemInput{
		Name:     req.Name,
		Category: req.Category,
		Quantity: req.Quantity,
		Price:    req.Price,
		Status:   domain.ItemStatus(req.Status),
	}
}

// --- Domain → Response ---

func toAccountResponse(a domain.PublicAccount) accountResponse {
	return accountResponse{ID: a.ID, Username: a.Username, Email: a.Email}
}

func toItemResponse(it *domain.Item) itemResponse {
	return itemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Category:  it.Category,
		Quantity:  it.Quantity,
		Price:     it.Price,
		Status:    string(it.Status),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

func toItemResponses(items []*domain.Item) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}
	return out
}

func toSummaryResponse(s *domain.ItemSummary) summaryResponse {
	return summaryResponse{
		TotalItems:    s.TotalItems,
		TotalQuantity: s.TotalQuantity,
		TotalValue:    s.TotalValue,
		LowStock:      s.LowStock,
		OutOfStock:    s.OutOfStock,
	}
}

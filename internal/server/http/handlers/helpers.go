package handlers

import (
	"github.com/febryan/qrispay/internal/domain/model"
	"github.com/febryan/qrispay/internal/server/http/dto"
)

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		ServiceType:   string(order.ServiceType),
		Price:         order.Price,
		Status:        string(order.Status),
		QRCodeURL:     order.QRCodeURL,
		TransactionID: order.TransactionID,
		PaymentMethod: order.PaymentMethod,
		CreatedAt:     order.CreatedAt,
		ExpiryTime:    order.ExpiryTime,
		CompletedAt:   order.CompletedAt,
	}
}

package mapping

import (
	"github.com/syncpay/guardianpay/internal/core/domain"
	"github.com/syncpay/guardianpay/internal/models"
)

func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		ParentID:       d.ParentID,
		StudentID:      d.StudentID,
		OriginalAmount: d.OriginalAmount,
		AdjustedAmount: d.AdjustedAmount,
		DynamicRate:    d.DynamicRate,
		Status:         models.PaymentStatus(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		ParentID:       m.ParentID,
		StudentID:      m.StudentID,
		OriginalAmount: m.OriginalAmount,
		AdjustedAmount: m.AdjustedAmount,
		DynamicRate:    m.DynamicRate,
		Status:         domain.PaymentStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

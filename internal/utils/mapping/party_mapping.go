package mapping

import (
	"github.com/syncpay/guardianpay/internal/core/domain"
	"github.com/syncpay/guardianpay/internal/models"
)

func ToModelStudent(d domain.Student) models.Student {
	return models.Student{
		StudentID:   d.StudentID,
		UserID:      d.UserID,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStudent converts a student row to its domain form. ParentIDs are
// loaded from the link table separately and passed in.
func ToDomainStudent(m models.Student, parentIDs []string) domain.Student {
	return domain.Student{
		StudentID:   m.StudentID,
		UserID:      m.UserID,
		Balance:     m.Balance,
		ParentIDs:   parentIDs,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelParent(d domain.Parent) models.Parent {
	return models.Parent{
		ParentID:    d.ParentID,
		UserID:      d.UserID,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainParent(m models.Parent) domain.Parent {
	return domain.Parent{
		ParentID:    m.ParentID,
		UserID:      m.UserID,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

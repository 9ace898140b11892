package repository

import (
	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
)

func toDomainUser(u database.User) domain.User {
	user := domain.User{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Username:  u.Username,
		Name:      u.Name,
		Diseases:  make([]domain.Disease, 0, len(u.Diseases)),
	}
	if u.TelegramID != nil {
		user.TelegramID = *u.TelegramID
	}
	for _, d := range u.Diseases {
		user.Diseases = append(user.Diseases, domain.Disease(d))
	}
	return user
}

func diseaseStrings(diseases []domain.Disease) []string {
	out := make([]string, 0, len(diseases))
	seen := make(map[domain.Disease]bool, len(diseases))
	for _, d := range diseases {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, string(d))
	}
	return out
}

func toDomainReading(r database.Reading) domain.Reading {
	return domain.Reading{
		ID:             r.ID,
		UserID:         r.UserID,
		MetricType:     domain.MetricType(r.MetricType),
		PrimaryValue:   r.PrimaryValue,
		SecondaryValue: r.SecondaryValue,
		Unit:           r.Unit,
		Context:        r.Context,
		Notes:          r.Notes,
		Timestamp:      r.Timestamp.UTC(),
		LogDate:        r.LogDate.UTC(),
	}
}

func fromDomainReading(r *domain.Reading) database.Reading {
	return database.Reading{
		UserID:         r.UserID,
		MetricType:     string(r.MetricType),
		PrimaryValue:   r.PrimaryValue,
		SecondaryValue: r.SecondaryValue,
		Unit:           r.Unit,
		Context:        r.Context,
		Notes:          r.Notes,
		Timestamp:      r.Timestamp.UTC(),
		LogDate:        r.LogDate.UTC(),
	}
}

func toDomainMedication(m database.Medication) domain.Medication {
	return domain.Medication{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Dosage:    m.Dosage,
		Frequency: m.Frequency,
		Times:     append([]string{}, m.Times...),
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

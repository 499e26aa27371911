package store

import (
	"github.com/detalhesstore/detalhes-backend/pkg/db/models"
	"github.com/detalhesstore/detalhes-backend/pkg/types"
)

func faqItemsFromRows(rows []models.FAQ) []types.FAQItem {
	items := make([]types.FAQItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, types.FAQItem{
			ID:       r.ID,
			Question: r.Question,
			Answer:   r.Answer,
			Enabled:  r.Enabled,
		})
	}
	return items
}

func testimonialsFromRows(rows []models.TestimonialRow) []types.Testimonial {
	items := make([]types.Testimonial, 0, len(rows))
	for _, r := range rows {
		items = append(items, types.Testimonial{
			ID:      r.ID,
			Name:    r.Name,
			Content: r.Content,
			Image:   r.Image,
			Rating:  r.Rating,
			Enabled: r.Enabled,
		})
	}
	return items
}

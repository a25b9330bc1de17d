package messaging

import (
	"sync"

	"github.com/google/uuid"

	"hemam-service/internal/models"
)

// TemplateRegistry holds reusable message templates keyed by id.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]models.MessageTemplate
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]models.MessageTemplate)}
}

// Add registers a template, assigning an id when the caller left it empty,
// and returns the id.
func (r *TemplateRegistry) Add(template models.MessageTemplate) string {
	if template.ID == "" {
		template.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[template.ID] = template
	return template.ID
}

func (r *TemplateRegistry) Get(id string) (models.MessageTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.templates[id]
	return template, ok
}

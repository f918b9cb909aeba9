// Package catalog resolves guest-facing service names to platform service ids.
package catalog

import (
	"sort"
	"strings"

	"slotfinder/config"

	"github.com/google/uuid"
)

// Service is one entry of the alias table.
type Service struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

// Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	byAlias  map[string]string
	names    map[string]string
	services []Service
}

// DefaultServices is the Phoenix Encanto menu used when no table is configured.
var DefaultServices = []config.ServiceAlias{
	{ID: "f9160450-0b51-4ddc-bcc7-ac150103d5c0", Name: "Haircut Standard", Aliases: []string{"haircut_standard", "standard", "haircut"}},
	{ID: "14000cb7-a5bb-4a26-9f23-b0f3016cc009", Name: "Haircut Skin Fade", Aliases: []string{"haircut_skin_fade", "skin_fade", "fade"}},
	{ID: "721e907d-fdae-41a5-bec4-ac150104229b", Name: "Long Locks", Aliases: []string{"long_locks", "locks"}},
	{ID: "67c644bc-237f-4794-8b48-ac150106d5ae", Name: "Wash", Aliases: []string{"wash", "shampoo"}},
	{ID: "65ee2a0d-e995-4d8d-a286-ac150106994b", Name: "Grooming", Aliases: []string{"grooming", "beard", "beard_trim"}},
}

// Normalize folds case, surrounding whitespace, and '_' versus ' ' separators.
func Normalize(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	t = strings.ReplaceAll(t, "_", " ")
	return strings.Join(strings.Fields(t), " ")
}

func NewResolver(table []config.ServiceAlias) *Resolver {
	if len(table) == 0 {
		table = DefaultServices
	}
	r := &Resolver{
		byAlias: make(map[string]string),
		names:   make(map[string]string),
	}
	for _, s := range table {
		id := strings.ToLower(strings.TrimSpace(s.ID))
		r.names[id] = s.Name
		r.byAlias[Normalize(s.Name)] = id
		for _, a := range s.Aliases {
			r.byAlias[Normalize(a)] = id
		}
		r.services = append(r.services, Service{ID: id, Name: s.Name, Aliases: append([]string(nil), s.Aliases...)})
	}
	sort.Slice(r.services, func(i, j int) bool { return r.services[i].Name < r.services[j].Name })
	return r
}

// Resolve maps a token to a service id. Anything uuid.Parse accepts comes
// back in canonical lowercase dashed form.
func (r *Resolver) Resolve(token string) (string, bool) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", false
	}
	if u, err := uuid.Parse(trimmed); err == nil {
		return u.String(), true
	}
	id, ok := r.byAlias[Normalize(trimmed)]
	return id, ok
}

// ResolveAll resolves every token, returning the ids and the tokens that failed.
func (r *Resolver) ResolveAll(tokens []string) ([]string, []string) {
	ids := make([]string, 0, len(tokens))
	var unknown []string
	for _, t := range tokens {
		id, ok := r.Resolve(t)
		if !ok {
			unknown = append(unknown, t)
			continue
		}
		ids = append(ids, id)
	}
	return ids, unknown
}

// Name returns the configured display name, or "" for pass-through ids.
func (r *Resolver) Name(id string) string {
	return r.names[strings.ToLower(id)]
}

func (r *Resolver) Services() []Service {
	return r.services
}

package admin

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openadm/restadmin/internal/logger"
)

// Schema is the endpoint registry: it accumulates resource registrations
// in insertion order and serializes the frontend's bootstrap document.
// Built once at startup; read-only while serving requests.
type Schema struct {
	title     string
	endpoints []*endpoint
}

type endpoint struct {
	resource   *Resource
	listFields []string
}

// NewSchema creates an empty registry with the given panel title.
func NewSchema(title string) *Schema {
	if title == "" {
		title = "Admin"
	}
	return &Schema{title: title}
}

// Register adds a resource to the registry. listFields selects the columns
// shown in the frontend's list view; pass "*" for all, or nothing for just
// the primary key.
func (s *Schema) Register(res *Resource, listFields ...string) {
	s.endpoints = append(s.endpoints, &endpoint{resource: res, listFields: listFields})
}

// Resources returns all registered resources in registration order.
func (s *Schema) Resources() []*Resource {
	out := make([]*Resource, len(s.endpoints))
	for i, ep := range s.endpoints {
		out[i] = ep.resource
	}
	return out
}

// endpointDoc is one entry of the bootstrap document.
type endpointDoc struct {
	Name        string               `json:"name"`
	URL         string               `json:"url"`
	Fields      map[string]FieldType `json:"fields"`
	Inputs      []InputDescriptor    `json:"inputs"`
	PrimaryKeys []string             `json:"primaryKeys"`
}

// ToJSON serializes the bootstrap document the frontend loads at startup:
// the panel title plus every endpoint's field descriptors, sorted by name.
func (s *Schema) ToJSON() ([]byte, error) {
	docs := make([]endpointDoc, 0, len(s.endpoints))
	for _, ep := range s.endpoints {
		res := ep.resource
		docs = append(docs, endpointDoc{
			Name:        res.name,
			URL:         "/" + res.name,
			Fields:      FieldTypes(res.table, ep.listFields...),
			Inputs:      Inputs(res.table),
			PrimaryKeys: PrimaryKeyFields(res.table),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	return json.Marshal(map[string]any{
		"title":     s.title,
		"endpoints": docs,
	})
}

// Routes mounts every registered resource plus the bootstrap document on
// a router with panic recovery and request logging.
func (s *Schema) Routes(log *logger.Logger) chi.Router {
	if log == nil {
		log = logger.New(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		doc, err := s.ToJSON()
		if err != nil {
			writeError(w, log, err)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(doc)
	})

	for _, ep := range s.endpoints {
		r.Mount("/"+ep.resource.name, ep.resource.Routes())
	}

	return r
}

// Package generichttp holds the route table shared by the HTTP adapters of the
// subframe packages, and a few helpers for JSON replies.
package generichttp

import (
	"encoding/json"
	"log"
	"net/http"
	"sort"

	"github.com/go-chi/chi"
)

// MethodPath is a struct containing a method and a path
type MethodPath struct {
	Method string
	Path   string
}

// RouteTable maps method+path pairs to handlers
type RouteTable map[MethodPath]http.HandlerFunc

// HTTPer is something that knows its routes
type HTTPer interface {
	RT() RouteTable
}

// Endpoints lists the endpoints in a RouteTable as "METHOD /path", sorted
func (rt RouteTable) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for k := range rt {
		routes = append(routes, k.Method+" "+k.Path)
	}
	sort.Strings(routes)
	return routes
}

// Bind binds every route in the table to r, plus GET /list-of-routes
func (rt RouteTable) Bind(r chi.Router) {
	for mp, fcn := range rt {
		r.MethodFunc(mp.Method, mp.Path, fcn)
	}
	r.Get("/list-of-routes", func(w http.ResponseWriter, req *http.Request) {
		Reply(w, http.StatusOK, rt.Endpoints())
	})
}

// Reply encodes v as JSON with the given status code
func Reply(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		log.Printf("error encoding reply to json %q", err)
	}
}

// ErrorT is the body of an error reply
type ErrorT struct {
	Error string `json:"error"`
}

// ReplyError sends err as a JSON error body with the given status code
func ReplyError(w http.ResponseWriter, status int, err error) {
	Reply(w, status, ErrorT{Error: err.Error()})
}

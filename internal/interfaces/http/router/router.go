package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// API is the versioned surface mounted under /api/<version>
type API struct {
	version  string
	group    *gin.RouterGroup
	sections []string
}

// NewAPI mounts the versioned group. mw runs for every API route but not for
// the probes registered directly on the engine.
func NewAPI(engine *gin.Engine, version string, mw ...gin.HandlerFunc) *API {
	group := engine.Group("/api/" + version)
	group.Use(mw...)
	return &API{version: version, group: group}
}

// Section opens a resource subtree; guards run before every handler in it
func (a *API) Section(name, prefix string, guards ...gin.HandlerFunc) *Section {
	a.sections = append(a.sections, name)
	g := a.group.Group(prefix)
	g.Use(guards...)
	return &Section{group: g}
}

// Sections lists mounted section names in registration order
func (a *API) Sections() []string {
	return append([]string(nil), a.sections...)
}

// Section is a chainable route table for one resource
type Section struct {
	group *gin.RouterGroup
}

func (s *Section) GET(path string, chain ...gin.HandlerFunc) *Section {
	return s.on(http.MethodGet, path, chain)
}

func (s *Section) POST(path string, chain ...gin.HandlerFunc) *Section {
	return s.on(http.MethodPost, path, chain)
}

func (s *Section) PUT(path string, chain ...gin.HandlerFunc) *Section {
	return s.on(http.MethodPut, path, chain)
}

func (s *Section) DELETE(path string, chain ...gin.HandlerFunc) *Section {
	return s.on(http.MethodDelete, path, chain)
}

func (s *Section) on(method, path string, chain []gin.HandlerFunc) *Section {
	s.group.Handle(method, path, chain...)
	return s
}

// Package router mounts the API handlers under a versioned gin route tree.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Group is the route table of one resource. Groups are declared up front and
// mounted on an engine in one pass, so route order stays visible in one place.
type Group struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
	children   []*Group
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewGroup declares a resource under prefix, guarded by the optional middleware
func NewGroup(prefix string, middleware ...gin.HandlerFunc) *Group {
	return &Group{prefix: prefix, middleware: middleware}
}

func (g *Group) Handle(method, path string, handlers ...gin.HandlerFunc) *Group {
	g.routes = append(g.routes, route{method: method, path: path, handlers: handlers})
	return g
}

func (g *Group) GET(path string, h ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodGet, path, h...)
}

func (g *Group) POST(path string, h ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPost, path, h...)
}

func (g *Group) PUT(path string, h ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodPut, path, h...)
}

func (g *Group) DELETE(path string, h ...gin.HandlerFunc) *Group {
	return g.Handle(http.MethodDelete, path, h...)
}

// Sub declares a nested group below g
func (g *Group) Sub(prefix string, middleware ...gin.HandlerFunc) *Group {
	child := NewGroup(prefix, middleware...)
	g.children = append(g.children, child)
	return child
}

func (g *Group) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.method, r.path, r.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

// Mount registers groups on engine below /api/<version>
func Mount(engine *gin.Engine, version string, groups ...*Group) {
	api := engine.Group("/api/" + version)
	for _, g := range groups {
		g.mount(api)
	}
}

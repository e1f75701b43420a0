package models

import "github.com/prajwalbharadwajbm/hashroute/internal/routing"

// RouteInfo describes one entry of the route table
type RouteInfo struct {
	Name  string `json:"name" bencode:"name"`
	Path  string `json:"path" bencode:"path"`
	View  string `json:"view" bencode:"view"`
	Title string `json:"title" bencode:"title"`
}

// RouteMatch is the resolved route handed to the rendering layer
type RouteMatch struct {
	Name   string              `json:"name"`
	Path   string              `json:"path"`
	Href   string              `json:"href"`
	View   string              `json:"view"`
	Title  string              `json:"title"`
	Params map[string]string   `json:"params,omitempty"`
	Query  map[string][]string `json:"query,omitempty"`
}

// FromTable lists the table's routes in declaration order
func FromTable(table *routing.Table) []RouteInfo {
	routes := table.Routes()
	infos := make([]RouteInfo, len(routes))
	for i, d := range routes {
		info := RouteInfo{
			Name: d.Name,
			Path: d.Path,
			View: string(d.View),
		}
		if view, ok := table.View(d.Name); ok {
			info.Title = view.Title()
		}
		infos[i] = info
	}
	return infos
}

// FromMatch converts a resolved match. href is the hash form of the location.
func FromMatch(m routing.Match, href string) RouteMatch {
	rm := RouteMatch{
		Name:   m.Route.Name,
		Path:   m.Path,
		Href:   href,
		View:   string(m.Route.View),
		Params: m.Params,
		Query:  m.Query,
	}
	if m.View != nil {
		rm.Title = m.View.Title()
	}
	return rm
}

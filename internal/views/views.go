// Package views declares the views the application can mount and the
// registry that builds them at startup.
package views

import "github.com/prajwalbharadwajbm/hashroute/internal/routing"

// Known view identifiers
const (
	HomeID routing.ViewID = "home"
)

// Home is the landing view
type Home struct{}

func (Home) ID() routing.ViewID { return HomeID }

func (Home) Title() string { return "Home" }

// Default returns a registry holding every view of the application
func Default() *routing.Registry {
	registry := routing.NewRegistry()
	registry.MustRegister(HomeID, func() routing.View { return Home{} })
	return registry
}

// Routes is the application's route table declaration
func Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Path: "/", Name: "Home", View: HomeID},
	}
}

// NewTable builds the application's route table
func NewTable() (*routing.Table, error) {
	return routing.NewTable(Default(), Routes()...)
}

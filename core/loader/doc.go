// Package loader registers the features mounted on the HTTP application.
//
// A feature implements
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// and is handed to Manager.Register. LoadAll then mounts every enabled feature
// in registration order and stops at the first error.
package loader

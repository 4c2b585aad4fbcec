// Package courses defines the generated course model and its persistence.
//
// VisualElement and Block are tagged unions: exactly one variant is populated
// and the JSON codec dispatches on the "type" discriminator. Validate is run
// at every boundary where course data enters the system (the structuring
// adapter after parsing a generation-service response, and course replacement
// over HTTP) so malformed content fails fast with a clear diagnostic instead
// of propagating.
package courses

package server

import "github.com/google/wire"

// ProviderSet exposes transport constructors for dependency injection.
var ProviderSet = wire.NewSet(NewHTTPServer)

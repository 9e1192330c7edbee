// Package all imports all transaction sub-packages to trigger their init() registrations.
// Import this package in the main application to ensure all transaction types are registered.
package all

import (
	_ "github.com/LeJamon/goMarketd/internal/core/tx/admin"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/bid"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/escrow"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/listing"
	_ "github.com/LeJamon/goMarketd/internal/core/tx/token"
)

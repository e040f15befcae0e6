// Package all wires every built-in storage backend into the storage factory.
// It exists purely for side effects: blank-importing it runs each backend's
// init, which registers its factory. Binaries that only need one backend can
// import that backend directly instead.
package all

import (
	_ "lyriq/internal/storage/postgres"
	_ "lyriq/internal/storage/sqlite"
)

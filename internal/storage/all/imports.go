// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. After that the following storage
// kinds are available at runtime:
//
//   - "postgres" (surveyetl/internal/storage/postgres)
//   - "mssql"    (surveyetl/internal/storage/mssql)
//   - "sqlite"   (surveyetl/internal/storage/sqlite)
//
// Binaries that only need a subset of backends can import the individual
// backend packages instead of this one.
package all

import (
	_ "surveyetl/internal/storage/mssql"
	_ "surveyetl/internal/storage/postgres"
	_ "surveyetl/internal/storage/sqlite"
)

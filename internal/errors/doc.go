// Package errors provides coded, actionable errors for the dgrid binaries.
//
// Library packages (pkg/...) return plain sentinel errors wrapped with %w.
// The command line and the live server translate them into a GridError,
// which carries a stable code, a category, a longer explanation and an
// optional hint.
//
// # Error Codes
//
//   - E100-E199: configuration files
//   - E200-E209: store queries and updates
//   - E210-E219: data loading (files, S3, bolt)
//   - E300-E399: the live websocket protocol
//   - E400-E499: command line usage
//
// # Usage
//
//	err := errors.New("E101").
//	    WithLocation("dgrid.toml", 4, 9).
//	    Wrap(parseErr)
//
//	errors.PrintError(err)
//	// ERROR E101: Configuration file could not be parsed
//	//
//	//   dgrid.toml:4:9
//	//
//	//        2 │ [server]
//	//        3 │ host = "localhost"
//	//   →    4 │ port = eighty
//	//          │         ^
//
// Colors are disabled automatically when stderr is not a terminal or
// NO_COLOR is set.
package errors

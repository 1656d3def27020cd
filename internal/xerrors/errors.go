// Package xerrors re-exports github.com/cockroachdb/errors for the I/O edges
// of trendradar (config, loaders, export, CLI).
//
// The layout core never returns errors; only code that touches files,
// databases or the terminal imports this package.
//
//	if err := doSomething(); err != nil {
//	    return xerrors.Wrap(err, "failed to do something")
//	}
package xerrors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap

	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Sentinels shared across packages.
var (
	ErrNoSource          = crdb.New("no valid snapshot source found")
	ErrUnsupportedFormat = crdb.New("unsupported export format")
	ErrEmptyLayout       = crdb.New("nothing to render: layout is empty")
)

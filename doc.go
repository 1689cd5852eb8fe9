// Package hpml trains and serves a governed house-price regression model.
//
// The model is a ridge regression behind a preprocessing pipeline that
// standardizes numeric columns and one-hot encodes categorical ones. Which
// columns may become inputs is decided by a governance Policy: an explicit
// allow-list plus a set of forbidden substrings (id, index, row, listing) that
// keep identifier-like columns out even if someone adds them to the list.
//
// # Packages
//
//   - governance: Policy, Governor and target column resolution
//   - pipeline: column transformer and ridge regressor as one fitted unit
//   - training: end-to-end training with in-sample metrics and coefficients
//   - artifact: gob model bundle and JSON metadata
//   - scoring: batch and single-row prediction, BOM-prefixed CSV export
//   - registry: SQLite ledger of training runs
//   - diagnostics: actual-vs-predicted plot
//   - serve: HTTP API (/health, /model-info, /predict)
//
// # Quick Start
//
//	data, err := frame.ReadCSVFile("houses.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := training.New(governance.DefaultPolicy()).Train(ctx, data, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths := artifact.Paths{Model: "app/model.gob", Meta: "app/model_meta.json"}
//	if _, _, err := artifact.WriteAll(res, paths, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	scorer, err := scoring.Load(paths.Model, paths.Meta, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := scorer.Score(ctx, newData)
//
// # Command line
//
// The hpml command wraps the same flow:
//
//	hpml train --data houses.csv
//	hpml score --data new_houses.csv
//	hpml serve --listen :8000
//
// Settings come from defaults, an optional hpml.yaml, HPML_* environment
// variables and flags, in increasing order of precedence.
package hpml

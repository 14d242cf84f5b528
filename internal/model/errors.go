package model

import "errors"

// ErrDataUnavailable means the data source failed, was unreachable, or
// returned fewer candles than requested. During screening the symbol is
// skipped; in the detail view it aborts the request.
var ErrDataUnavailable = errors.New("candle data unavailable")

// ErrInsufficientHistory means a series is shorter than an indicator's
// warm-up window. It makes the bullish predicate false rather than failing
// the evaluation.
var ErrInsufficientHistory = errors.New("insufficient candle history")

// Package workflow implements the document analysis workflow for Redline.
// Execution runs as a state graph: a document is chunked, every chunk is
// analyzed concurrently by the reasoning service, and the normalized
// findings are merged in chunk order.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrNoInvoker      = errors.New("workflow runtime has no invoker")
)

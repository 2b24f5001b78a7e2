// Package validator checks that a runnable case is complete before it runs.
//
// Only the inheritance-resolved step set is inspected. Node shape rules such
// as duplicate orders or a second When step are rejected at registration by
// the testcase package and are not repeated here.
package validator

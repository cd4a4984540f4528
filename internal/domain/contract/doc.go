// Package contract models lease contracts, their specifications (addenda) and the
// billable service lines those specifications define.
package contract

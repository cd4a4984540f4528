// Package billing contains realizations, the monthly or one-off billing events a
// counterparty pays against, together with the billing period and payment status rules.
package billing
